package cli

import (
	"fmt"

	"github.com/jmylchreest/huewheel/internal/util/combocache"
	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached combination sets",
	}
	cmd.AddCommand(newCachePathCmd(a), newCacheClearCmd(a))
	return cmd
}

func newCachePathCmd(a *app) *cobra.Command {
	bg := newHexValue(a.cfg.Background)
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache file used for a background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := combocache.EntryPath(bg.key, a.cacheOptions())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	bindBackground(cmd.Flags(), bg)
	return cmd
}

func newCacheClearCmd(a *app) *cobra.Command {
	bg := newHexValue(a.cfg.Background)
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached combination sets",
		Long: `Delete the cache entry for --background, or every entry when no
background is given.

Clearing every entry also removes lock files that no running search holds.
Temporary files from a save in progress are left in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("background") {
				if err := combocache.Remove(bg.key, a.cacheOptions()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed cache entry for #%s\n", bg.key)
				return nil
			}

			n, err := combocache.Clear(a.cacheOptions())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d cache entries\n", n)
			return nil
		},
	}
	bindBackground(cmd.Flags(), bg)
	return cmd
}

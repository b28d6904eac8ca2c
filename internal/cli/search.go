package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var list bool
	bg := newHexValue(a.cfg.Background)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find every combination that passes on a background",
		Long: `Scan every lightness (0-100), saturation (0-100) and hue offset (0-359)
and keep the combinations whose six 60° rotations all reach WCAG 4.5:1 and
APCA Lc 32 against the background.

The result is cached per background; later runs, including --random, load
it from disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			combos, err := a.combinations(cmd, bg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d valid combinations for #%s\n", len(combos), bg.key)
			if list {
				for _, c := range combos {
					fmt.Fprintln(out, c)
				}
			}
			return nil
		},
	}

	bindBackground(cmd.Flags(), bg)
	cmd.Flags().BoolVar(&list, "list", false, "print every combination")
	return cmd
}

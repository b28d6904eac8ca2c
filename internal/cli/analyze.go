package cli

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/huewheel/internal/colour"
	"github.com/jmylchreest/huewheel/internal/palette"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var schemeName string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score popular colour schemes",
		Long: `Score the accent colours of a few well known schemes (Nord, Dracula,
Catppuccin, Gruvbox, Rosepine) against their own backgrounds.

For every colour the WCAG contrast ratio and APCA score are shown with a
pass mark (7:1 and Lc 50), followed by its OKHSL hue, saturation and
lightness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemes, err := selectSchemes(schemeName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, s := range schemes {
				analysis, err := palette.Analyse(s)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (background #%s)\n", s.Name, analysis.Background.Hex())
				fmt.Fprint(out, analysisTable(a.styler, analysis).Render())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemeName, "scheme", "", "analyse only the named scheme")
	return cmd
}

// selectSchemes returns every known scheme, or the one matching name.
func selectSchemes(name string) ([]palette.Scheme, error) {
	if name == "" {
		return palette.KnownSchemes, nil
	}
	names := make([]string, 0, len(palette.KnownSchemes))
	for _, s := range palette.KnownSchemes {
		if strings.EqualFold(s.Name, name) {
			return []palette.Scheme{s}, nil
		}
		names = append(names, strings.ToLower(s.Name))
	}
	return nil, fmt.Errorf("unknown scheme %q (available: %s)", name, strings.Join(names, ", "))
}

func analysisTable(st colour.Styler, an palette.Analysis) *Table {
	th := colour.ReportThresholds
	table := NewTable([]string{"COLOUR", "WCAG", "", "APCA", "", "H", "S", "L"})
	for _, col := range []int{1, 3, 5, 6, 7} {
		table.AlignRight(col)
	}
	for _, c := range an.Colours {
		table.AddRow([]string{
			st.OnBackground(c.RGB, an.Background, "#"+c.Hex()),
			fmt.Sprintf("%.2f", c.Ratio),
			mark(th.PassesRatio(c.Ratio)),
			fmt.Sprintf("%.1f", c.APCA),
			mark(th.PassesAPCA(c.APCA)),
			fmt.Sprintf("%.1f", c.Hue),
			fmt.Sprintf("%.1f", c.Saturation),
			fmt.Sprintf("%.1f", c.Lightness),
		})
	}
	return table
}

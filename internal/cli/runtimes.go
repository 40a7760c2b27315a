package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"digital.vasic.polyglot/pkg/executor"
)

func newRuntimesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "runtimes",
		Short: "List registered runtimes and whether their toolchains are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			statuses := s.engine.Availability(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			batch := a.settings.BatchRuntimes
			if batch == nil {
				batch = executor.DefaultBatchRuntimes
			}

			st := newStyles(out)
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(st.muted).
				Headers("RUNTIME", "STATUS", "MODE")
			for _, status := range statuses {
				avail := st.failure.Render("unavailable")
				if status.Available {
					avail = st.success.Render("available")
				}
				mode := "sequential"
				if slices.Contains(batch, status.Name) {
					mode = "batch"
				}
				t.Row(status.Name, avail, mode)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.polyglot/pkg/config"
	"digital.vasic.polyglot/pkg/env"
	"digital.vasic.polyglot/pkg/report"
)

func newValidateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Check a comparison document and resolve every runtime without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.LoadDocument(args[0])
			if err != nil {
				return configError(err)
			}

			s, err := a.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			plan, err := s.engine.Plan(doc)
			if err != nil {
				return configError(err)
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)
			fmt.Fprintln(out, st.title.Render(fmt.Sprintf(
				"%s: %d runtimes, %d examples",
				doc.Path, len(doc.Runtimes), len(doc.Examples),
			)))

			problems := 0
			for _, entry := range plan {
				mode := "sequential"
				if entry.Batch {
					mode = "batch"
				}
				head := fmt.Sprintf("%s [%s, %s]", entry.Runtime, entry.Executor, mode)

				if !entry.OK() {
					problems++
					fmt.Fprintf(out, "  %s %s: %s\n",
						st.line(report.GlyphFail), head, entry.Error)
					continue
				}

				detail := ""
				switch inv := entry.Invocation; {
				case inv.Path != "":
					detail = ": " + inv.Path
				case inv.Image != "":
					detail = ": image " + inv.Image
				case inv.URL != "":
					detail = ": " + env.RedactURL(inv.URL)
				}
				fmt.Fprintf(out, "  %s %s%s\n", st.line(report.GlyphPass), head, detail)
			}

			if problems > 0 {
				fmt.Fprintln(out, st.warning.Render(fmt.Sprintf(
					"%d of %d runtimes would be skipped", problems, len(plan),
				)))
				if strict {
					return &ExitError{Code: ExitConfig}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any runtime would be skipped")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"digital.vasic.polyglot/pkg/config"
	"digital.vasic.polyglot/pkg/consensus"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/monitor"
	"digital.vasic.polyglot/pkg/report"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Run every runtime of a comparison document and check consensus",
		Long: `Run every runtime named in a comparison document over its examples,
evaluate numeric consensus and print the transcript.

Exit codes: 0 consensus, 1 disagreement, 2 inconclusive (no active
runtime), 3 configuration error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}

	fs := cmd.Flags()
	fs.String("format", "text", "report file format: text, json, markdown or html")
	fs.String("output-dir", "", "write the report into this directory")
	fs.String("history", "", "append a summary line to this JSONL file")
	fs.String("monitor-addr", "", "serve live run events on this address")
	bindFlags(a.v, fs, map[string]string{
		"format":       "report.format",
		"output-dir":   "report.dir",
		"history":      "report.history",
		"monitor-addr": "monitor.addr",
	})
	return cmd
}

func (a *app) run(cmd *cobra.Command, path string) error {
	doc, err := config.LoadDocument(path)
	if err != nil {
		return configError(err)
	}

	// The reporter is resolved before any runtime is invoked.
	var reporter report.Reporter
	if a.settings.Report.Dir != "" {
		reporter, err = report.NewReporter(a.settings.Report.Format)
		if err != nil {
			return configError(err)
		}
	}

	s, err := a.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if addr := a.settings.Monitor.Addr; addr != "" {
		stop := serveMonitor(ctx, addr, s)
		defer stop()
	}

	rep, err := s.engine.Compare(ctx, doc)
	if err != nil {
		return configError(err)
	}

	out := cmd.OutOrStdout()
	printTranscript(out, rep)

	if reporter != nil {
		saved, err := report.SaveReport(rep, a.settings.Report.Dir, reporter)
		if err != nil {
			return configError(err)
		}
		fmt.Fprintf(out, "Report: %s\n", saved)
		if a.settings.Report.History != "" {
			if err := report.AppendToHistory(a.settings.Report.History, rep, saved); err != nil {
				return configError(err)
			}
		}
	} else if a.settings.Report.History != "" {
		if err := report.AppendToHistory(a.settings.Report.History, rep, ""); err != nil {
			return configError(err)
		}
	}

	return verdictError(rep)
}

func printTranscript(w io.Writer, rep *consensus.Report) {
	st := newStyles(w)
	for _, line := range report.Render(rep) {
		fmt.Fprintln(w, st.line(line))
	}
	for _, warn := range rep.Warnings {
		fmt.Fprintln(w, st.warning.Render("WARNING: "+warn))
	}

	agreed, disagreed, inconclusive := rep.Summary()
	fmt.Fprintln(w, st.muted.Render(fmt.Sprintf(
		"%d agreed, %d disagreed, %d inconclusive in %s (run %s)",
		agreed, disagreed, inconclusive,
		rep.Duration.Round(time.Millisecond), rep.RunID,
	)))
}

// verdictError maps a report to its exit status. A disagreement
// outranks an inconclusive run.
func verdictError(rep *consensus.Report) error {
	switch {
	case !rep.Consensus:
		return &ExitError{Code: ExitDisagreement}
	case rep.Inconclusive:
		return &ExitError{Code: ExitInconclusive}
	}
	return nil
}

// serveMonitor streams run events until the returned stop
// function is called.
func serveMonitor(ctx context.Context, addr string, s *session) func() {
	ctx, cancel := context.WithCancel(ctx)
	srv := monitor.NewServer(addr, s.collector, monitor.NewDashboardData(""))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Start(ctx); err != nil {
			s.logger.Warn("monitor_failed", logging.ErrorField(err))
		}
	}()
	s.logger.Info("monitor_started", logging.StringField("addr", addr))

	return func() {
		cancel()
		<-done
	}
}

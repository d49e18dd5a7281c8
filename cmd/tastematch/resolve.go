package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/tastematch/internal/config"
	"github.com/kingrea/tastematch/internal/quiz"
	"github.com/kingrea/tastematch/internal/recommend"
	"github.com/kingrea/tastematch/internal/report"
	"github.com/kingrea/tastematch/internal/summary"
)

// skipMarker stands for a skipped question on the command line.
const skipMarker = "-"

type resolveOptions struct {
	answers []string
	bank    string
	report  bool
}

// resolveOutput is the YAML document printed by `tastematch resolve`.
type resolveOutput struct {
	Verdict        quiz.Category            `yaml:"verdict"`
	Tally          map[quiz.Category]int    `yaml:"tally"`
	Stats          quiz.Stats               `yaml:"stats"`
	Recommendation recommend.Recommendation `yaml:"recommendation"`
	Report         *reportOutput            `yaml:"report,omitempty"`
}

type reportOutput struct {
	Status int    `yaml:"status,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

func resolveCmd() *cobra.Command {
	opts := resolveOptions{}
	c := &cobra.Command{
		Use:   "resolve --answer <option> [--answer -]...",
		Short: "Resolve answers to a verdict without the TUI",
		Long: "Resolve tallies the given answers against the question bank, in order, " +
			"and prints the verdict with its recommendation as YAML. Use - for a skipped question.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			return runResolve(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	c.Flags().StringArrayVar(&opts.answers, "answer", nil, "answer for the next question, - to skip (repeatable)")
	c.Flags().StringVar(&opts.bank, "bank", "", "question bank YAML (defaults to the configured bank)")
	c.Flags().BoolVar(&opts.report, "report", false, "send the verdict to the configured score endpoint")
	return c
}

func runResolve(ctx context.Context, out io.Writer, cfg *config.Config, opts resolveOptions) error {
	bankPath := opts.bank
	if bankPath == "" {
		bankPath = cfg.BankPath()
	}
	bank, err := quiz.LoadBank(bankPath)
	if err != nil {
		return err
	}

	answers := parseAnswers(opts.answers)
	sessionOpts := []summary.Option{}
	outcomes := make(chan summary.ReportOutcome, 1)
	if opts.report {
		rep, err := report.NewHTTP(cfg.ReportEndpoint(), report.WithTimeout(cfg.ReportTimeout()))
		if err != nil {
			return err
		}
		sessionOpts = append(sessionOpts,
			summary.WithReporter(rep),
			summary.WithReportDone(func(o summary.ReportOutcome) { outcomes <- o }),
		)
	}

	session := summary.New(bank.Questions, sessionOpts...)
	view := session.Update(answers)
	result := resolveOutput{
		Verdict:        view.Verdict,
		Tally:          view.Tally.Map(),
		Stats:          view.Stats,
		Recommendation: view.Recommendation,
	}
	if opts.report {
		result.Report = awaitReport(ctx, outcomes, cfg.ReportTimeout())
	}
	session.Unmount()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return enc.Close()
}

func awaitReport(ctx context.Context, outcomes <-chan summary.ReportOutcome, timeout time.Duration) *reportOutput {
	if ctx == nil {
		ctx = context.Background()
	}
	// The reporter enforces its own timeout; the extra second covers the handoff.
	wait := time.NewTimer(timeout + time.Second)
	defer wait.Stop()
	select {
	case outcome := <-outcomes:
		out := &reportOutput{Status: outcome.Result.StatusCode}
		if outcome.Err != nil {
			out.Error = outcome.Err.Error()
		}
		return out
	case <-wait.C:
		return &reportOutput{Error: "report did not finish in time"}
	case <-ctx.Done():
		return &reportOutput{Error: ctx.Err().Error()}
	}
}

func parseAnswers(values []string) []quiz.Answer {
	answers := make([]quiz.Answer, 0, len(values))
	for _, value := range values {
		if value == skipMarker {
			answers = append(answers, quiz.Skip())
			continue
		}
		answers = append(answers, quiz.Pick(value))
	}
	return answers
}

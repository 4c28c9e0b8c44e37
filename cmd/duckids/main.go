// Command duckids prints the Duck ID of everyone on a class roster.
//
//	BANNER_API_KEY=... duckids --term-code 202401 --crn 12345
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/uoregon/roster-duckids/pkg/banner"
	"github.com/uoregon/roster-duckids/pkg/client"
	"github.com/uoregon/roster-duckids/pkg/config"
	"github.com/uoregon/roster-duckids/pkg/fanout"
	"github.com/uoregon/roster-duckids/pkg/logging"
	"github.com/uoregon/roster-duckids/pkg/metrics"
)

var version = "dev"

type options struct {
	termCode       string
	crn            string
	logLevel       string
	pretty         bool
	maxConcurrency int
	timeout        time.Duration
	metricsFile    string
	baseURL        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Getenv, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("duckids failed")
		os.Exit(1)
	}
}

func newRootCmd(getenv func(string) string, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "duckids",
		Short:         "Get a list of Duck IDs for a Banner term code and CRN",
		Long:          `duckids fetches the roster of a course section from the Banner API and resolves every student and instructor to their Duck ID, one per line.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(opts.logLevel),
				Pretty: opts.pretty,
				Output: stderr,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), opts, getenv, stdout)
			if opts.metricsFile != "" {
				if mErr := metrics.WriteTextfile(opts.metricsFile); mErr != nil {
					if err == nil {
						return mErr
					}
					log.Warn().Err(mErr).Msg("Failed to write metrics file")
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.termCode, "term-code", "t", "", "Term Code")
	flags.StringVarP(&opts.crn, "crn", "c", "", "CRN")
	flags.StringVar(&opts.logLevel, "log", string(logging.LevelWarn), "sets the log level (debug, info, warn, error)")
	flags.BoolVar(&opts.pretty, "pretty", false, "human-readable logs instead of JSON")
	flags.IntVar(&opts.maxConcurrency, "max-concurrency", 0, "cap on simultaneous Duck ID lookups (0 = one per person)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (0 = none)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	flags.StringVar(&opts.baseURL, "base-url", client.DefaultBaseURL, "Banner API gateway")
	_ = flags.MarkHidden("base-url")
	_ = cmd.MarkFlagRequired("term-code")
	_ = cmd.MarkFlagRequired("crn")

	return cmd
}

func run(ctx context.Context, opts *options, getenv func(string) string, stdout io.Writer) error {
	cfg, err := config.Load(opts.termCode, opts.crn, getenv)
	if err != nil {
		return err
	}

	clientCfg := client.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = opts.baseURL
	clientCfg.Timeout = opts.timeout
	clientCfg.UserAgent = "roster-duckids/" + version

	c, err := client.New(clientCfg)
	if err != nil {
		return err
	}
	api := banner.New(c)

	roster, err := api.FetchRoster(ctx, cfg.TermCode, cfg.CRN)
	if err != nil {
		return err
	}

	log.Info().
		Str("term_code", roster.TermCode).
		Str("crn", roster.CRN).
		Str("course", roster.SubjectCode+" "+roster.CourseNumber).
		Int("instructors", len(roster.Instructors)).
		Int("students", len(roster.Students)).
		Msg("Roster fetched")

	f := fanout.New(api, fanout.Config{MaxConcurrency: opts.maxConcurrency})
	duckIDs, err := f.ResolveAll(ctx, roster.BannerIDs())
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout)
	for _, duckID := range duckIDs {
		if _, err := fmt.Fprintln(w, duckID); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return w.Flush()
}

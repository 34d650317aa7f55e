package cmd

import (
	"context"
	"os"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/barfeed/pkg/cmd/cmdutil"
	"github.com/c9s/barfeed/pkg/data/tsv"
	"github.com/c9s/barfeed/pkg/metrics"
	"github.com/c9s/barfeed/pkg/replay"
	"github.com/c9s/barfeed/pkg/report"
)

func init() {
	ReplayCmd.Flags().String("dump", "", "dump the revealed bars into the given tsv file")
	ReplayCmd.Flags().String("summary", "", "write the replay summary into the given json file")
	ReplayCmd.Flags().String("metrics-bind", "", "serve the prometheus metrics on the given address, e.g. :9090")
	ReplayCmd.Flags().Bool("progress", false, "show the progress bar")
	ReplayCmd.Flags().CountP("verbose", "v", "verbose level")
	RootCmd.AddCommand(ReplayCmd)
}

var ReplayCmd = &cobra.Command{
	Use:          "replay",
	Short:        "replay the configured symbols through the strategies",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		verboseCnt, err := cmd.Flags().GetCount("verbose")
		if err != nil {
			return err
		}

		dumpFile, err := cmd.Flags().GetString("dump")
		if err != nil {
			return err
		}

		summaryFile, err := cmd.Flags().GetString("summary")
		if err != nil {
			return err
		}

		metricsBind, err := cmd.Flags().GetString("metrics-bind")
		if err != nil {
			return err
		}

		showProgress, err := cmd.Flags().GetBool("progress")
		if err != nil {
			return err
		}

		cmdutil.SetVerboseLevel(verboseCnt)

		userConfig, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := cmdutil.WithShutdownSignal(context.Background())
		defer cancel()

		dataLoader, closer, err := userConfig.NewLoader(ctx)
		if err != nil {
			return err
		}
		defer closer.Close()

		handler, err := replay.NewDataHandler(ctx, userConfig.Replay.Symbols, dataLoader)
		if err != nil {
			return err
		}

		runner := replay.NewRunner(handler, userConfig.Strategies...)
		runner.StartDate = userConfig.Replay.StartDate
		runner.EndDate = userConfig.Replay.EndDate
		runner.Progress = showProgress

		if len(dumpFile) > 0 {
			dumper, err := tsv.NewWriterFile(dumpFile)
			if err != nil {
				return err
			}

			defer func() {
				if err := dumper.Close(); err != nil {
					log.WithError(err).Errorf("unable to close the dump file %s", dumpFile)
				}
			}()

			runner.Dumper = dumper
		}

		if len(metricsBind) > 0 {
			server := metrics.NewServer(metricsBind)
			server.Start()
			runner.EnableMetrics = true

			defer func() {
				shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancelShutdown()
				if err := server.Stop(shutdownCtx); err != nil {
					log.WithError(err).Error("metrics server shutdown error")
				}
			}()
		}

		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		report.PrintSummary(os.Stdout, summary, !color.NoColor && cmdutil.IsTerminal())

		if len(summaryFile) > 0 {
			if err := summary.WriteFile(summaryFile); err != nil {
				return err
			}

			log.Infof("summary is written to %s", summaryFile)
		}

		return nil
	},
}

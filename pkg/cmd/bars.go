package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/c9s/barfeed/pkg/cmd/cmdutil"
	"github.com/c9s/barfeed/pkg/feed"
	"github.com/c9s/barfeed/pkg/style"
	"github.com/c9s/barfeed/pkg/types"
)

func init() {
	BarsCmd.Flags().String("symbol", "", "the symbol to show")
	BarsCmd.Flags().IntP("number", "n", 10, "number of the most recent bars")
	RootCmd.AddCommand(BarsCmd)
}

// barfeed bars --config barfeed.yaml --symbol IVV -n 10
var BarsCmd = &cobra.Command{
	Use:          "bars",
	Short:        "show the most recent bars of a symbol from the configured source",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbolStr, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}

		if len(symbolStr) == 0 {
			return errors.New("--symbol option is required")
		}

		symbol, err := types.NewSymbol(symbolStr)
		if err != nil {
			return err
		}

		n, err := cmd.Flags().GetInt("number")
		if err != nil {
			return err
		}

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

		bars, err := dataLoader.Load(ctx, symbol)
		if err != nil {
			return err
		}

		// reveal the whole history, then read the tail back
		barFeed := feed.NewBarFeed(symbol, bars)
		for barFeed.Update() {
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(*style.NewDefaultTableStyle())
		t.SetTitle(fmt.Sprintf("%s (%d bars)", symbol, len(bars)))
		t.AppendHeader(table.Row{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"})
		for bar := range barFeed.LatestN(n) {
			t.AppendRow(table.Row{bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.AdjClose, bar.Volume})
		}
		t.Render()
		return nil
	},
}

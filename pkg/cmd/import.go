package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/c9s/barfeed/pkg/cmd/cmdutil"
	"github.com/c9s/barfeed/pkg/config"
	"github.com/c9s/barfeed/pkg/loader"
	"github.com/c9s/barfeed/pkg/service"
	"github.com/c9s/barfeed/pkg/types"
)

func init() {
	ImportCmd.Flags().String("symbol", "", "the symbol of the imported bars")
	ImportCmd.Flags().String("csv", "", "the csv file in the Date,Open,High,Low,Close,Adj Close,Volume layout")
	RootCmd.AddCommand(ImportCmd)
}

// barfeed import --config barfeed.yaml --symbol IVV --csv IVV.csv
var ImportCmd = &cobra.Command{
	Use:          "import",
	Short:        "import a csv file into the configured sql or redis source",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		symbolStr, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}

		symbol, err := types.NewSymbol(symbolStr)
		if err != nil {
			return err
		}

		csvFile, err := cmd.Flags().GetString("csv")
		if err != nil {
			return err
		}

		if len(csvFile) == 0 {
			return errors.New("--csv option is required")
		}

		userConfig, err := loadConfig()
		if err != nil {
			return err
		}

		file, err := os.Open(csvFile)
		if err != nil {
			return err
		}

		//nolint:errcheck // read only
		defer file.Close()

		bars, err := loader.NewCSVBarReader(file).ReadAll()
		if err != nil {
			return errors.Wrapf(err, "unable to read %s", csvFile)
		}

		ctx, cancel := cmdutil.WithShutdownSignal(context.Background())
		defer cancel()

		source := userConfig.Source
		switch source.Driver {
		case config.SourceSQL:
			db := service.NewDatabaseService(source.SQL.Driver, source.SQL.DSN)
			if err := db.Connect(ctx); err != nil {
				return err
			}
			defer db.Close()

			if err := db.Upgrade(ctx); err != nil {
				return err
			}

			barService := service.NewBarService(db.DB)
			if source.SQL.Table != "" {
				barService.Table = source.SQL.Table
			}

			if err := barService.BatchInsert(ctx, symbol, bars); err != nil {
				return err
			}

		case config.SourceRedis:
			redisLoader := loader.NewRedisLoader(source.Redis)
			defer redisLoader.Close()

			if err := redisLoader.Save(ctx, symbol, bars); err != nil {
				return err
			}

		default:
			return errors.Errorf("can not import into the %s source", source.Driver)
		}

		log.Infof("imported %d %s bars into the %s source", len(bars), symbol, source.Driver)
		return nil
	},
}

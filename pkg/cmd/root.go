package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/barfeed/pkg/cmd/cmdutil"
	"github.com/c9s/barfeed/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

var RootCmd = &cobra.Command{
	Use:   "barfeed",
	Short: "barfeed replays daily bars",
	Long:  "barfeed replays the daily bars of several symbols in lockstep and feeds them to the strategies",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvFile := viper.GetString("dotenv")
		for _, file := range []string{dotenvFile, ".env"} {
			if file == "" {
				continue
			}

			if _, err := os.Stat(file); err == nil {
				if err := godotenv.Load(file); err != nil {
					return errors.Wrapf(err, "error loading dotenv file %s", file)
				}
			}
		}

		cmdutil.SetupLogger(os.Getenv("BARFEED_ENV"), viper.GetString("log-file"), viper.GetBool("debug"))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	cmdutil.PersistentFlags(RootCmd.PersistentFlags())
}

// loadConfig loads the config file given by --config or BARFEED_CONFIG.
func loadConfig() (*config.Config, error) {
	configFile := viper.GetString("config")
	if len(configFile) == 0 {
		return nil, errors.New("--config option is required")
	}

	userConfig, err := config.Load(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load config file %s", configFile)
	}

	return userConfig, nil
}

func Execute() {
	viper.SetEnvPrefix("barfeed")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}

package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags shared by every command, they can also be
// set through the BARFEED_ prefixed environment variables.
func PersistentFlags(flags *pflag.FlagSet) {
	flags.String("config", "barfeed.yaml", "replay config file")
	flags.Bool("debug", false, "debug flag")
	flags.String("log-file", "log/barfeed.log", "log file used in the production environment")
	flags.String("dotenv", ".env.local", "the dotenv file loaded before the command runs")
}

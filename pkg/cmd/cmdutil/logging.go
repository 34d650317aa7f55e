package cmdutil

import (
	"os"

	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger configures the standard logger. In the production environment
// every entry is also written as JSON into the rotated log file.
func SetupLogger(environment, logFile string, debug bool) {
	log.SetFormatter(&prefixed.TextFormatter{})

	logger := log.StandardLogger()
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	switch environment {
	case "production", "prod":
		writer := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		}

		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}
}

// SetVerboseLevel maps the -v count to the log level, the default level only shows warnings and errors.
func SetVerboseLevel(verboseCnt int) {
	switch {
	case verboseCnt >= 2:
		log.SetLevel(log.DebugLevel)
	case verboseCnt == 1:
		log.SetLevel(log.InfoLevel)
	default:
		if log.GetLevel() < log.DebugLevel {
			log.SetLevel(log.WarnLevel)
		}
	}
}

// IsTerminal reports whether stdout is a character device.
func IsTerminal() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

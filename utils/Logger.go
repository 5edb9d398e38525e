package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is usable before InitLogger runs (tests, early startup) and is
// reconfigured in place by it.
var Log = logrus.New()

// LoggerOptions mirrors the LOG_* settings of the config package.
type LoggerOptions struct {
	Level   string
	Release bool
	File    string
}

// InitLogger initializes the structured logger
func InitLogger(opts LoggerOptions) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// JSON for production, Text for development
	if opts.Release {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}

	var out io.Writer = os.Stdout
	if opts.Release && opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	Log.SetOutput(out)

	Log.WithField("level", level.String()).Info("Logger initialized successfully")
}

func LogInfo(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Info(message)
}

func LogError(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Error(message)
}

func LogWarn(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Warn(message)
}

func LogDebug(message string, fields map[string]interface{}) {
	Log.WithFields(logrus.Fields(fields)).Debug(message)
}

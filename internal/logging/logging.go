package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/vancomm/minesweeper/internal/config"
)

// Setup configures log for the given mode. Development logs colored text at
// debug level, production logs JSON at info level; LogLevel overrides
// either. With LogFile set, entries are also written as JSON to a rotating
// file.
func Setup(log *logrus.Logger, c config.Config) error {
	logLevel := logrus.InfoLevel
	if c.Development() {
		logLevel = logrus.DebugLevel
	}
	if c.LogLevel != "" {
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			return err
		}
		logLevel = level
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stderr)

	if c.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if c.LogFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   c.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", c.LogFile, err)
	}
	log.AddHook(hook)
	return nil
}

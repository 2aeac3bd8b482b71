// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var levels = map[string]logrus.Level{
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
}

// Setup points the standard logrus logger at out with the given level and
// format ("text" or "json").
func Setup(out io.Writer, level, format string) error {
	lvl, ok := levels[level]
	if !ok {
		return fmt.Errorf("unknown log level %q", level)
	}

	switch format {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.0000",
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	logrus.SetOutput(out)
	logrus.SetLevel(lvl)
	return nil
}

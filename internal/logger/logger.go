package logger

import (
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Setup initializes Logrus with a rotating log file. Level and path come from
// the environment so deployments can tune them without a rebuild.
func Setup() {
	path := os.Getenv("LOG_FILE")
	if path == "" {
		path = "./logs/fleetwatch.log"
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     7, // days
		Compress:   true,
	}

	logrus.SetOutput(rotator)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// GormLogger returns the standard Logrus logger for GORM integration.
func GormLogger() *logrus.Logger {
	return logrus.StandardLogger()
}

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/ametelin/minesweeper-agent/internal/agent"
	"github.com/ametelin/minesweeper-agent/internal/app"
	"github.com/ametelin/minesweeper-agent/internal/config"
	"github.com/ametelin/minesweeper-agent/internal/knowledge"
	"github.com/ametelin/minesweeper-agent/migrations"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	if config.Development() {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if logFile := config.LogFile(); logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logrus.InfoLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.WithError(err).Fatal("unable to create log file hook")
		}
		log.AddHook(hook)
	}

	// engine packages log through their own instances
	knowledge.Log = log
	agent.Log = log

	return log
}

func main() {
	log := newLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := app.New(log, migrations.FS).Start(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

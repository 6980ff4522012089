package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/ametelin/minesweeper-agent/internal/config"
	"github.com/ametelin/minesweeper-agent/internal/database"
	"github.com/ametelin/minesweeper-agent/migrations"
)

func main() {
	log := logrus.New()
	if config.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db, migrator, err := database.ConnectAndMigrate(ctx, migrations.FS)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to db")
	}
	defer db.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}

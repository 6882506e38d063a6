package main

import (
	"context"

	"roomrelease/internal/device"
	"roomrelease/internal/feed/handler"
	"roomrelease/internal/feed/validator"
	"roomrelease/internal/history"
	"roomrelease/internal/outcomes"
	"roomrelease/internal/release"
	"roomrelease/pkg/app"
	"roomrelease/pkg/config"
	"roomrelease/pkg/kafka"
)

const ServiceName = "roomrelease-agent"

func main() {
	cfg := config.Load(ServiceName)
	cfg.LogConfiguration()

	cfg.Log.Info("Starting room release agent")

	serverApp := app.NewApplication(cfg)
	deviceClient := device.NewClient(cfg)

	var sinks []release.OutcomeSink
	var historyRepo history.Repository

	if cfg.HistoryEnabled() {
		mongoClient, err := history.Connect(cfg)
		if err != nil {
			cfg.Log.Fatal("Failed to connect release history store", "error", err)
		}
		serverApp.AddCloser("mongo", func() error {
			return mongoClient.Disconnect(context.Background())
		})
		historyRepo = history.NewMongoRepository(cfg, mongoClient)
		sinks = append(sinks, history.NewRecorder(historyRepo, cfg.Log))
		cfg.Log.Info("Release history store enabled", "database", cfg.MongoDatabaseName)
	}

	if cfg.PublishingEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create outcome producer", "error", err)
		}
		serverApp.AddCloser("kafka producer", producer.Close)
		sinks = append(sinks, outcomes.NewPublisher(producer, ServiceName, cfg.Log))
		cfg.Log.Info("Outcome publishing enabled", "topic", cfg.KafkaTopic)
	}

	executor := release.NewExecutor(deviceClient, deviceClient, cfg.Log, sinks...)
	countdown := release.NewController(executor, deviceClient, cfg.CountdownSeconds, cfg.TickInterval, cfg.Log)
	checker := release.NewChecker(deviceClient, deviceClient, countdown, cfg.SettleDelay, cfg.Log)

	// A countdown must not outlive the process: tear it down (and clear any
	// prompt on the device) before the process exits.
	serverApp.AddCloser("countdown", func() error {
		countdown.Cancel()
		return nil
	})

	// Release checks dispatched from the feed run detached from their
	// request; scope them to the process so a check still sleeping in its
	// settle delay cannot start a countdown during shutdown.
	checkCtx, cancelChecks := context.WithCancel(context.Background())
	serverApp.AddCloser("release checks", func() error {
		cancelChecks()
		return nil
	})

	eventValidator := validator.NewEventValidator(cfg.Log)
	eventHandler := handler.NewEventHandler(checkCtx, checker, countdown, historyRepo, eventValidator, cfg.Log)
	healthHandler := handler.NewHealthHandler(deviceClient, cfg.Log)

	serverApp.SetApp(eventHandler, healthHandler)
	serverApp.Run()
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"tapin/internal/broker"
	"tapin/internal/config"
	"tapin/internal/kitchen"
	"tapin/internal/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Output:      "stdout",
		Component:   "kitchen-printer",
		Environment: cfg.AppEnv,
	})
	defer log.Close()

	if cfg.AMQPURL == "" {
		log.Error("AMQP_URL is not set")
		os.Exit(1)
	}

	mq, err := broker.Dial(cfg.AMQPURL)
	if err != nil {
		log.Error("rabbitmq dial failed", "error", err)
		os.Exit(1)
	}
	defer mq.Close()

	if err := mq.DeclareTopology(); err != nil {
		log.Error("rabbitmq topology failed", "error", err)
		os.Exit(1)
	}

	deliveries, err := mq.Consume(broker.KitchenQueue, "kitchen-printer", 10)
	if err != nil {
		log.Error("consume failed", "queue", broker.KitchenQueue, "error", err)
		os.Exit(1)
	}

	printer := kitchen.NewPrinter(os.Stdout, log)
	log.Info("kitchen printer waiting for orders", "queue", broker.KitchenQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			log.Info("shutting down")
			return

		case d, ok := <-deliveries:
			if !ok {
				log.Error("delivery channel closed")
				return
			}

			if err := printer.Handle(d.Body); err != nil {
				// Unreadable messages go to the dead-letter queue.
				log.Warn("chit rejected", "error", err, "routing_key", d.RoutingKey)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/compass/internal/queue"
	"github.com/OFFIS-RIT/compass/internal/storage"
	"github.com/OFFIS-RIT/compass/internal/util"
	"github.com/OFFIS-RIT/compass/pkg/loader"
	ioloader "github.com/OFFIS-RIT/compass/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/compass/pkg/loader/s3"
	"github.com/OFFIS-RIT/compass/pkg/logger"
	"github.com/OFFIS-RIT/compass/pkg/logger/console"
	"github.com/OFFIS-RIT/compass/pkg/similarity"
	pgstore "github.com/OFFIS-RIT/compass/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
		JSON:  util.GetEnvBool("LOG_JSON", false),
	})
	logger.Init(consoleLogger)

	// Submissions come from a local directory when SUBMISSION_DIR is set,
	// otherwise from S3
	var newLoader func() loader.SubmissionLoader
	if dir := util.GetEnvString("SUBMISSION_DIR", ""); dir != "" {
		newLoader = func() loader.SubmissionLoader { return ioloader.NewIOSubmissionLoader(dir) }
		logger.Info("Loading submissions from directory", "dir", dir)
	} else {
		client, err := storage.NewS3Client(ctx)
		if err != nil {
			logger.Fatal("Could not create S3 client", "err", err)
		}
		newLoader = func() loader.SubmissionLoader {
			return s3loader.NewS3SubmissionLoader(storage.Bucket(), client)
		}
	}

	engine, err := similarity.EngineFromEnv()
	if err != nil {
		logger.Fatal("Invalid similarity configuration", "err", err)
	}

	// Init pgx client
	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	queues := []string{queue.ComparisonQueue}
	if err := queue.SetupQueues(ch, queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	worker := &queue.ComparisonWorker{
		Store:       pgstore.NewClassificationDBStorage(pgConn),
		Engine:      engine,
		Channel:     ch,
		Parallelism: util.GetEnvInt("COMPARISON_PARALLELISM", 4),
		MaxRetries:  util.GetEnvInt("LOAD_MAX_RETRIES", 3),
	}

	// A single consumer channel with prefetch=1 hands out one job at a time
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.ComparisonQueue,
		fmt.Sprintf("%s_consumer", queue.ComparisonQueue),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ComparisonQueue, "err", err)
	}

	logger.Info("Listening for messages")

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed", "queue", queue.ComparisonQueue)
					stop()
					return
				}
				// One loader cache per job
				job := *worker
				job.Loader = newLoader()
				process(ctx, &job, consumerCh, msg)
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func process(ctx context.Context, worker *queue.ComparisonWorker, ch *amqp.Channel, msg amqp.Delivery) {
	startTime := time.Now()
	logger.Info("Received message", "queue", queue.ComparisonQueue)

	if err := worker.ProcessComparisonMessage(ctx, string(msg.Body)); err != nil {
		logger.Error("Error processing message", "queue", queue.ComparisonQueue, "err", err)
		queue.HandleProcessingError(ch, msg, queue.ComparisonQueue, err)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to ack message", "err", err)
	}

	duration := time.Since(startTime)
	logger.Info(
		"Message processed successfully",
		"queue", queue.ComparisonQueue,
		"duration", fmt.Sprintf("%02d:%02d:%02d", int(duration.Hours()), int(duration.Minutes())%60, int(duration.Seconds())%60),
	)
}

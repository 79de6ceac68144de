package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"minhasfinancas/internal/adapters"
	"minhasfinancas/internal/amqp"
	"minhasfinancas/internal/kafka"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/ports"
	"minhasfinancas/internal/sheets"
	gsheet "minhasfinancas/internal/sheets/google"
	"minhasfinancas/internal/sheets/memory"
	"minhasfinancas/internal/storage"
	memstore "minhasfinancas/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger.With(applog.FieldComponent, applog.ComponentBackend)}
}

// CreateBackend opens the configured storage and, when an events backend is
// set, wraps the entry store so every write is published.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result, err := f.createStorage(config)
	if err != nil {
		return nil, err
	}

	publisher, closePublisher, err := f.createPublisher(config)
	if err != nil {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
		return nil, err
	}
	if publisher != nil {
		result.Publisher = publisher
		result.Entries = adapters.NewPublishingEntryStore(result.Entries, publisher)
		closeStorage := result.Cleanup
		result.Cleanup = func() error {
			return errors.Join(closePublisher(), runCleanup(closeStorage))
		}
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		"storage", config.Type,
		"events", config.Events)
	return result, nil
}

func (f *DefaultFactory) createStorage(config Config) (*BackendResult, error) {
	switch config.Type {
	case MemoryBackend:
		f.logger.Warn("Using in-memory storage, data is lost on restart")
		return &BackendResult{
			Entries: memstore.NewEntryStore(),
			Users:   memstore.NewUserDirectory(),
			Ready:   func(context.Context) error { return nil },
		}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite storage", "db_path", config.SQLiteDBPath)
		return repositoryResult(repo), nil

	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL repository: %w", err)
		}
		f.logger.Info("Initialized PostgreSQL storage")
		return repositoryResult(repo), nil

	default:
		return nil, fmt.Errorf("unsupported backend type %q, want one of %v", config.Type, GetBackendTypes())
	}
}

func repositoryResult(repo *storage.Repository) *BackendResult {
	return &BackendResult{
		Entries: repo,
		Users:   repo.Users(),
		Ready:   repo.Ping,
		Cleanup: repo.Close,
	}
}

func (f *DefaultFactory) createPublisher(config Config) (ports.EventPublisher, CleanupFunc, error) {
	switch config.Events {
	case AMQPEvents:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
		}
		f.logger.Info("Initialized AMQP publisher",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		return client, client.Close, nil

	case KafkaEvents:
		pub := kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic)
		f.logger.Info("Initialized Kafka publisher", "topic", config.KafkaTopic, "brokers", config.KafkaBrokers)
		return pub, pub.Close, nil

	default:
		return nil, nil, nil
	}
}

// CreateEventSource builds the consumer side of the configured broker.
func (f *DefaultFactory) CreateEventSource(config Config) (EventSource, CleanupFunc, error) {
	switch config.Events {
	case AMQPEvents:
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize AMQP client: %w", err)
		}
		return client, client.Close, nil

	case KafkaEvents:
		consumer := kafka.NewConsumer(config.KafkaBrokers, config.KafkaTopic, config.KafkaGroupID)
		return consumer, consumer.Close, nil

	default:
		return nil, nil, fmt.Errorf("no event source for events backend %q", config.Events)
	}
}

// CreateJournal returns the Google Sheets journal when a spreadsheet is
// configured and an in-memory one otherwise.
func (f *DefaultFactory) CreateJournal(ctx context.Context, config Config) (sheets.JournalWriter, error) {
	if config.GoogleSpreadsheetID == "" {
		f.logger.Warn("GOOGLE_SPREADSHEET_ID not set, journaling to memory")
		return memory.New(), nil
	}

	cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets journal", "sheet", config.GoogleSheetName)
	return cli, nil
}

func runCleanup(fn CleanupFunc) error {
	if fn == nil {
		return nil
	}
	return fn()
}

package backend

import (
	"context"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
	"minhasfinancas/internal/sheets"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the ports built for a configuration. Entries already
// publishes an event per write when an events backend is configured.
type BackendResult struct {
	Entries   ports.EntryStore
	Users     ports.UserDirectory
	Publisher ports.EventPublisher
	// Ready reports whether the storage can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// EventSource delivers entry events to a handler until ctx is done.
type EventSource interface {
	ConsumeEntryEvents(ctx context.Context, handler func(context.Context, core.EntryEvent) error) error
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateEventSource(config Config) (EventSource, CleanupFunc, error)
	CreateJournal(ctx context.Context, config Config) (sheets.JournalWriter, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type   BackendType
	Events EventsType

	SQLiteDBPath string
	PostgresDSN  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// An empty spreadsheet ID selects the in-memory journal.
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// EventsType selects the broker entry events go through.
type EventsType string

const (
	NoEvents    EventsType = "none"
	AMQPEvents  EventsType = "amqp"
	KafkaEvents EventsType = "kafka"
)

func (et EventsType) String() string {
	return string(et)
}

func (et EventsType) IsValid() bool {
	switch et {
	case NoEvents, AMQPEvents, KafkaEvents:
		return true
	default:
		return false
	}
}

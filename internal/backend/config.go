package backend

import (
	"errors"
	"fmt"

	"minhasfinancas/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		Type:   BackendType(appConfig.DataBackend),
		Events: EventsType(appConfig.EventsBackend),

		SQLiteDBPath: appConfig.SQLiteDBPath,
		PostgresDSN:  appConfig.PostgresDSN,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		KafkaBrokers: appConfig.KafkaBrokers,
		KafkaTopic:   appConfig.KafkaTopic,
		KafkaGroupID: appConfig.KafkaGroupID,

		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,
	}
	if cfg.Events == "" {
		cfg.Events = NoEvents
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	var errs []error

	switch c.Type {
	case MemoryBackend:
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			errs = append(errs, errors.New("SQLite database path is required for sqlite backend"))
		}
	case PostgresBackend:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("PostgreSQL DSN is required for postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid backend type: %s", c.Type))
	}

	switch c.Events {
	case NoEvents:
	case AMQPEvents:
		if c.AMQPURL == "" || c.AMQPExchange == "" || c.AMQPQueue == "" {
			errs = append(errs, errors.New("AMQP URL, exchange and queue are required for amqp events"))
		}
	case KafkaEvents:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			errs = append(errs, errors.New("Kafka brokers and topic are required for kafka events"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid events backend: %s", c.Events))
	}

	return errors.Join(errs...)
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend, PostgresBackend}
}

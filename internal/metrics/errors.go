package metrics

import "codeberg.org/nfehr/enviroctl/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("metrics_invalid_db_path")

	// Schema errors
	ErrSchemaInitFailed       = errors.ErrorCode("metrics_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("metrics_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("metrics_schema_migration_failed")
	ErrTransactionFailed      = errors.ErrorCode("metrics_transaction_failed")

	// Storage errors
	ErrStorageInit  = errors.ErrInitFailed
	ErrStorageClose = errors.ErrShutdownFailed

	// Service errors
	ErrServiceShutdown = errors.ErrShutdownFailed

	// Collection errors
	ErrRecordFailed    = errors.ErrorCode("metrics_record_failed")
	ErrInvalidSnapshot = errors.ErrorCode("metrics_invalid_snapshot")

	// Operation errors
	ErrOperationTimeout = errors.ErrTimeout
)

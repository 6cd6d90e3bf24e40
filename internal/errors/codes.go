package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrMissingConfig   ErrorCode = "missing_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Data buffer errors
	ErrUnknownMetric ErrorCode = "unknown_metric"

	// Unit conversion errors
	ErrUnknownUnit ErrorCode = "unknown_unit"

	// Sensor errors
	ErrSensorRead   ErrorCode = "sensor_read_failed"
	ErrSensorInit   ErrorCode = "sensor_init_failed"
	ErrBadFrame     ErrorCode = "bad_sensor_frame"
	ErrBusUnopened  ErrorCode = "bus_open_failed"
	ErrPortUnopened ErrorCode = "serial_open_failed"

	// Display errors
	ErrDisplayInit   ErrorCode = "display_init_failed"
	ErrDisplayUpdate ErrorCode = "display_update_failed"
	ErrBadRotation   ErrorCode = "invalid_rotation"
	ErrBadMode       ErrorCode = "invalid_display_mode"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrTimeout          ErrorCode = "operation_timeout"
	ErrInvalidOperation ErrorCode = "invalid_operation"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrNotImplemented:  "Operation not implemented",
	ErrUnavailable:     "Service unavailable",
	ErrInvalidConfig:   "Invalid configuration",
	ErrMissingConfig:   "Missing configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrUnknownMetric:   "Unknown metric name",
	ErrUnknownUnit:     "Unknown unit of measure",
	ErrSensorRead:      "Failed to read sensor",
	ErrSensorInit:      "Failed to initialize sensor",
	ErrBadFrame:        "Malformed sensor frame",
	ErrBusUnopened:     "Failed to open bus",
	ErrPortUnopened:    "Failed to open serial port",
	ErrDisplayInit:     "Failed to initialize display",
	ErrDisplayUpdate:   "Failed to update display",
	ErrBadRotation:     "Invalid display rotation",
	ErrBadMode:         "Invalid display mode",
	ErrInitApp:         "Failed to initialize application",
	ErrMainLoop:        "Error in main loop",
	ErrOperationFailed: "Operation failed",
	ErrTimeout:         "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}

package sqlerr

// Code is a driver-independent category for database errors.
type Code string

const (
	// UniqueViolation maps SQLSTATE 23505.
	UniqueViolation Code = "unique_violation"
	// ForeignKeyViolation maps SQLSTATE 23503.
	ForeignKeyViolation Code = "foreign_key_violation"
	// NotNullViolation maps SQLSTATE 23502.
	NotNullViolation Code = "not_null_violation"
	// CheckViolation maps SQLSTATE 23514.
	CheckViolation Code = "check_violation"
	// SerializationFailure maps SQLSTATE 40001.
	SerializationFailure Code = "serialization_failure"
	// Other covers every SQLSTATE not explicitly mapped.
	Other Code = "other"
)

// Severity mirrors the Postgres error severity field.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityUnknown Severity = "UNKNOWN"
)

// Error is the normalized database error. It keeps both the mapped
// category and the original driver metadata for logging.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string // original SQLSTATE
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error for errors.As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE string onto a Code category.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "40001":
		return SerializationFailure
	default:
		return Other
	}
}

// MapSeverity maps a Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	default:
		return SeverityUnknown
	}
}

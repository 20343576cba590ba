package activitylog

import (
	"time"

	"github.com/google/uuid"
)

// Log levels for activity entries.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var logLevels = map[string]bool{
	LevelInfo:  true,
	LevelWarn:  true,
	LevelError: true,
}

func ValidLogLevel(level string) bool {
	return logLevels[level]
}

// Entry is one activity log row. LogData holds structured request context as
// JSONB; LogDetails is free text.
type Entry struct {
	ID          uuid.UUID              `json:"id" db:"id"`
	LogLevel    string                 `json:"log_level" db:"log_level"`
	LogActivity string                 `json:"log_activity" db:"log_activity"`
	LogData     map[string]interface{} `json:"log_data,omitempty" db:"log_data"`
	LogDetails  *string                `json:"log_details,omitempty" db:"log_details"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
}

// Filters narrows the activity log list endpoint.
type Filters struct {
	LogLevel    string
	LogActivity string
}

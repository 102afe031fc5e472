// Package logging provides the pluggable logging surface used throughout
// chunkq. The engine logs through the Logger interface; callers either
// keep the default NopLogger or install the logrus-backed implementation.
package logging

// Logger is the interface the queue engine logs through.
// Implement it to integrate with another logging system.
type Logger interface {
	// Debug logs a debug message
	Debug(msg string, fields ...Field)

	// Info logs an informational message
	Info(msg string, fields ...Field)

	// Warn logs a warning message
	Warn(msg string, fields ...Field)

	// Error logs an error message
	Error(msg string, fields ...Field)
}

// Field is a structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// F is a convenience function to create a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// NopLogger is a logger that does nothing.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...Field) {}

// Info implements Logger.
func (NopLogger) Info(string, ...Field) {}

// Warn implements Logger.
func (NopLogger) Warn(string, ...Field) {}

// Error implements Logger.
func (NopLogger) Error(string, ...Field) {}

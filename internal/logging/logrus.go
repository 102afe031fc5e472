package logging

import "github.com/sirupsen/logrus"

// LogrusLogger adapts a logrus logger to the Logger interface.
type LogrusLogger struct {
	l logrus.FieldLogger
}

// NewLogrusLogger wraps the given logrus logger. Passing nil uses the
// logrus standard logger.
func NewLogrusLogger(l logrus.FieldLogger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{l: l}
}

// Debug implements Logger.
func (a *LogrusLogger) Debug(msg string, fields ...Field) {
	a.entry(fields).Debug(msg)
}

// Info implements Logger.
func (a *LogrusLogger) Info(msg string, fields ...Field) {
	a.entry(fields).Info(msg)
}

// Warn implements Logger.
func (a *LogrusLogger) Warn(msg string, fields ...Field) {
	a.entry(fields).Warn(msg)
}

// Error implements Logger.
func (a *LogrusLogger) Error(msg string, fields ...Field) {
	a.entry(fields).Error(msg)
}

func (a *LogrusLogger) entry(fields []Field) logrus.FieldLogger {
	if len(fields) == 0 {
		return a.l
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return a.l.WithFields(lf)
}

package logger

import "github.com/harrison/eezsync/internal/models"

// RunLogger is the method set shared by ConsoleLogger, FileLogger and NoOpLogger.
type RunLogger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogStageStart(stage string, index, total int)
	LogStageResult(result models.StageResult)
	LogSummary(summary models.RunSummary)
}

// MultiLogger forwards every call to each wrapped logger in order.
type MultiLogger struct {
	loggers []RunLogger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are dropped.
func NewMultiLogger(loggers ...RunLogger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogStageStart(stage string, index, total int) {
	for _, l := range m.loggers {
		l.LogStageStart(stage, index, total)
	}
}

func (m *MultiLogger) LogStageResult(result models.StageResult) {
	for _, l := range m.loggers {
		l.LogStageResult(result)
	}
}

func (m *MultiLogger) LogSummary(summary models.RunSummary) {
	for _, l := range m.loggers {
		l.LogSummary(summary)
	}
}

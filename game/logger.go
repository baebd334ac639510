package game

// Logger is the logging capability the navigation packages accept.
type Logger interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Info(string)    {}
func (NopLogger) Warning(string) {}
func (NopLogger) Error(string)   {}

// LoggerOrNop returns l, or a NopLogger when l is nil.
func LoggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

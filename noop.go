package logbridge

// NoopLogger discards every record. It is handed out by Default before a
// default logger has been installed.
type NoopLogger struct {
	context Context
}

// NewNoop creates a new NoopLogger tagged with DefaultContext.
func NewNoop() Logger {
	return &NoopLogger{context: MustContext(DefaultContext)}
}

// Ensure NoopLogger implements Logger interface.
var _ Logger = (*NoopLogger)(nil)

// Trace discards the record.
func (*NoopLogger) Trace(_ string, _ ...Value) {}

// Debug discards the record.
func (*NoopLogger) Debug(_ string, _ ...Value) {}

// Info discards the record.
func (*NoopLogger) Info(_ string, _ ...Value) {}

// Warn discards the record.
func (*NoopLogger) Warn(_ string, _ ...Value) {}

// Error discards the record.
func (*NoopLogger) Error(_ string, _ ...Value) {}

// Fatal discards the record.
func (*NoopLogger) Fatal(_ string, _ ...Value) {}

// Tracef discards the record.
func (*NoopLogger) Tracef(_ string, _ ...any) {}

// Debugf discards the record.
func (*NoopLogger) Debugf(_ string, _ ...any) {}

// Infof discards the record.
func (*NoopLogger) Infof(_ string, _ ...any) {}

// Warnf discards the record.
func (*NoopLogger) Warnf(_ string, _ ...any) {}

// Errorf discards the record.
func (*NoopLogger) Errorf(_ string, _ ...any) {}

// Fatalf discards the record.
func (*NoopLogger) Fatalf(_ string, _ ...any) {}

// Log discards the record.
func (*NoopLogger) Log(_ Level, _ string, _ ...Value) {}

// Logf discards the record.
func (*NoopLogger) Logf(_ Level, _ string, _ ...any) {}

// Enabled always reports false.
func (*NoopLogger) Enabled(_ Level) bool { return false }

// WithContext returns a NoopLogger with the given tag. Invalid tags keep the
// current one.
func (l *NoopLogger) WithContext(context string) Logger {
	ctx, err := NewContext(context)
	if err != nil {
		return l
	}

	return &NoopLogger{context: ctx}
}

// Context returns the tag of the logger.
func (l *NoopLogger) Context() Context { return l.context }

// Flush is a no-op operation.
func (*NoopLogger) Flush() error { return nil }

package logging

// NewTestLogger builds a console logger at debug level for use in
// tests.
func NewTestLogger() *Logger {
	return NewDevLogger()
}

package core

// Logger is any service that can log messages with optional context args
// (errors, maps, a user.User for error-reporting attribution).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

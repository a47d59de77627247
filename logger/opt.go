package logger

import "log"

// A LoggerOptFn is a functional option configuring a KitLogger when constructing a new one.
type LoggerOptFn func(*KitLogger)

// WithEnv sets the environment KitLogger is operating in.
func WithEnv(env string) func(*KitLogger) {
	return func(l *KitLogger) {
		l.env = env
	}
}

// WithLevel sets the log level KitLogger uses.
func WithLevel(level LogLevel) func(*KitLogger) {
	return func(l *KitLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger KitLogger uses.
func WithLogger(log *log.Logger) func(*KitLogger) {
	return func(l *KitLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*KitLogger) {
	return func(l *KitLogger) {
		l.skip = skip
	}
}

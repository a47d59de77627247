package session

import "github.com/twiller-app/authkit/logger"

// The Notifier interface surfaces a failure directly to the end user,
// the way a blocking alert would in a browser.
type Notifier interface {
	Alert(msg string, err error)
}

var _ Notifier = LogNotifier{}

// A LogNotifier alerts by logging at Error, which also ships the failure
// to Sentry when the logger is so configured.
type LogNotifier struct {
	L logger.Logger
}

func (n LogNotifier) Alert(msg string, err error) {
	n.L.Error(msg, &logger.LogContext{Error: err})
}

package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/tierstore"
)

var _ tierstore.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f tierstore.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f tierstore.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f tierstore.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f tierstore.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}

// New tags every entry with component=tierstore.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "tierstore")}
}

package logging

import (
	"github.com/sirupsen/logrus"
)

// OperationLogger reports failed remote operations with the resource path
// they were issued from.
type OperationLogger struct {
	log *logrus.Logger
}

func NewOperationLogger(log *logrus.Logger) *OperationLogger {
	return &OperationLogger{log: log}
}

func (l *OperationLogger) LogOperation(level logrus.Level, operation string, err error, path string) {
	if l == nil || l.log == nil {
		return
	}
	entry := l.log.WithFields(logrus.Fields{
		"operation": operation,
		"url.path":  path,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Log(level, operation)
}

package services

import (
	"github.com/sirupsen/logrus"
)

// Operation names reported to the OperationLogger and used as metric labels.
const (
	OpGetSection    = "getSection"
	OpGetTags       = "getTags"
	OpUpdateSection = "updateSection"
	OpRemoveSection = "removeSection"
)

// OperationLogger records a failed remote operation together with the
// resource path the operator was on.
type OperationLogger interface {
	LogOperation(level logrus.Level, operation string, err error, path string)
}

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
)

type Notifier interface {
	Notify(message string, toastType ToastType)
}

// Router moves the operator to another page. Navigating away ends the
// session that triggered it.
type Router interface {
	NavigateTo(path string)
}

type nopLogger struct{}

func (nopLogger) LogOperation(logrus.Level, string, error, string) {}

type nopNotifier struct{}

func (nopNotifier) Notify(string, ToastType) {}

type nopRouter struct{}

func (nopRouter) NavigateTo(string) {}

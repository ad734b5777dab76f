package fields

import (
	"github.com/sirupsen/logrus"
)

// Observer receives faults raised while materialising individual fields. The
// dispatcher reports and substitutes a placeholder; it never lets the fault
// escape the field boundary.
type Observer interface {
	RenderFault(fieldID string, err error)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(fieldID string, err error)

// RenderFault delegates to the underlying function.
func (fn ObserverFunc) RenderFault(fieldID string, err error) {
	fn(fieldID, err)
}

type logObserver struct {
	logger *logrus.Logger
}

// NewLogObserver returns an Observer that records faults through logrus.
// Passing nil uses the standard logger.
func NewLogObserver(logger *logrus.Logger) Observer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) RenderFault(fieldID string, err error) {
	o.logger.WithFields(logrus.Fields{
		"field": fieldID,
	}).WithError(err).Error("field render failed")
}

type nopObserver struct{}

func (nopObserver) RenderFault(string, error) {}

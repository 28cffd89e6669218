package automaton

import (
	"io"

	"github.com/sirupsen/logrus"
)

var discardLogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// diagnostics carries the logger non-fatal conditions are reported to.
type diagnostics struct {
	log logrus.FieldLogger
}

// SetLogger sets the logger receiving diagnostics. A nil logger discards them.
func (d *diagnostics) SetLogger(l logrus.FieldLogger) {
	d.log = l
}

// Logger returns the logger receiving diagnostics.
func (d *diagnostics) Logger() logrus.FieldLogger {
	if d.log == nil {
		return discardLogger
	}
	return d.log
}

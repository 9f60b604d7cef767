package async

import "github.com/sirupsen/logrus"

// PanicHandler is given the recovered value of a panicking goroutine.
type PanicHandler interface {
	HandlePanic(any)
}

// NoopPanicHandler lets panics propagate.
type NoopPanicHandler struct{}

func (NoopPanicHandler) HandlePanic(any) {}

// LogPanicHandler recovers panics and logs them.
type LogPanicHandler struct{}

func (LogPanicHandler) HandlePanic(r any) {
	logrus.WithField("panic", r).Error("Recovered from panic")
}

// HandlePanic must be deferred directly. Unless panicHandler is nil or a NoopPanicHandler, it recovers the panic and
// forwards the value to panicHandler.
func HandlePanic(panicHandler PanicHandler) {
	switch panicHandler.(type) {
	case nil, NoopPanicHandler, *NoopPanicHandler:
		return
	}

	if r := recover(); r != nil {
		panicHandler.HandlePanic(r)
	}
}

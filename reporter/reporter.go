// Package reporter forwards unexpected conditions to an external reporting tool.
package reporter

import (
	"context"

	"github.com/sirupsen/logrus"
)

type Context = map[string]any

// Reporter represents an external reporting tool that can be hooked into the server to report key information
// and unexpected behaviors.
type Reporter interface {
	ReportException(any) error
	ReportMessage(string) error
	ReportMessageWithContext(string, Context) error
	ReportExceptionWithContext(any, Context) error
}

type reporterKeyType struct{}

var reporterKeyVal reporterKeyType

func NewContextWithReporter(ctx context.Context, reporter Reporter) context.Context {
	return context.WithValue(ctx, reporterKeyVal, reporter)
}

func GetReporterFromContext(ctx context.Context) (Reporter, bool) {
	rep, ok := ctx.Value(reporterKeyVal).(Reporter)

	return rep, ok
}

func MessageWithContext(ctx context.Context, message string, context Context) {
	report(ctx, func(rep Reporter) error { return rep.ReportMessageWithContext(message, context) })
}

func ExceptionWithContext(ctx context.Context, message string, context Context) {
	report(ctx, func(rep Reporter) error { return rep.ReportExceptionWithContext(message, context) })
}

func Exception(ctx context.Context, info any) {
	report(ctx, func(rep Reporter) error { return rep.ReportException(info) })
}

func Message(ctx context.Context, message string) {
	report(ctx, func(rep Reporter) error { return rep.ReportMessage(message) })
}

func report(ctx context.Context, fn func(Reporter) error) {
	rep, ok := GetReporterFromContext(ctx)
	if !ok {
		return
	}

	if err := fn(rep); err != nil {
		logrus.WithError(err).Error("Failed to report message")
	}
}

type NullReporter struct{}

func (*NullReporter) ReportException(any) error {
	return nil
}

func (*NullReporter) ReportMessage(string) error {
	return nil
}

func (*NullReporter) ReportMessageWithContext(string, Context) error {
	return nil
}

func (*NullReporter) ReportExceptionWithContext(any, Context) error {
	return nil
}

package form

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Submission is the payload handed to a Sink when a form is submitted.
type Submission struct {
	FormTitle string
	Values    schema.Values
}

// Sink receives submitted payloads. Submission is local; sinks exist so the
// payload can be inspected.
type Sink interface {
	Record(Submission)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Submission)

// Record calls fn.
func (fn SinkFunc) Record(s Submission) {
	fn(s)
}

type nopSink struct{}

func (nopSink) Record(Submission) {}

// Sinks fans a submission out to several sinks in order.
func Sinks(sinks ...Sink) Sink {
	return SinkFunc(func(s Submission) {
		for _, sink := range sinks {
			if sink != nil {
				sink.Record(s)
			}
		}
	})
}

// LogSink records the submission as a structured log entry.
func LogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return SinkFunc(func(s Submission) {
		logger.Info("form submitted",
			"form", s.FormTitle,
			"fields", len(s.Values),
			"payload", s.Values.Payload(),
		)
	})
}

// WriterSink serializes the submission in format and writes it to w followed
// by a newline. Encoding or write failures are logged, never returned, since
// submission already happened.
func WriterSink(w io.Writer, format OutputFormat, logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return SinkFunc(func(s Submission) {
		data, err := Encode(format, s.Values)
		if err != nil {
			logger.Error("encode submission", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			logger.Error("write submission", "error", err)
		}
	})
}

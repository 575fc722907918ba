package gladia

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/moxierobots/gladia-live-go"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)

	audioBytesCounter = newInt64Counter("gladia.audio.sent",
		metric.WithDescription("Audio bytes written to live sessions"),
		metric.WithUnit("By"))
	eventsCounter = newInt64Counter("gladia.events.dispatched",
		metric.WithDescription("Server events delivered to handlers, by kind"))
)

func newInt64Counter(name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	c, err := meter.Int64Counter(name, opts...)
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return c
}

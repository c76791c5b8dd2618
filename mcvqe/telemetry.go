package mcvqe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/oqtopus-team/oqtopus-mcvqe/mcvqe"

type telemetry struct {
	tracer trace.Tracer
	calls  metric.Int64Counter
}

// newTelemetry uses the global providers, which are no-ops unless the host
// installs real ones.
func newTelemetry() *telemetry {
	calls, err := otel.Meter(instrumentationName).Int64Counter("mcvqe.executor.calls",
		metric.WithDescription("executor calls made by MC-VQE"),
		metric.WithUnit("{call}"))
	if err != nil {
		zap.L().Warn(fmt.Sprintf("failed to create executor call counter/reason:%s", err))
		calls = noop.Int64Counter{}
	}
	return &telemetry{tracer: otel.Tracer(instrumentationName), calls: calls}
}

func (t *telemetry) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (t *telemetry) count(ctx context.Context, stage string, n int) {
	t.calls.Add(ctx, int64(n), metric.WithAttributes(attribute.String("stage", stage)))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/voxel-core/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName - имя трассировщика ядра мира
const TracerName = "github.com/annel0/voxel-core/sim"

// InitTelemetry настраивает OTLP экспортер и устанавливает глобальный TracerProvider.
// Возвращает функцию shutdown, которую нужно вызвать при завершении приложения.
func InitTelemetry(ctx context.Context, serviceName, runID string) (func(context.Context) error, error) {
	// OTLP HTTP экспортер (по умолчанию localhost:4318)
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	tp, err := newProvider(ctx, serviceName, runID, sdktrace.WithBatcher(exp))
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	logging.Info("📡 OpenTelemetry инициализирован (OTLP → 4318, service=%s, run=%s)", serviceName, runID)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

func newProvider(ctx context.Context, serviceName, runID string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceInstanceID(runID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	opts = append(opts, sdktrace.WithResource(res))
	return sdktrace.NewTracerProvider(opts...), nil
}

// Tracer возвращает трассировщик из глобального провайдера.
// Без InitTelemetry спаны не записываются.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartPhase открывает спан фазы кадра
func StartPhase(ctx context.Context, tracer trace.Tracer, phase string, frame uint64) (context.Context, trace.Span) {
	return tracer.Start(ctx, "frame."+phase,
		trace.WithAttributes(
			attribute.String("voxel.phase", phase),
			attribute.Int64("voxel.frame", int64(frame)),
		),
	)
}

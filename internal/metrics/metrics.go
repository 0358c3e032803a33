// Package metrics exposes the store's business metrics over OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds the exporter settings.
type Config struct {
	ServiceName    string
	Endpoint       string // host:port of the OTLP HTTP collector
	Insecure       bool
	ExportInterval time.Duration
}

// StoreMetrics holds the storefront's business metrics.
type StoreMetrics struct {
	OrdersCreated        metric.Int64Counter
	RevenueTotal         metric.Float64Counter
	PaymentsFailed       metric.Int64Counter
	ConsultationRequests metric.Int64Counter
	ActiveCarts          metric.Int64Gauge
}

// Init sets up the OTLP exporter, registers the global meter provider and
// creates the store's instruments. The returned provider must be shut down
// on exit to flush pending exports.
func Init(ctx context.Context, cfg Config) (*StoreMetrics, *sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(cfg.ServiceName)

	m := &StoreMetrics{}
	if m.OrdersCreated, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to create orders counter: %w", err)
	}
	if m.RevenueTotal, err = meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total revenue from placed orders"),
		metric.WithUnit("NGN"),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}
	if m.PaymentsFailed, err = meter.Int64Counter(
		"payments_failed_total",
		metric.WithDescription("Payment attempts that did not verify as successful"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to create payments counter: %w", err)
	}
	if m.ConsultationRequests, err = meter.Int64Counter(
		"consultation_requests_total",
		metric.WithDescription("Consultation requests submitted"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to create consultations counter: %w", err)
	}
	if m.ActiveCarts, err = meter.Int64Gauge(
		"active_carts_count",
		metric.WithDescription("Number of carts that currently hold items"),
		metric.WithUnit("1"),
	); err != nil {
		return nil, nil, fmt.Errorf("failed to create active carts gauge: %w", err)
	}

	return m, provider, nil
}

// RecordOrder counts a placed order and its revenue.
func (m *StoreMetrics) RecordOrder(ctx context.Context, total float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.Add(ctx, 1)
	m.RevenueTotal.Add(ctx, total)
}

// RecordPaymentFailure counts a failed or cancelled payment attempt.
func (m *StoreMetrics) RecordPaymentFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.PaymentsFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordConsultation counts a submitted consultation request.
func (m *StoreMetrics) RecordConsultation(ctx context.Context) {
	if m == nil {
		return
	}
	m.ConsultationRequests.Add(ctx, 1)
}

// RecordActiveCarts records the current non-empty cart count.
func (m *StoreMetrics) RecordActiveCarts(ctx context.Context, count int64) {
	if m == nil {
		return
	}
	m.ActiveCarts.Record(ctx, count)
}

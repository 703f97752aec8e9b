package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/infrastructure/logger"
)

// Manager registers and feeds the application's instruments by name, so
// call sites stay one-liners and never hold instrument handles.
type Manager interface {
	NewGauge(name, description string)
	NewCounter(name, description string)
	NewHistogram(name, description string, buckets ...float64)
	NewUpDownCounter(name, description string)

	SetGauge(name string, value float64)
	IncCounter(name string)
	AddCounter(name string, value int64)
	ObserveHistogram(name string, value float64)
	AddUpDownCounter(name string, value int64)
}

type manager struct {
	meter  metric.Meter
	logger *logger.Logger

	mu             sync.RWMutex
	gauges         map[string]metric.Float64Gauge
	counters       map[string]metric.Int64Counter
	histograms     map[string]metric.Float64Histogram
	upDownCounters map[string]metric.Int64UpDownCounter
}

func NewMetricsManager(meter metric.Meter, logger *logger.Logger) Manager {
	return &manager{
		meter:          meter,
		logger:         logger,
		gauges:         make(map[string]metric.Float64Gauge),
		counters:       make(map[string]metric.Int64Counter),
		histograms:     make(map[string]metric.Float64Histogram),
		upDownCounters: make(map[string]metric.Int64UpDownCounter),
	}
}

func (m *manager) NewGauge(name, description string) {
	gauge, err := m.meter.Float64Gauge(name, metric.WithDescription(description))
	if err != nil {
		m.logger.Error("failed to register gauge", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.gauges[name] = gauge
	m.mu.Unlock()
}

func (m *manager) NewCounter(name, description string) {
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		m.logger.Error("failed to register counter", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.counters[name] = counter
	m.mu.Unlock()
}

func (m *manager) NewHistogram(name, description string, buckets ...float64) {
	histogram, err := m.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		m.logger.Error("failed to register histogram", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.histograms[name] = histogram
	m.mu.Unlock()
}

func (m *manager) NewUpDownCounter(name, description string) {
	counter, err := m.meter.Int64UpDownCounter(name, metric.WithDescription(description))
	if err != nil {
		m.logger.Error("failed to register up/down counter", zap.String("name", name), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.upDownCounters[name] = counter
	m.mu.Unlock()
}

func (m *manager) SetGauge(name string, value float64) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()

	if ok {
		gauge.Record(context.Background(), value)
	}
}

func (m *manager) IncCounter(name string) {
	m.AddCounter(name, 1)
}

func (m *manager) AddCounter(name string, value int64) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()

	if ok {
		counter.Add(context.Background(), value)
	}
}

func (m *manager) ObserveHistogram(name string, value float64) {
	m.mu.RLock()
	histogram, ok := m.histograms[name]
	m.mu.RUnlock()

	if ok {
		histogram.Record(context.Background(), value)
	}
}

func (m *manager) AddUpDownCounter(name string, value int64) {
	m.mu.RLock()
	counter, ok := m.upDownCounters[name]
	m.mu.RUnlock()

	if ok {
		counter.Add(context.Background(), value)
	}
}

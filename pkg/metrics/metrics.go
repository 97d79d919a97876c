package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллектор метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	availabilityQueries *prometheus.CounterVec
	availabilitySlots   prometheus.Histogram
	sourceFailuresTotal *prometheus.CounterVec
}

// New создает метрики и регистрирует их в стандартном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "salon",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests by route, method and status",
			ConstLabels: constLabels,
		}, []string{"route", "method", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "salon",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "salon",
			Subsystem:   "db",
			Name:        "query_duration_seconds",
			Help:        "Database query latency by table and result",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"table", "result"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "salon", Subsystem: "db", Name: "open_connections",
			Help: "Open connections in the pool", ConstLabels: constLabels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "salon", Subsystem: "db", Name: "in_use_connections",
			Help: "Connections currently in use", ConstLabels: constLabels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "salon", Subsystem: "db", Name: "idle_connections",
			Help: "Idle connections in the pool", ConstLabels: constLabels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "salon", Subsystem: "db", Name: "wait_count",
			Help: "Total number of connections waited for", ConstLabels: constLabels,
		}),
		availabilityQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "salon",
			Subsystem:   "availability",
			Name:        "queries_total",
			Help:        "Availability queries by outcome (slots, empty, invalid, unavailable, error)",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		availabilitySlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "salon",
			Subsystem:   "availability",
			Name:        "slots_returned",
			Help:        "Number of slots returned per successful query",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 24, 32, 48, 64},
		}),
		sourceFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "salon",
			Subsystem:   "availability",
			Name:        "source_failures_total",
			Help:        "Schedule and occupancy source read failures",
			ConstLabels: constLabels,
		}, []string{"source"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.availabilityQueries,
		m.availabilitySlots,
		m.sourceFailuresTotal,
	)

	return m
}

// ObserveHTTPRequest учитывает HTTP запрос
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает запрос к БД
func (m *Metrics) ObserveDBQuery(table string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dbQueryDuration.WithLabelValues(table, result).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет показатели пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}

// ObserveAvailability учитывает результат запроса доступности
func (m *Metrics) ObserveAvailability(outcome string, slots int) {
	if m == nil {
		return
	}
	m.availabilityQueries.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSlots || outcome == OutcomeEmpty {
		m.availabilitySlots.Observe(float64(slots))
	}
}

// ObserveSourceFailure учитывает ошибку чтения источника данных
func (m *Metrics) ObserveSourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailuresTotal.WithLabelValues(source).Inc()
}

// Исходы запроса доступности
const (
	OutcomeSlots       = "slots"
	OutcomeEmpty       = "empty"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                            sync.Once
	metricsRouter                   *chi.Mux
	clientLatency                   *prometheus.HistogramVec
	clientRequestDurationHistogram  *prometheus.HistogramVec
	pollerDurationHistogram         *prometheus.HistogramVec
	balanceEventProcessingDuration  *prometheus.HistogramVec
	ledgerOperationDuration         *prometheus.HistogramVec
	queueSendErrorCounter           prometheus.Counter
	depositsTotalCounter            prometheus.Counter
	claimsTotalCounter              prometheus.Counter
	totalYieldDepositedGauge        prometheus.Gauge
	totalYieldAccruedGauge          prometheus.Gauge
	totalYieldWithdrawnGauge        prometheus.Gauge
	holderCountGauge                prometheus.Gauge
	depositChainLengthGauge         prometheus.Gauge
	dbLatency                       *prometheus.HistogramVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	clientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "external_client_latency_seconds",
			Help:    "Histogram of external collaborator client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"client", "method", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	balanceEventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "balance_event_processing_duration_seconds",
			Help:    "Balance-change event processing duration in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"event_type", "status"},
	)

	ledgerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Ledger operation duration in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	depositsTotalCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yield_deposits_total",
			Help: "The total number of yield deposits recorded",
		},
	)

	claimsTotalCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yield_claims_total",
			Help: "The total number of yield claims paid out",
		},
	)

	totalYieldDepositedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "yield_deposited_units",
			Help: "Total yield units ever deposited",
		},
	)

	totalYieldAccruedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "yield_accrued_units",
			Help: "Total yield units accrued across all holders",
		},
	)

	totalYieldWithdrawnGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "yield_withdrawn_units",
			Help: "Total yield units withdrawn across all holders",
		},
	)

	holderCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "holder_count",
			Help: "Number of holders tracked by the ledger",
		},
	)

	depositChainLengthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "deposit_chain_length",
			Help: "Number of records in the deposit history chain",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		clientRequestDurationHistogram,
		clientLatency,
		queueSendErrorCounter,
		pollerDurationHistogram,
		balanceEventProcessingDuration,
		ledgerOperationDuration,
		depositsTotalCounter,
		claimsTotalCounter,
		totalYieldDepositedGauge,
		totalYieldAccruedGauge,
		totalYieldWithdrawnGauge,
		holderCountGauge,
		depositChainLengthGauge,
		dbLatency,
	)
}

func RecordClientLatency(d time.Duration, client, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	clientLatency.WithLabelValues(client, method, status.String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	dbLatency.WithLabelValues(method, status.String()).Observe(d.Seconds())
}

func RecordBalanceEventProcessingDuration(d time.Duration, eventType string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	balanceEventProcessingDuration.WithLabelValues(eventType, status.String()).Observe(d.Seconds())
}

func RecordLedgerOperationDuration(d time.Duration, operation string, failure bool) {
	status := Success
	if failure {
		status = Error
	}

	ledgerOperationDuration.WithLabelValues(operation, status.String()).Observe(d.Seconds())
}

func IncDepositsTotal() {
	depositsTotalCounter.Inc()
}

func IncClaimsTotal() {
	claimsTotalCounter.Inc()
}

func RecordOverallStats(deposited, accrued, withdrawn float64, holders, chainLength int) {
	totalYieldDepositedGauge.Set(deposited)
	totalYieldAccruedGauge.Set(accrued)
	totalYieldWithdrawnGauge.Set(withdrawn)
	holderCountGauge.Set(float64(holders))
	depositChainLengthGauge.Set(float64(chainLength))
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

package metrics

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	engineTime             *prometheus.CounterVec
	opDuration             *prometheus.HistogramVec
	opCounter              *prometheus.CounterVec
	liquidationCounter     *prometheus.CounterVec
	stalePriceCounter      *prometheus.CounterVec
	accountGauge           prometheus.Gauge
	rollbackFailureCounter prometheus.Counter
)

// abstract prometheus types
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument  configure and register new metrics instrument
// this will, over time, be moved to use custom Registries, etc...
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	// apply options
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := opt.gauge()
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := opt.counter()
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Start enable metrics (given config)
func Start(conf Config) {
	if !conf.Enabled {
		return
	}
	err := setupMetrics()
	if err != nil {
		panic("could not set up metrics")
	}
	http.Handle(conf.Path, promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", conf.Port), nil))
	}()
}

func (i instrumentOpts) gauge() prometheus.GaugeOpts {
	return prometheus.GaugeOpts(i.opts)
}

func (i instrumentOpts) counter() prometheus.CounterOpts {
	return prometheus.CounterOpts(i.opts)
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Buckets:     i.buckets,
	}
}

// Gauge returns a prometheus Gauge instrument
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// Counter returns a prometheus Counter instrument
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

func setupMetrics() error {
	// instrument with time counter for the engines
	h, err := AddInstrument(
		Counter,
		"engine_seconds_total",
		Namespace("ballast"),
		Vectors("engine", "fn"),
	)
	if err != nil {
		return err
	}
	est, err := h.CounterVec()
	if err != nil {
		return err
	}
	engineTime = est

	h, err = AddInstrument(
		Histogram,
		"engine_op_duration_seconds",
		Namespace("ballast"),
		Vectors("engine", "fn"),
		Help("Distribution of the time spent in engine operations"),
		Buckets([]float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10}),
	)
	if err != nil {
		return err
	}
	od, err := h.HistogramVec()
	if err != nil {
		return err
	}
	opDuration = od

	h, err = AddInstrument(
		Counter,
		"operations_total",
		Namespace("ballast"),
		Vectors("op", "result"),
		Help("Number of collateral operations processed"),
	)
	if err != nil {
		return err
	}
	oc, err := h.CounterVec()
	if err != nil {
		return err
	}
	opCounter = oc

	h, err = AddInstrument(
		Counter,
		"liquidations_total",
		Namespace("ballast"),
		Vectors("asset"),
		Help("Number of liquidations executed"),
	)
	if err != nil {
		return err
	}
	lc, err := h.CounterVec()
	if err != nil {
		return err
	}
	liquidationCounter = lc

	h, err = AddInstrument(
		Counter,
		"stale_prices_total",
		Namespace("ballast"),
		Vectors("feed"),
		Help("Number of price reads rejected because the observation was stale"),
	)
	if err != nil {
		return err
	}
	sp, err := h.CounterVec()
	if err != nil {
		return err
	}
	stalePriceCounter = sp

	h, err = AddInstrument(
		Gauge,
		"accounts",
		Namespace("ballast"),
		Help("Number of party accounts on the books"),
	)
	if err != nil {
		return err
	}
	ag, err := h.Gauge()
	if err != nil {
		return err
	}
	accountGauge = ag

	h, err = AddInstrument(
		Counter,
		"rollback_failures_total",
		Namespace("ballast"),
		Help("Number of rollback compensations that could not be applied"),
	)
	if err != nil {
		return err
	}
	rf, err := h.Counter()
	if err != nil {
		return err
	}
	rollbackFailureCounter = rf

	return nil
}

// EngineTimeCounterAdd is used to time a function. Call it, using defer, at the start of the
// function to be timed.
//
// e.g.
//     defer metrics.EngineTimeCounterAdd("x", "y")()
//
// Note the extra "()" at the end of the above line - the returned function must be called.
func EngineTimeCounterAdd(labelValues ...string) func() {
	start := time.Now()
	f := func() {
		// Check that the metrics have been set up. (Testing does not use metrics.)
		elapsed := time.Now().Sub(start).Seconds()
		if engineTime != nil {
			engineTime.WithLabelValues(labelValues...).Add(elapsed)
		}
		if opDuration != nil {
			opDuration.WithLabelValues(labelValues...).Observe(elapsed)
		}
	}
	return f
}

func OpCounterInc(labelValues ...string) {
	if opCounter == nil {
		return
	}
	opCounter.WithLabelValues(labelValues...).Inc()
}

func LiquidationCounterInc(asset string) {
	if liquidationCounter == nil {
		return
	}
	liquidationCounter.WithLabelValues(asset).Inc()
}

func StalePriceCounterInc(feed string) {
	if stalePriceCounter == nil {
		return
	}
	stalePriceCounter.WithLabelValues(feed).Inc()
}

// AccountGaugeSet updates the number of party accounts on the books.
func AccountGaugeSet(n int) {
	if accountGauge == nil {
		return
	}
	accountGauge.Set(float64(n))
}

// RollbackFailureCounterInc counts compensations that failed to apply while
// unwinding an operation.
func RollbackFailureCounterInc() {
	if rollbackFailureCounter == nil {
		return
	}
	rollbackFailureCounter.Inc()
}

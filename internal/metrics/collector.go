package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/inept/internal/event"
)

const namespace = "inept"

// Collector records bus and frame metrics. It implements event.Observer.
type Collector struct {
	published     *prometheus.CounterVec
	delivered     *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	panics        *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	layers        prometheus.Gauge
}

var _ event.Observer = (*Collector)(nil)

// NewCollector creates the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "events_published_total",
				Help:      "Events accepted by the bus",
			},
			[]string{"type", "mode"},
		),
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "events_delivered_total",
				Help:      "Handler invocations",
			},
			[]string{"type"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "events_dropped_total",
				Help:      "Events discarded on overflow or after close",
			},
			[]string{"type"},
		),
		panics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bus",
				Name:      "handler_panics_total",
				Help:      "Handlers that panicked",
			},
			[]string{"type"},
		),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "queue_depth",
			Help:      "Events waiting for the next flush",
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "frames_total",
			Help:      "Frames run by the main loop",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "frame_duration_seconds",
			Help:      "Time spent in one frame",
			Buckets:   []float64{.001, .002, .004, .008, .016, .033, .066, .1, .25, .5},
		}),
		layers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stack",
			Name:      "layers",
			Help:      "Layers and overlays on the stack",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.published, c.delivered, c.dropped, c.panics,
		c.queueDepth, c.frames, c.frameDuration, c.layers,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EventPublished implements event.Observer.
func (c *Collector) EventPublished(t event.Type, immediate bool) {
	mode := "deferred"
	if immediate {
		mode = "immediate"
	}
	c.published.WithLabelValues(t.String(), mode).Inc()
}

// EventDelivered implements event.Observer.
func (c *Collector) EventDelivered(t event.Type) {
	c.delivered.WithLabelValues(t.String()).Inc()
}

// EventDropped implements event.Observer.
func (c *Collector) EventDropped(t event.Type) {
	c.dropped.WithLabelValues(t.String()).Inc()
}

// HandlerPanicked implements event.Observer.
func (c *Collector) HandlerPanicked(t event.Type) {
	c.panics.WithLabelValues(t.String()).Inc()
}

// QueueDepth implements event.Observer.
func (c *Collector) QueueDepth(n int) {
	c.queueDepth.Set(float64(n))
}

// ObserveFrame records one frame of the main loop.
func (c *Collector) ObserveFrame(d time.Duration) {
	c.frames.Inc()
	c.frameDuration.Observe(d.Seconds())
}

// SetLayers records the stack size.
func (c *Collector) SetLayers(n int) {
	c.layers.Set(float64(n))
}

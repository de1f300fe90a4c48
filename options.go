package txflash

import (
	"go.uber.org/zap"

	"github.com/nvflash/txflash/metrics"
)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures an Engine at construction. defaultOptions already
// gives every Engine a usable logger and collector, matching how the
// teacher's WithIOManagerCreator / WithCodec options default to concrete,
// ready-to-use values rather than nil.
type Option func(*options)

// WithLogger attaches a structured logger the engine uses to narrate
// recovery outcomes, corruption-triggered resets, and ping-pong
// migrations; a Reset called directly is not logged. The default is
// zap.NewNop(), so an Engine constructed without this option never logs.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics attaches a metrics.Collector the engine increments on
// commit, reset, ping-pong migration, and corruption recovery. The
// default collector holds its own private prometheus.Registry that
// nothing ever scrapes, so it's cheap to increment either way.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		if c != nil {
			o.metrics = c
		}
	}
}

func defaultOptions() options {
	return options{
		logger:  zap.NewNop(),
		metrics: metrics.NewCollector(),
	}
}

package plugin

import "github.com/sirupsen/logrus"

const defaultQueueSize = 256

type config struct {
	log       *logrus.Entry
	queueSize int
}

// Option configures a Processor.
type Option func(*config)

// WithLogger sets the logger used for setup and state events.
func WithLogger(log *logrus.Entry) Option {
	return func(cfg *config) {
		if log != nil {
			cfg.log = log
		}
	}
}

// WithQueueSize sets how many UI parameter changes can wait for the next block.
func WithQueueSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.queueSize = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{
		log:       logrus.StandardLogger().WithField("component", "compressor"),
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

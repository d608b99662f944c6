package retention

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PurgeFunc deletes records created before the given time and reports how many went.
type PurgeFunc func(ctx context.Context, before time.Time) (int64, error)

// Config contains purger configuration.
type Config struct {
	// Retention is how long records are kept. Zero disables purging.
	Retention time.Duration
	// Interval is the time between purge runs.
	Interval time.Duration
	// Timeout bounds a single purge run.
	Timeout time.Duration
}

// DefaultConfig returns the default purger configuration.
func DefaultConfig() *Config {
	return &Config{
		Retention: 90 * 24 * time.Hour,
		Interval:  6 * time.Hour,
		Timeout:   time.Minute,
	}
}

// Purger periodically removes expired webhook audit rows.
type Purger struct {
	purge    PurgeFunc
	onPurged func(n int64)
	config   *Config
	logger   *zap.Logger
	now      func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewPurger creates a new purger. onPurged may be nil.
func NewPurger(purge PurgeFunc, onPurged func(n int64), config *Config, logger *zap.Logger) *Purger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Purger{
		purge:    purge,
		onPurged: onPurged,
		config:   config,
		logger:   logger.Named("retention"),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one purge immediately and then one per interval until Stop.
func (p *Purger) Start() {
	if p.config.Retention <= 0 || p.config.Interval <= 0 {
		p.logger.Info("webhook log retention disabled")
		return
	}

	p.startOnce.Do(func() {
		p.logger.Info("starting webhook log retention",
			zap.Duration("retention", p.config.Retention),
			zap.Duration("interval", p.config.Interval))

		p.wg.Add(1)
		go p.loop()
	})
}

// Stop stops the purger and waits for an in-flight run.
func (p *Purger) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.wg.Wait()
}

// RunOnce performs a single purge. It is a no-op when retention is disabled.
func (p *Purger) RunOnce(ctx context.Context) (int64, error) {
	if p.config.Retention <= 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	before := p.now().Add(-p.config.Retention)
	n, err := p.purge(ctx, before)
	if err != nil {
		p.logger.Warn("webhook log purge failed", zap.Error(err))
		return 0, err
	}
	if p.onPurged != nil {
		p.onPurged(n)
	}
	return n, nil
}

func (p *Purger) loop() {
	defer p.wg.Done()

	_, _ = p.RunOnce(context.Background())

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			_, _ = p.RunOnce(context.Background())
		}
	}
}

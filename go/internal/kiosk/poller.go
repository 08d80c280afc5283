package kiosk

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const DefaultPollInterval = 2 * time.Second

// Poller calls tick on a fixed interval until stopped. Ticks run one at a time on the
// poller's goroutine.
type Poller struct {
	clock    clockwork.Clock
	interval time.Duration
	tick     func(ctx context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(clock clockwork.Clock, interval time.Duration, tick func(ctx context.Context) error) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		clock:    clock,
		interval: interval,
		tick:     tick,
	}
}

// Start arms the poller, replacing any handle that is already running.
func (p *Poller) Start(ctx context.Context) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	ticker := p.clock.NewTicker(p.interval)
	go p.run(ctx, ticker, done)

	log.Debug().Dur("interval", p.interval).Msg("poller started")
}

func (p *Poller) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := p.tick(ctx); err != nil {
				// the next tick retries
				log.Debug().Err(err).Msg("poll tick failed")
			}
		}
	}
}

// Stop cancels the running handle and waits for its goroutine to exit.
// It is a no-op when the poller is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Debug().Msg("poller stopped")
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

package activity

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"worktick/internal/platform"
)

// InputPoller converts drops in the OS input-idle counter into activity
// signals. On platforms without a usable probe it disables itself after the
// first sample.
type InputPoller struct {
	sample     func() (time.Duration, error)
	interval   time.Duration
	onActivity func()
	logger     *slog.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

// NewInputPoller creates a poller over the given idle sampler. The sampler is
// usually platform.NewInputProvider().InputIdle.
func NewInputPoller(sample func() (time.Duration, error), interval time.Duration, onActivity func(), logger *slog.Logger) *InputPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &InputPoller{
		sample:     sample,
		interval:   interval,
		onActivity: onActivity,
		logger:     logger,
	}
}

// Start begins sampling. Redundant calls are no-ops.
func (poller *InputPoller) Start() {
	poller.mu.Lock()
	if poller.running {
		poller.mu.Unlock()
		return
	}
	poller.running = true
	stop := make(chan struct{})
	poller.stopCh = stop
	poller.mu.Unlock()

	go poller.loop(stop)
}

// Close stops sampling. The poller can be started again afterwards.
func (poller *InputPoller) Close() {
	poller.mu.Lock()
	if !poller.running {
		poller.mu.Unlock()
		return
	}
	poller.running = false
	close(poller.stopCh)
	poller.mu.Unlock()
}

func (poller *InputPoller) loop(stop chan struct{}) {
	ticker := time.NewTicker(poller.interval)
	defer ticker.Stop()

	var lastIdle time.Duration
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			idle, err := poller.sample()
			if err != nil {
				if errors.Is(err, platform.ErrInputUnsupported) {
					poller.logger.Info("input activity detection disabled", "reason", err)
					return
				}
				poller.logger.Warn("sample input idle", "error", err)
				continue
			}
			// The counter dropping, or staying below one interval, means
			// input happened since the previous sample.
			if idle < lastIdle || idle < poller.interval {
				poller.onActivity()
			}
			lastIdle = idle
		}
	}
}

package metrics

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nextcloud-analytics/go-client/analytics"
)

const DefaultPushInterval = 30 * time.Second

// Sample is one timeline observation waiting to be pushed.
type Sample struct {
	Key   string
	Time  time.Time
	Value float64
}

// Reporter buffers timeline samples and pushes them into an Analytics
// collection on an interval, so callers can observe values without paying a
// network round-trip per observation. Samples that fail to send are logged
// and dropped, never requeued.
type Reporter struct {
	client   *analytics.Client
	samples  []Sample
	lock     sync.Mutex
	interval time.Duration
	logger   *logrus.Logger
	done     chan struct{}
	stopOnce sync.Once
}

func NewReporter(client *analytics.Client, pushInterval time.Duration) *Reporter {
	if pushInterval <= 0 {
		pushInterval = DefaultPushInterval
	}

	r := &Reporter{
		client:   client,
		samples:  make([]Sample, 0),
		interval: pushInterval,
		logger:   logrus.StandardLogger(),
		done:     make(chan struct{}),
	}
	go r.start()
	return r
}

func (r *Reporter) start() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			if err := r.Flush(); err != nil {
				r.logger.WithError(err).Error("failed to push timeline samples")
			}
		}
	}
}

// Observe records value for key at the current UTC time.
func (r *Reporter) Observe(key string, value float64) {
	r.ObserveAt(key, time.Now().UTC(), value)
}

func (r *Reporter) ObserveAt(key string, t time.Time, value float64) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.samples = append(r.samples, Sample{Key: key, Time: t, Value: value})
}

// Flush drains the buffer, sending samples in observation order. Every
// sample is attempted; the first failure is returned.
func (r *Reporter) Flush() error {
	r.lock.Lock()
	batch := r.samples
	r.samples = make([]Sample, 0)
	r.lock.Unlock()

	var firstErr error
	for _, s := range batch {
		if err := r.client.SendTimelineData(s.Key, s.Time, s.Value); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stop ends the push loop and drains whatever is still buffered.
func (r *Reporter) Stop() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.done)
		err = r.Flush()
	})
	return err
}

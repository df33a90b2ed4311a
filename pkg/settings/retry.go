package settings

import (
	"time"

	"github.com/arthur-debert/skel/pkg/config"
)

// RetryPolicy is a bounded fixed-interval retry. It is the only concurrency
// coordination used for cross-process file contention: transient external
// locks are waited out, true mutual exclusion is not attempted. Sleep is
// injectable so tests can run with a fake clock.
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
	Sleep    func(time.Duration)
}

// Do runs op up to Attempts times, sleeping Interval between attempts.
// The error of the final attempt is returned.
func (p RetryPolicy) Do(op func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i < attempts-1 {
			sleep(p.Interval)
		}
	}
	return err
}

// LoadPolicy derives the settings-read retry policy from configuration.
func LoadPolicy(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{Attempts: cfg.LoadAttempts, Interval: cfg.Interval()}
}

// PersistPolicy derives the settings-write retry policy from configuration.
func PersistPolicy(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{Attempts: cfg.PersistAttempts, Interval: cfg.Interval()}
}

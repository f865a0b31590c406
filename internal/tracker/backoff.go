package tracker

import "time"

// Retry backoff defaults: 1s base doubling up to 5 minutes.
const (
	backoffBase       = time.Second
	backoffMultiplier = 2
	backoffMax        = 5 * time.Minute
)

// BackoffDelay returns the wait before retry number retryCount:
// min(base * multiplier^retryCount, max).
func BackoffDelay(retryCount int) time.Duration {
	d := backoffBase
	for i := 0; i < retryCount; i++ {
		d *= backoffMultiplier
		if d >= backoffMax {
			return backoffMax
		}
	}
	return d
}

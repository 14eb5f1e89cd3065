package core

// upload_limiter.go bounds how many imports run at once.
//
// Each import holds one semaphore slot while its file is parsed and its
// rows are inserted. When all slots are taken a new import waits up to
// maxWait, then fails with ErrTooManyUploads. WaitForDrain lets shutdown
// block until running imports finish.

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyUploads is returned when no import slot frees up in time.
var ErrTooManyUploads = errors.New("too many uploads in progress, please try again later")

// DefaultMaxConcurrentUploads is the default limit for parallel imports.
const DefaultMaxConcurrentUploads = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// UploadLimiter is a counting semaphore over import slots.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewUploadLimiter creates a limiter allowing maxConcurrent imports.
// Non-positive arguments fall back to the defaults.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait.
// The caller must Release the slot when the import ends.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrTooManyUploads
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *UploadLimiter) Release() {
	<-l.slots
}

// ActiveCount returns the number of running imports.
func (l *UploadLimiter) ActiveCount() int {
	return len(l.slots)
}

// Available returns the number of free slots.
func (l *UploadLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no import is running or ctx ends.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// UploadLimiterStatus is a point-in-time view of the limiter.
type UploadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status reports current slot usage.
func (l *UploadLimiter) Status() UploadLimiterStatus {
	active := len(l.slots)
	return UploadLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
	}
}

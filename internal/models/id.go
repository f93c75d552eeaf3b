package models

import (
	"fmt"
	"sync"
	"time"
)

const idModulus = 10_000_000_000

// IDSource hands out workout ids and creation times. An id is the last ten
// digits of the creation time in Unix milliseconds. Two calls within the same
// millisecond get consecutive ids instead of colliding.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource returns an IDSource reading the given clock; nil means time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns a fresh id and the timestamp it was derived from.
func (s *IDSource) Next() (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now()
	ms := t.UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return fmt.Sprintf("%010d", ms%idModulus), t
}

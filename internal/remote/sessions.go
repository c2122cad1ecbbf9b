package remote

import "context"

// sessionLimiter bounds the SSH sessions open at once on one connection.
type sessionLimiter struct {
	ch chan struct{}
}

func newSessionLimiter(capacity int) *sessionLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &sessionLimiter{
		ch: make(chan struct{}, capacity),
	}
}

// acquire blocks until a slot is free or ctx is done.
func (s *sessionLimiter) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *sessionLimiter) release() {
	<-s.ch
}

package ratesource

// BreakerState reports the current state of the upstream circuit breaker.
func (s *Source) BreakerState() State {
	return s.breaker.State()
}

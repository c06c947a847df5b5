package utils

import "time"

// BackoffPolicy computes the per-attempt request timeout and the wait
// before the next attempt for the page-fetch retry loop. Attempt indexes
// start at zero.
//
// The timeout grows linearly:
//
//	attempt 0 → BaseTimeout
//	attempt 1 → BaseTimeout + TimeoutIncrement
//	attempt 2 → BaseTimeout + 2*TimeoutIncrement
//
// so a transiently slow page gets more room on each retry without every
// request paying the largest timeout up front.
//
// The delay between attempts doubles each time (exponential backoff):
//
//	attempt 0 fails → wait BaseDelay
//	attempt 1 fails → wait 2*BaseDelay
//	attempt 2 fails → wait 4*BaseDelay
//
// Keeping the arithmetic in a plain struct makes the policy testable
// without a network.
type BackoffPolicy struct {
	BaseTimeout      time.Duration
	TimeoutIncrement time.Duration
	BaseDelay        time.Duration
}

// Timeout returns the request timeout for the given attempt.
func (p BackoffPolicy) Timeout(attempt int) time.Duration {
	return p.BaseTimeout + time.Duration(attempt)*p.TimeoutIncrement
}

// Delay returns how long to wait after the given attempt fails.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay << uint(attempt)
}

package jobharvest

import "context"

// DomainLimiter throttles career-page navigation per domain so concurrent
// stage workers never hammer a single employer's site.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, domain string) error
}

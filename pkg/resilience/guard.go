package resilience

import (
	"context"
	"time"

	"agri-assistant-be/pkg/language"
)

// Timeouts holds the per-call-site deadlines. Probe is the shortest timeout
// in the system.
type Timeouts struct {
	Generate time.Duration
	Vision   time.Duration
	Ingest   time.Duration
	Probe    time.Duration
}

// DefaultTimeouts mirror the behavior of the live deployment: generation is
// allowed to be slow, probes must be near-instant.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Generate: 60 * time.Second,
		Vision:   45 * time.Second,
		Ingest:   90 * time.Second,
		Probe:    3 * time.Second,
	}
}

// Guard wraps outbound calls with a call-site timeout and a language-matched
// canned fallback. There is no automatic retry: a failed call surfaces its
// fallback immediately and the retry decision stays with the user.
type Guard struct {
	timeouts Timeouts
}

func NewGuard(t Timeouts) *Guard {
	return &Guard{timeouts: t}
}

func (g *Guard) timeoutFor(site CallSite) time.Duration {
	switch site {
	case SiteVision:
		return g.timeouts.Vision
	case SiteIngest:
		return g.timeouts.Ingest
	default:
		return g.timeouts.Generate
	}
}

// Do runs call under the site's timeout. On any failure (error or timeout)
// it returns the canned fallback for the site and language with
// degraded=true. Every guarded call therefore terminates in usable text.
func (g *Guard) Do(ctx context.Context, site CallSite, lang language.Language, call func(context.Context) (string, error)) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeoutFor(site))
	defer cancel()

	text, err := call(callCtx)
	if err != nil || text == "" {
		return FallbackFor(site, lang), true
	}
	return text, false
}

// Timeout returns the deadline for a call site, for callers that need the
// raw value rather than a guarded text call.
func (g *Guard) Timeout(site CallSite) time.Duration {
	return g.timeoutFor(site)
}

// ProbeTimeout exposes the probe deadline for the health monitor.
func (g *Guard) ProbeTimeout() time.Duration {
	return g.timeouts.Probe
}

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"agri-assistant-be/pkg/language"

	"github.com/stretchr/testify/assert"
)

func testTimeouts() Timeouts {
	return Timeouts{
		Generate: 50 * time.Millisecond,
		Vision:   50 * time.Millisecond,
		Ingest:   50 * time.Millisecond,
		Probe:    10 * time.Millisecond,
	}
}

func TestGuardPassesThroughSuccess(t *testing.T) {
	g := NewGuard(testTimeouts())

	text, degraded := g.Do(context.Background(), SiteGenerate, language.English, func(ctx context.Context) (string, error) {
		return "real answer", nil
	})

	assert.False(t, degraded)
	assert.Equal(t, "real answer", text)
}

func TestGuardErrorYieldsLanguageMatchedFallback(t *testing.T) {
	g := NewGuard(testTimeouts())

	text, degraded := g.Do(context.Background(), SiteGenerate, language.English, func(ctx context.Context) (string, error) {
		return "", errors.New("connection refused")
	})
	assert.True(t, degraded)
	assert.Equal(t, FallbackFor(SiteGenerate, language.English), text)

	text, degraded = g.Do(context.Background(), SiteGenerate, language.Malayalam, func(ctx context.Context) (string, error) {
		return "", errors.New("connection refused")
	})
	assert.True(t, degraded)
	assert.Equal(t, FallbackFor(SiteGenerate, language.Malayalam), text)
	assert.NotEqual(t, FallbackFor(SiteGenerate, language.English), text)
}

func TestGuardTimeoutYieldsFallback(t *testing.T) {
	g := NewGuard(testTimeouts())

	calls := 0
	text, degraded := g.Do(context.Background(), SiteVision, language.English, func(ctx context.Context) (string, error) {
		calls++
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})

	assert.True(t, degraded)
	assert.Equal(t, FallbackFor(SiteVision, language.English), text)
	assert.Equal(t, 1, calls, "no automatic retry")
}

func TestFallbackForUnknownLanguageUsesEnglish(t *testing.T) {
	unknown := language.Language{Code: "de"}
	assert.Equal(t, fallbacks[SiteGenerate]["en"], FallbackFor(SiteGenerate, unknown))
}

func TestHealthMonitor(t *testing.T) {
	down := errors.New("backend down")
	var err error = down

	m := NewHealthMonitor(func(ctx context.Context) error {
		return err
	}, time.Hour, 10*time.Millisecond)

	assert.False(t, m.Healthy(), "starts pessimistic")

	assert.False(t, m.Check(context.Background()))
	assert.False(t, m.Healthy())

	err = nil
	assert.True(t, m.Check(context.Background()))
	assert.True(t, m.Healthy())

	err = down
	assert.False(t, m.Check(context.Background()))
	assert.False(t, m.Healthy())
}

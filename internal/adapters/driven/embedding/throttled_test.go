package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder is a test double counting Embed calls.
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2}, nil
}

func (f *fakeEmbedder) Dimensions() int { return 2 }

func (f *fakeEmbedder) ModelName() string { return "fake" }

func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

func TestThrottle_Disabled(t *testing.T) {
	inner := &fakeEmbedder{}

	svc := Throttle(inner, 0)

	assert.Same(t, inner, svc, "non-positive rate returns the service unchanged")
}

func TestThrottle_Delegates(t *testing.T) {
	inner := &fakeEmbedder{}
	svc := Throttle(inner, 6000)

	vec, err := svc.Embed(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 2, svc.Dimensions())
	assert.Equal(t, "fake", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}

func TestThrottle_CancelledContext(t *testing.T) {
	inner := &fakeEmbedder{}
	svc := Throttle(inner, 1) // one request per minute

	// First call consumes the burst token.
	_, err := svc.Embed(context.Background(), "first")
	require.NoError(t, err)

	// Second call would wait ~60s; a cancelled context aborts it.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = svc.Embed(ctx, "second")

	require.Error(t, err)
	assert.Equal(t, 1, inner.calls, "inner service never saw the aborted call")
}

package relay_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/env0/saga/internal/models"
	"github.com/env0/saga/internal/relay"
)

func TestDispatcher_ExecutesEnqueuedJobs(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	d := relay.NewDispatcher(func(_ context.Context, job *models.DispatchJob) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.EventType)
	}, relay.WithWorkers(2), relay.WithQueueSize(8))

	d.Enqueue(&models.DispatchJob{EventType: "saga-tag"})
	d.Enqueue(&models.DispatchJob{EventType: "saga-deploy"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"saga-tag", "saga-deploy"}, seen)
}

func TestDispatcher_ShutdownDeadline(t *testing.T) {
	release := make(chan struct{})
	d := relay.NewDispatcher(func(_ context.Context, _ *models.DispatchJob) {
		<-release
	})
	defer close(release)

	d.Enqueue(&models.DispatchJob{EventType: "saga-stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, d.Shutdown(ctx))
}

func TestDispatcher_ShutdownIdempotent(t *testing.T) {
	d := relay.NewDispatcher(func(_ context.Context, _ *models.DispatchJob) {})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
	require.NoError(t, d.Shutdown(ctx))
}

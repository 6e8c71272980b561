package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollingWorkerStop(t *testing.T) {
	w := newPollingWorker("sync-1")
	assert.Equal(t, "sync-1", w.ID())
	assert.False(t, w.Running())

	w.running = true
	assert.True(t, w.Running())

	assert.NoError(t, w.Stop())
	assert.False(t, w.Running())

	select {
	case <-w.stopChan:
	default:
		t.Fatal("stop channel was not closed")
	}
}

func TestPollingWorkerStopBeforeStart(t *testing.T) {
	w := newPollingWorker("stats-1")

	assert.NoError(t, w.Stop())

	select {
	case <-w.stopChan:
		t.Fatal("stop channel closed for a worker that never started")
	default:
	}
}

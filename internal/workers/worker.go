package workers

import "context"

// Worker is a polling job consumer. The manager runs each worker in its own
// goroutine and stops the lot on shutdown.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	ID() string
	Running() bool
}

// pollingWorker carries the lifecycle state the sync and stats workers
// share: an identifier for log correlation and a channel closed on Stop.
type pollingWorker struct {
	id       string
	running  bool
	stopChan chan struct{}
}

func newPollingWorker(id string) pollingWorker {
	return pollingWorker{
		id:       id,
		stopChan: make(chan struct{}),
	}
}

func (w *pollingWorker) ID() string {
	return w.id
}

func (w *pollingWorker) Running() bool {
	return w.running
}

// Stop signals the polling loop to exit. Safe to call on a worker that
// never started.
func (w *pollingWorker) Stop() error {
	if w.running {
		w.running = false
		close(w.stopChan)
	}
	return nil
}

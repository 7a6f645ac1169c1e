package maintenance

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recordingSaver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (saver *recordingSaver) Save() error {
	saver.mu.Lock()
	defer saver.mu.Unlock()
	saver.calls++
	return saver.err
}

func (saver *recordingSaver) count() int {
	saver.mu.Lock()
	defer saver.mu.Unlock()
	return saver.calls
}

type recordingPruner struct {
	mu     sync.Mutex
	cutoff time.Time
	calls  int
	fired  chan struct{}
}

func (pruner *recordingPruner) PruneHistory(before time.Time) (int64, error) {
	pruner.mu.Lock()
	pruner.cutoff = before
	pruner.calls++
	pruner.mu.Unlock()
	if pruner.fired != nil {
		select {
		case pruner.fired <- struct{}{}:
		default:
		}
	}
	return 0, nil
}

func (pruner *recordingPruner) lastCutoff() time.Time {
	pruner.mu.Lock()
	defer pruner.mu.Unlock()
	return pruner.cutoff
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, saver Saver, pruner Pruner, retentionDays int) *Service {
	t.Helper()
	service, err := New(saver, pruner, 5*time.Minute, retentionDays, testLogger())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return service
}

func TestAutosaveInvokesSaver(t *testing.T) {
	saver := &recordingSaver{}
	service := newTestService(t, saver, &recordingPruner{}, 90)

	service.autosave()

	if saver.count() != 1 {
		t.Errorf("Expected one save, got %d", saver.count())
	}
}

func TestAutosaveSurvivesSaveError(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	service := newTestService(t, saver, &recordingPruner{}, 90)

	service.autosave()
	service.autosave()

	if saver.count() != 2 {
		t.Errorf("Expected failed saves to keep being attempted, got %d calls", saver.count())
	}
}

func TestPruneUsesRetentionCutoff(t *testing.T) {
	pruner := &recordingPruner{}
	service := newTestService(t, &recordingSaver{}, pruner, 30)

	service.prune()

	want := time.Now().Add(-30 * 24 * time.Hour)
	got := pruner.lastCutoff()
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("Expected cutoff near %v, got %v", want, got)
	}
}

func TestStartRunsInitialPruneAndCloseStops(t *testing.T) {
	pruner := &recordingPruner{fired: make(chan struct{}, 1)}
	service := newTestService(t, &recordingSaver{}, pruner, 90)

	service.Start()
	select {
	case <-pruner.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected an initial prune after Start")
	}

	done := make(chan struct{})
	go func() {
		service.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}

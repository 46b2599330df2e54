package utils

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// BackgroundProcessManager owns the long running goroutines of the bot: the
// maintenance scheduler and the metrics listener.
type BackgroundProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	processes map[string]*ProcessInfo
}

type ProcessInfo struct {
	Name        string
	Description string
	Started     time.Time
	cancel      context.CancelFunc
}

func NewBackgroundProcessManager(parent context.Context) *BackgroundProcessManager {
	ctx, cancel := context.WithCancel(parent)
	return &BackgroundProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]*ProcessInfo),
	}
}

// StartProcess runs fn in its own goroutine until it returns or the manager
// shuts down. A panic in fn is logged and does not take the bot down.
// Starting a name that is already running replaces the old process.
func (bpm *BackgroundProcessManager) StartProcess(name, description string, fn func(ctx context.Context)) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	if _, exists := bpm.processes[name]; exists {
		slog.Warn("Process already exists, stopping existing one",
			slog.String("type", "sys"),
			slog.String("process", name))
		bpm.stopLocked(name)
	}

	ctx, cancel := context.WithCancel(bpm.ctx)
	info := &ProcessInfo{Name: name, Description: description, Started: time.Now(), cancel: cancel}
	bpm.processes[name] = info

	bpm.wg.Add(1)
	go func() {
		defer bpm.wg.Done()
		defer bpm.forget(name, info)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("type", "sys"),
					slog.String("process", name),
					slog.Any("panic", r))
			}
		}()

		slog.Info("Starting background process",
			slog.String("type", "sys"),
			slog.String("process", name),
			slog.String("description", description))
		fn(ctx)
		slog.Info("Background process ended",
			slog.String("type", "sys"),
			slog.String("process", name))
	}()
}

func (bpm *BackgroundProcessManager) forget(name string, info *ProcessInfo) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()
	if bpm.processes[name] == info {
		delete(bpm.processes, name)
	}
}

func (bpm *BackgroundProcessManager) StopProcess(name string) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()
	bpm.stopLocked(name)
}

func (bpm *BackgroundProcessManager) stopLocked(name string) {
	if p, ok := bpm.processes[name]; ok {
		p.cancel()
		delete(bpm.processes, name)
	}
}

// Shutdown cancels every process and waits up to timeout for them to return.
func (bpm *BackgroundProcessManager) Shutdown(timeout time.Duration) error {
	slog.Info("Shutting down background processes",
		slog.String("type", "sys"),
		slog.Int("process_count", bpm.Count()))
	bpm.cancel()

	done := make(chan struct{})
	go func() {
		bpm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes to stop",
			slog.String("type", "sys"),
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}

func (bpm *BackgroundProcessManager) Count() int {
	bpm.mu.RLock()
	defer bpm.mu.RUnlock()
	return len(bpm.processes)
}

// Names lists the running processes in name order.
func (bpm *BackgroundProcessManager) Names() []string {
	bpm.mu.RLock()
	defer bpm.mu.RUnlock()
	names := make([]string, 0, len(bpm.processes))
	for name := range bpm.processes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

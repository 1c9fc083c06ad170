package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

type State string

const (
	Initializing State = "initializing"
	Ready        State = "ready"
	Failed       State = "failed"
)

var ErrModelNotReady = errors.New("model is not loaded yet")

// Lifecycle tracks the one-shot model load of the service. It starts in
// Initializing and moves exactly once to Ready or Failed.
type Lifecycle struct {
	mu     sync.RWMutex
	state  State
	handle *Handle
	err    error
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: Initializing}
}

func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Err returns the load failure once the lifecycle is Failed.
func (l *Lifecycle) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Handle returns the loaded model, or ErrModelNotReady unless the lifecycle is Ready.
func (l *Lifecycle) Handle() (*Handle, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != Ready {
		return nil, ErrModelNotReady
	}
	return l.handle, nil
}

func (l *Lifecycle) MarkReady(handle *Handle) error {
	if handle == nil {
		return fmt.Errorf("cannot mark lifecycle ready without a model handle")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Initializing {
		return fmt.Errorf("invalid lifecycle transition %s -> %s", l.state, Ready)
	}
	l.state = Ready
	l.handle = handle
	return nil
}

func (l *Lifecycle) MarkFailed(err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Initializing {
		return fmt.Errorf("invalid lifecycle transition %s -> %s", l.state, Failed)
	}
	l.state = Failed
	l.err = err
	return nil
}

type HandleResolver interface {
	Resolve(ctx context.Context) (*Handle, error)
}

// Load runs the model load once and records the outcome. The returned error is
// the load failure, if any.
func (l *Lifecycle) Load(ctx context.Context, resolver HandleResolver) error {
	handle, err := resolver.Resolve(ctx)
	if err != nil {
		slog.Error("model load failed", "error", err)
		if markErr := l.MarkFailed(err); markErr != nil {
			return markErr
		}
		return err
	}

	if err := l.MarkReady(handle); err != nil {
		handle.Release()
		return err
	}

	slog.Info("model ready", "uri", handle.URI().String(), "flavor", handle.Info().Flavor)
	return nil
}

// Close releases the loaded model, if any.
func (l *Lifecycle) Close() {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.handle != nil {
		l.handle.Release()
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kkkkkom/ezdxf/pkg/ctxutil"
)

// Service is a runnable component with an asynchronous lifecycle.
// Start must return a ready syncher reporting the startup outcome
// and a done syncher reporting the shutdown outcome.
type Service interface {
	Start(ctx context.Context) (ready Syncher, done Syncher, err error)
	Wait() error
}

// Services runs a set of services under a common cancelable context.
// A failing service cancels the context and thereby stops the rest.
type Services interface {
	Add(s Service) error
	Start(st ...Service) error
	Wait() error
}

type registry struct {
	lock    sync.Mutex
	ctx     context.Context
	pending []Service
	done    map[Service]Syncher
	started bool
	wg      sync.WaitGroup
	errs    []error
}

func New(ctx context.Context) Services {
	return &registry{
		ctx:  ctxutil.CancelContext(ctx),
		done: map[Service]Syncher{},
	}
}

// Add registers a service. If the registry is already started the
// service is launched immediately and Add waits for its readiness.
func (r *registry) Add(s Service) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.started {
		r.pending = append(r.pending, s)
		return nil
	}
	ready, err := r.launch(s)
	if err != nil {
		return err
	}
	return r.await(ready)
}

// Start launches the given services, or all pending ones if none are
// given. It returns after all launched services reported readiness.
func (r *registry) Start(st ...Service) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(st) == 0 {
		if r.started {
			return nil
		}
		r.started = true
		st = r.pending
		r.pending = nil
	}

	var readies []Syncher
	for _, s := range st {
		if _, found := r.done[s]; found {
			continue
		}
		ready, err := r.launch(s)
		if err != nil {
			return err
		}
		if ready != nil {
			readies = append(readies, ready)
		}
	}
	for _, ready := range readies {
		if err := r.await(ready); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) await(ready Syncher) error {
	if ready == nil {
		return nil
	}
	if err := ready.Wait(); err != nil {
		ctxutil.Cancel(r.ctx)
		return err
	}
	return nil
}

func (r *registry) launch(s Service) (Syncher, error) {
	ready, done, err := s.Start(r.ctx)
	if err != nil || done == nil {
		ctxutil.Cancel(r.ctx)
		if err == nil {
			return nil, fmt.Errorf("service %T does not return a done syncher", s)
		}
		return nil, fmt.Errorf("service %T: %w", s, err)
	}
	r.done[s] = done
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := done.Wait(); err != nil {
			r.lock.Lock()
			r.errs = append(r.errs, err)
			r.lock.Unlock()
		}
	}()
	return ready, nil
}

// Wait blocks until all launched services have terminated and
// reports their accumulated errors.
func (r *registry) Wait() error {
	r.wg.Wait()
	r.lock.Lock()
	defer r.lock.Unlock()
	return errors.Join(r.errs...)
}

package service

import (
	"errors"
	"sync"
)

type Syncher interface {
	SetError(err error)
	Wait() error
}

func Sync(wg *sync.WaitGroup) Syncher {
	return &syncher{
		wait: wg,
	}
}

type syncher struct {
	lock sync.Mutex
	wait *sync.WaitGroup
	err  []error
}

func (s *syncher) SetError(err error) {
	if err != nil {
		s.lock.Lock()
		defer s.lock.Unlock()
		s.err = append(s.err, err)
	}
}

func (s *syncher) Wait() error {
	s.wait.Wait()
	s.lock.Lock()
	defer s.lock.Unlock()
	return errors.Join(s.err...)
}

type Trigger interface {
	Syncher
	Trigger()
}

// SyncTrigger is a syncher released by an explicit trigger call.
// Triggering more than once is tolerated.
func SyncTrigger() Trigger {
	return &trigger{
		done: make(chan struct{}),
	}
}

type trigger struct {
	once sync.Once
	done chan struct{}
	err  error
}

var _ Trigger = (*trigger)(nil)

func (t *trigger) Trigger() {
	t.once.Do(func() { close(t.done) })
}

func (t *trigger) SetError(err error) {
	t.err = err
}

func (t *trigger) Wait() error {
	<-t.done
	return t.err
}

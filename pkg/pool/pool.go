package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mandelsoft/logging"
	"k8s.io/client-go/util/workqueue"

	"github.com/kkkkkom/ezdxf/pkg/healthz"
	"github.com/kkkkkom/ezdxf/pkg/service"
)

var REALM = logging.DefineRealm("dxf/pool", "object processing worker pool")

// Action is called by pool workers for every enqueued key. Keys are
// opaque strings, e.g. object handles or file names.
type Action interface {
	Reconcile(p Pool, key string) Status
}

type ActionFunc func(p Pool, key string) Status

func (f ActionFunc) Reconcile(p Pool, key string) Status {
	return f(p, key)
}

// Pool is a worker pool processing keys from a rate limited work
// queue.
type Pool interface {
	service.Service

	GetName() string
	QueueLength() int

	EnqueueKey(key string)
	EnqueueKeyRateLimited(key string)
	EnqueueKeyAfter(key string, duration time.Duration)
}

type pool struct {
	logging.UnboundLogger
	name      string
	size      int
	ctx       context.Context
	action    Action
	workqueue workqueue.RateLimitingInterface
	wg        *sync.WaitGroup
	ready     service.Trigger
	syncher   service.Syncher
}

var _ Pool = (*pool)(nil)

func NewPool(name string, size int, action Action) Pool {
	p := &pool{
		UnboundLogger: logging.DynamicLogger(logging.DefaultContext(), REALM, logging.NewAttribute("pool", name)),
		name:          name,
		size:          size,
		action:        action,
		wg:            &sync.WaitGroup{},
		workqueue: workqueue.NewRateLimitingQueueWithConfig(workqueue.DefaultControllerRateLimiter(), workqueue.RateLimitingQueueConfig{
			Name: name,
		}),
	}
	p.Info("created pool", "name", p.name, "size", p.size)
	return p
}

func (p *pool) GetName() string {
	return p.name
}

func (p *pool) QueueLength() int {
	return p.workqueue.Len()
}

func (p *pool) healthzKey() string {
	return fmt.Sprintf("pool %s", p.name)
}

func (p *pool) Wait() error {
	return p.syncher.Wait()
}

func (p *pool) Start(ctx context.Context) (service.Syncher, service.Syncher, error) {
	if p.syncher == nil {
		p.ctx = ctx
		p.syncher = service.Sync(p.wg)
		p.ready = service.SyncTrigger()
		go p.run()
	}
	return p.ready, p.syncher, nil
}

func (p *pool) run() {
	p.Info("starting worker pool", "name", p.name, "workers", p.size)
	healthz.Start(p.healthzKey(), tick)

	p.workqueue.AddAfter(tickCmd, tick)

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		w := newWorker(p, i)
		go func() {
			defer p.wg.Done()
			w.Run()
		}()
	}

	p.ready.Trigger()

	<-p.ctx.Done()
	p.workqueue.ShutDown()
	p.Info("waiting for pool workers to shutdown", "name", p.name)
	p.wg.Wait()
	healthz.End(p.healthzKey())
}

func (p *pool) EnqueueKey(key string) {
	p.workqueue.Add(key)
}

func (p *pool) EnqueueKeyRateLimited(key string) {
	p.workqueue.AddRateLimited(key)
}

func (p *pool) EnqueueKeyAfter(key string, duration time.Duration) {
	p.workqueue.AddAfter(key, duration)
}

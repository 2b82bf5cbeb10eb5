package pool

import (
	"strconv"
	"time"

	"github.com/mandelsoft/logging"

	"github.com/kkkkkom/ezdxf/pkg/healthz"
)

// internal command keeping the queue alive for health reporting
const tickCmd = "tick"

const tick = 30 * time.Second

type worker struct {
	logging.UnboundLogger
	pool *pool
}

func newWorker(p *pool, number int) *worker {
	return &worker{
		UnboundLogger: logging.DynamicLogger(logging.DefaultContext(), REALM,
			logging.NewAttribute("pool", p.name),
			logging.NewAttribute("worker", strconv.Itoa(number)),
		),
		pool: p,
	}
}

// Run processes queue items until the queue is shut down.
func (w *worker) Run() {
	for w.processNextItem() {
	}
	w.Debug("worker finished")
}

func (w *worker) processNextItem() bool {
	item, shutdown := w.pool.workqueue.Get()
	if shutdown {
		return false
	}
	defer w.pool.workqueue.Done(item)

	key, ok := item.(string)
	if !ok {
		w.pool.workqueue.Forget(item)
		w.Error("unexpected item in work queue", "item", item)
		return true
	}

	if key == tickCmd {
		healthz.Tick(w.pool.healthzKey())
		w.pool.workqueue.Forget(item)
		w.pool.workqueue.AddAfter(tickCmd, tick)
		return true
	}

	status := w.pool.action.Reconcile(w.pool, key)
	switch {
	case status.Error != nil:
		w.Warn("reconciliation failed", "key", key, "error", status.Error)
		if status.Completed {
			w.pool.workqueue.Forget(item)
		} else {
			w.pool.workqueue.AddRateLimited(item)
		}
	case status.Interval > 0:
		w.pool.workqueue.Forget(item)
		w.pool.workqueue.AddAfter(item, status.Interval)
	default:
		w.pool.workqueue.Forget(item)
	}
	return true
}

package pool_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/ctxutil"
	"github.com/kkkkkom/ezdxf/pkg/pool"
)

type action struct {
	lock sync.Mutex
	keys []string
	fail map[string]int
}

var _ pool.Action = (*action)(nil)

func (a *action) Reconcile(p pool.Pool, key string) pool.Status {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.keys = append(a.keys, key)
	if a.fail[key] > 0 {
		a.fail[key]--
		return pool.StatusFailed(fmt.Errorf("transient failure"))
	}
	return pool.StatusCompleted()
}

func (a *action) Keys() []string {
	a.lock.Lock()
	defer a.lock.Unlock()
	return slices.Clone(a.keys)
}

var _ = Describe("worker pool", func() {
	var ctx context.Context
	var a *action
	var p pool.Pool

	BeforeEach(func() {
		ctx = ctxutil.CancelContext(context.Background())
		a = &action{fail: map[string]int{}}
		p = pool.NewPool("test", 2, a)
	})

	AfterEach(func() {
		ctxutil.Cancel(ctx)
	})

	It("processes enqueued keys after readiness", func() {
		ready, done, err := p.Start(ctx)
		MustBeSuccessful(err)
		MustBeSuccessful(ready.Wait())

		p.EnqueueKey("A")
		p.EnqueueKey("B")
		Eventually(a.Keys).Should(ConsistOf("A", "B"))

		ctxutil.Cancel(ctx)
		MustBeSuccessful(done.Wait())
	})

	It("requeues failed keys until they succeed", func() {
		a.fail["A"] = 2
		ready, done, err := p.Start(ctx)
		MustBeSuccessful(err)
		MustBeSuccessful(ready.Wait())

		p.EnqueueKey("A")
		Eventually(a.Keys).Should(Equal([]string{"A", "A", "A"}))
		Consistently(a.Keys).Should(HaveLen(3))

		ctxutil.Cancel(ctx)
		MustBeSuccessful(done.Wait())
	})

	It("honours requested delays", func() {
		ready, done, err := p.Start(ctx)
		MustBeSuccessful(err)
		MustBeSuccessful(ready.Wait())

		p.EnqueueKeyAfter("A", 200*time.Millisecond)
		Consistently(a.Keys, "100ms").Should(BeEmpty())
		Eventually(a.Keys).Should(ConsistOf("A"))

		ctxutil.Cancel(ctx)
		MustBeSuccessful(done.Wait())
	})

	It("starts only once", func() {
		ready, done, err := p.Start(ctx)
		MustBeSuccessful(err)
		r2, d2, err := p.Start(ctx)
		MustBeSuccessful(err)
		Expect(r2).To(BeIdenticalTo(ready))
		Expect(d2).To(BeIdenticalTo(done))

		ctxutil.Cancel(ctx)
		MustBeSuccessful(done.Wait())
	})
})

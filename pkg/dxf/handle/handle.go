package handle

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Handle is a DXF entity handle, an uppercase hexadecimal number
// without leading zeros. The null handle "0" refers to no object.
type Handle string

const Null = Handle("0")

// New yields the normalized (uppercase) form for a handle value.
func New(v uint64) Handle {
	return Handle(strings.ToUpper(strconv.FormatUint(v, 16)))
}

func Parse(s string) (Handle, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 64)
	if err != nil {
		return Null, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	return New(v), nil
}

func (h Handle) IsNull() bool {
	return h == Null || h == ""
}

func (h Handle) Valid() bool {
	_, err := strconv.ParseUint(string(h), 16, 64)
	return err == nil
}

func (h Handle) Value() uint64 {
	v, _ := strconv.ParseUint(string(h), 16, 64)
	return v
}

func (h Handle) String() string {
	return strings.ToUpper(string(h))
}

// Allocator hands out unused handles. It is seeded from the
// $HANDSEED header variable and must be bumped past all handles
// found in a loaded file before new ones are issued.
type Allocator struct {
	lock sync.Mutex
	next uint64
}

func NewAllocator(seed ...Handle) *Allocator {
	a := &Allocator{next: 1}
	for _, s := range seed {
		a.Reserve(s)
	}
	return a
}

func (a *Allocator) Next() Handle {
	a.lock.Lock()
	defer a.lock.Unlock()

	h := New(a.next)
	a.next++
	return h
}

// Reserve guarantees that h is never issued again.
func (a *Allocator) Reserve(h Handle) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if v := h.Value(); v >= a.next {
		a.next = v + 1
	}
}

// Seed is the next unissued handle, suitable for $HANDSEED.
func (a *Allocator) Seed() Handle {
	a.lock.Lock()
	defer a.lock.Unlock()
	return New(a.next)
}

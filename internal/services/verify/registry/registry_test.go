package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "addrcheck/internal/platform/errors"
	kit "addrcheck/internal/platform/testkit"
	dom "addrcheck/internal/services/verify/domain"
)

const addr = dom.Address("1BoatSLRHtKNngkdXEeobR76b53LETtpyT")

func TestPutGetRemove(t *testing.T) {
	t.Parallel()
	r := New(0)

	if err := r.Put("a", addr); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := r.Get("a")
	if !ok || got != addr {
		t.Fatalf("Get = %q,%v", got, ok)
	}
	// get does not remove
	if _, ok := r.Get("a"); !ok || r.Len() != 1 {
		t.Fatal("Get should not remove the entry")
	}

	r.Remove("a")
	r.Remove("a") // idempotent
	r.Remove("never-there")
	if _, ok := r.Get("a"); ok || r.Len() != 0 {
		t.Fatal("entry should be gone after Remove")
	}
}

func TestPut_DuplicateKeyKeepsOriginal(t *testing.T) {
	t.Parallel()
	r := New(0)

	if err := r.Put("dup", addr); err != nil {
		t.Fatal(err)
	}
	err := r.Put("dup", "SomeOtherAddress00000000000000")
	if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
	if got, _ := r.Get("dup"); got != addr {
		t.Fatalf("duplicate Put overwrote entry: %q", got)
	}
}

func TestTTL_ExpiresAndFiresEvict(t *testing.T) {
	t.Parallel()
	r := New(20 * time.Millisecond)

	var evicted atomic.Value
	r.OnEvict(func(id dom.RequestID, a dom.Address) { evicted.Store(id) })

	if err := r.Put("ttl", addr); err != nil {
		t.Fatal(err)
	}
	kit.Eventually(t, time.Second, func() bool {
		_, ok := r.Get("ttl")
		return !ok
	}, "entry should expire")
	kit.Eventually(t, 3*time.Second, func() bool {
		v, _ := evicted.Load().(dom.RequestID)
		return v == "ttl"
	}, "janitor should fire the evict hook")
}

func TestOnEvict_FiresOnRemove(t *testing.T) {
	t.Parallel()
	r := New(0)

	var calls atomic.Int32
	r.OnEvict(func(id dom.RequestID, a dom.Address) {
		if id == "x" && a == addr {
			calls.Add(1)
		}
		// hook may re-enter the registry
		_ = r.Len()
	})
	_ = r.Put("x", addr)
	r.Remove("x")
	r.Remove("x")
	if calls.Load() != 1 {
		t.Fatalf("evict hook calls = %d, want 1", calls.Load())
	}
}

func TestConcurrentDistinctKeys(t *testing.T) {
	t.Parallel()
	r := New(0)

	const n = 200
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := dom.RequestID(fmt.Sprintf("id-%d", i))
			if err := r.Put(id, addr); err != nil {
				t.Errorf("Put(%s): %v", id, err)
				return
			}
			if _, ok := r.Get(id); !ok {
				t.Errorf("Get(%s) missing", id)
			}
			if i%2 == 0 {
				r.Remove(id)
			}
		}()
	}
	wg.Wait()
	if r.Len() != n/2 {
		t.Fatalf("Len = %d, want %d", r.Len(), n/2)
	}
}

func TestConcurrentSameKey_OnlyOnePutWins(t *testing.T) {
	t.Parallel()
	r := New(0)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Put("same", addr) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("successful puts = %d, want 1", wins.Load())
	}
}

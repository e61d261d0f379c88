// Package registry keeps admitted requests that await a blockchain choice or a deferred result
package registry

import (
	"time"

	perr "addrcheck/internal/platform/errors"
	dom "addrcheck/internal/services/verify/domain"

	"github.com/patrickmn/go-cache"
)

// minJanitor bounds how often expired entries are swept when a TTL is set
const minJanitor = time.Second

// Registry maps RequestID to Address. Safe for concurrent use; operations on a key are linearizable
type Registry struct {
	c *cache.Cache
}

// New returns a registry. ttl <= 0 means entries never expire
func New(ttl time.Duration) *Registry {
	if ttl <= 0 {
		return &Registry{c: cache.New(cache.NoExpiration, 0)}
	}
	return &Registry{c: cache.New(ttl, max(ttl/2, minJanitor))}
}

// Put inserts id; an existing id is never overwritten
func (r *Registry) Put(id dom.RequestID, addr dom.Address) error {
	if err := r.c.Add(string(id), addr, cache.DefaultExpiration); err != nil {
		return perr.DuplicateKeyf("request %s already registered", id)
	}
	return nil
}

// Get looks id up without removing it
func (r *Registry) Get(id dom.RequestID) (dom.Address, bool) {
	v, ok := r.c.Get(string(id))
	if !ok {
		return "", false
	}
	addr, ok := v.(dom.Address)
	return addr, ok
}

// Remove deletes id; absent ids are a no-op
func (r *Registry) Remove(id dom.RequestID) { r.c.Delete(string(id)) }

// Len reports the number of entries, including expired ones not yet swept
func (r *Registry) Len() int { return r.c.ItemCount() }

// OnEvict registers fn to run after an entry leaves the registry, by Remove or by expiry.
// fn runs outside the registry lock and may call back into it
func (r *Registry) OnEvict(fn func(id dom.RequestID, addr dom.Address)) {
	if fn == nil {
		r.c.OnEvicted(nil)
		return
	}
	r.c.OnEvicted(func(k string, v any) {
		addr, _ := v.(dom.Address)
		fn(dom.RequestID(k), addr)
	})
}

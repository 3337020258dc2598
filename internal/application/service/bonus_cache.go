package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
)

// BonusCache memoizes bonus calculations per (start, end, vendor).
// Any write to clients, vendors, invoices or assignments must call Invalidate.
// A nil *BonusCache is valid and caches nothing.
type BonusCache struct {
	store *cache.Cache

	mu         sync.Mutex
	generation uint64
}

// NewBonusCache creates a cache whose entries live for ttl
func NewBonusCache(ttl time.Duration) *BonusCache {
	return &BonusCache{store: cache.New(ttl, 2*ttl)}
}

func bonusCacheKey(start, end time.Time, vendorID *uuid.UUID) string {
	vendor := "all"
	if vendorID != nil {
		vendor = vendorID.String()
	}
	return fmt.Sprintf("bonus:%s:%s:%s", start.Format(bonus.DateLayout), end.Format(bonus.DateLayout), vendor)
}

// Get returns a cached calculation
func (c *BonusCache) Get(start, end time.Time, vendorID *uuid.UUID) (*bonus.Calculation, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.store.Get(bonusCacheKey(start, end, vendorID))
	if !ok {
		return nil, false
	}
	calc, ok := v.(*bonus.Calculation)
	return calc, ok
}

// Generation identifies the current cache contents. It changes on every
// Invalidate.
func (c *BonusCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Set stores a calculation computed while gen was current. The result is
// dropped when an Invalidate happened since gen was read.
func (c *BonusCache) Set(gen uint64, calc *bonus.Calculation) bool {
	if c == nil || calc == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.store.SetDefault(bonusCacheKey(calc.StartDate, calc.EndDate, calc.VendorID), calc)
	return true
}

// Invalidate drops every cached calculation
func (c *BonusCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.store.Flush()
}

// Len returns the number of live entries
func (c *BonusCache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.ItemCount()
}

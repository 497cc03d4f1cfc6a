package services

import (
	"sync"

	"github.com/shopspring/decimal"
)

// RateCache memoizes resolved exchange rates for the lifetime of one report run.
// The key is the currency code alone: the first successful lookup of a currency fixes the
// rate used for every later material in that currency, whatever its purchase date.
type RateCache struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewRateCache returns an empty cache.
func NewRateCache() *RateCache {
	return &RateCache{rates: make(map[string]decimal.Decimal)}
}

// Get returns the cached rate of currency.
func (c *RateCache) Get(currency string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.rates[currency]
	return rate, ok
}

// Put stores rate for currency. A second write for the same currency replaces the first.
func (c *RateCache) Put(currency string, rate decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[currency] = rate
}

// Len returns the number of cached currencies.
func (c *RateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rates)
}

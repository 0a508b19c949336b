package spamguard

import (
	"github.com/eapache/queue"

	"github.com/vkuptcov/spamguard/bloomfilter"
)

// EvictingFilter is a BoundedFilter that never refuses an address. When
// full it evicts the earliest-added surviving address from the set and the
// filter before admitting the new one.
//
// The filter has no reference counts, so clearing an evicted address's bits
// can also clear bits of retained addresses. Those addresses stay spam
// through the exact set, but the filter's answers drift over time.
type EvictingFilter struct {
	observed
	capacity int
	filter   *bloomfilter.Filter
	known    map[string]struct{}
	order    *queue.Queue
}

func NewEvictingFilter(params Params) (*EvictingFilter, error) {
	filter, err := params.newFilter()
	if err != nil {
		return nil, err
	}
	return &EvictingFilter{
		observed: newObserved(),
		capacity: params.Capacity,
		filter:   filter,
		known:    make(map[string]struct{}, params.Capacity),
		order:    queue.New(),
	}, nil
}

func (c *EvictingFilter) AddSpam(address string) (err error) {
	c.hooks.Before(AddSpam, address)
	defer func() { c.hooks.After(AddSpam, err, address) }()

	if _, exists := c.known[address]; exists {
		return nil
	}
	if len(c.known) >= c.capacity {
		c.evictOldest(address)
	}
	c.known[address] = struct{}{}
	c.order.Add(address)
	c.filter.AddString(address)
	return nil
}

func (c *EvictingFilter) IsSpam(address string) bool {
	c.hooks.Before(CheckSpam, address)
	_, exists := c.known[address]
	return c.checked(address, exists || c.filter.ContainsString(address))
}

func (c *EvictingFilter) Len() int {
	return len(c.known)
}

// Oldest returns the address that the next eviction would drop.
func (c *EvictingFilter) Oldest() (string, bool) {
	if c.order.Length() == 0 {
		return "", false
	}
	return c.order.Peek().(string), true
}

// String dumps the filter's bit array.
func (c *EvictingFilter) String() string {
	return c.filter.String()
}

func (c *EvictingFilter) evictOldest(incoming string) {
	evicted := c.order.Remove().(string)
	c.hooks.Before(Evict, evicted, incoming)
	delete(c.known, evicted)
	c.filter.RemoveString(evicted)
	c.logger("spam list is full, evicted oldest address", evicted)
	c.hooks.AfterSuccess(Evict, evicted, incoming)
}

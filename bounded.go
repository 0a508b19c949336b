package spamguard

import (
	"github.com/vkuptcov/spamguard/bloomfilter"
)

// BoundedFilter pairs an exact set capped at Params.Capacity with a Bloom
// filter. IsSpam may report false positives through the filter.
type BoundedFilter struct {
	observed
	capacity int
	filter   *bloomfilter.Filter
	known    map[string]struct{}
}

func NewBoundedFilter(params Params) (*BoundedFilter, error) {
	filter, err := params.newFilter()
	if err != nil {
		return nil, err
	}
	return &BoundedFilter{
		observed: newObserved(),
		capacity: params.Capacity,
		filter:   filter,
		known:    make(map[string]struct{}, params.Capacity),
	}, nil
}

// AddSpam stores address, or returns ErrCapacityExceeded when the set is full.
func (c *BoundedFilter) AddSpam(address string) (err error) {
	c.hooks.Before(AddSpam, address)
	defer func() { c.hooks.After(AddSpam, err, address) }()

	if _, exists := c.known[address]; exists {
		return nil
	}
	if len(c.known) >= c.capacity {
		return c.reject(address)
	}
	c.known[address] = struct{}{}
	c.filter.AddString(address)
	return nil
}

func (c *BoundedFilter) IsSpam(address string) bool {
	c.hooks.Before(CheckSpam, address)
	_, exists := c.known[address]
	return c.checked(address, exists || c.filter.ContainsString(address))
}

// Len is the number of addresses held in the exact set.
func (c *BoundedFilter) Len() int {
	return len(c.known)
}

// String dumps the filter's bit array.
func (c *BoundedFilter) String() string {
	return c.filter.String()
}

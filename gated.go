package spamguard

import (
	"github.com/vkuptcov/spamguard/bloomfilter"
	"github.com/vkuptcov/spamguard/skiplist"
)

// GatedList keeps every address in both a Bloom filter and a skip list.
// Lookups consult the filter first and confirm hits against the list, so a
// filter miss never touches the list and a filter false positive is caught.
type GatedList struct {
	observed
	capacity int
	filter   *bloomfilter.Filter
	list     *skiplist.SkipList
}

func NewGatedList(params Params, opts ...skiplist.Option) (*GatedList, error) {
	filter, err := params.newFilter()
	if err != nil {
		return nil, err
	}
	return &GatedList{
		observed: newObserved(),
		capacity: params.Capacity,
		filter:   filter,
		list:     skiplist.New(params.MaxLevel, opts...),
	}, nil
}

// AddSpam stores address while fewer than Params.Capacity addresses are held.
func (c *GatedList) AddSpam(address string) (err error) {
	c.hooks.Before(AddSpam, address)
	defer func() { c.hooks.After(AddSpam, err, address) }()

	if c.list.Search(address) {
		return nil
	}
	if c.list.Len() >= c.capacity {
		return c.reject(address)
	}
	c.list.Insert(address)
	c.filter.AddString(address)
	return nil
}

func (c *GatedList) IsSpam(address string) bool {
	c.hooks.Before(CheckSpam, address)
	if !c.filter.ContainsString(address) {
		return c.checked(address, false)
	}
	return c.checked(address, c.list.Search(address))
}

func (c *GatedList) Len() int {
	return c.list.Len()
}

// String dumps the filter's bit array followed by the list, level by level.
func (c *GatedList) String() string {
	return c.filter.String() + "\n" + c.list.String()
}

package spamguard

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vkuptcov/spamguard/bloomfilter"
	"github.com/vkuptcov/spamguard/skiplist"
)

// HashStrategy names the hashing scheme used by a classifier's filter.
type HashStrategy string

const (
	SHA256Hashing    HashStrategy = "sha256"
	LocationsHashing HashStrategy = "locations"
)

const (
	DefaultFilterSize = 1438
	DefaultHashCount  = 10
	DefaultCapacity   = 100
	DefaultMaxLevel   = 16
)

// Params configures every classifier. MaxLevel is only read by GatedList.
type Params struct {
	FilterSize uint         `yaml:"filter_size"`
	HashCount  uint         `yaml:"hash_count"`
	Capacity   int          `yaml:"capacity"`
	MaxLevel   int          `yaml:"max_level"`
	Hashing    HashStrategy `yaml:"hashing"`
}

func DefaultParams() Params {
	return Params{
		FilterSize: DefaultFilterSize,
		HashCount:  DefaultHashCount,
		Capacity:   DefaultCapacity,
		MaxLevel:   DefaultMaxLevel,
		Hashing:    SHA256Hashing,
	}
}

// ParamsWithEstimates sizes the filter so that capacity entries give a false
// positive rate close to falsePositives.
func ParamsWithEstimates(capacity int, falsePositives float64) Params {
	p := DefaultParams()
	p.Capacity = capacity
	if capacity > 0 && falsePositives > 0 && falsePositives < 1 {
		p.FilterSize, p.HashCount = bloomfilter.EstimateParameters(uint(capacity), falsePositives)
	}
	return p
}

// Validate reports every invalid field at once.
func (p Params) Validate() error {
	var result *multierror.Error
	if p.FilterSize == 0 {
		result = multierror.Append(result, errors.New("filter size must be positive"))
	}
	if p.HashCount == 0 {
		result = multierror.Append(result, errors.New("hash count must be positive"))
	}
	if p.Capacity <= 0 {
		result = multierror.Append(result, errors.Errorf("capacity must be positive, got %d", p.Capacity))
	}
	if p.MaxLevel < 0 || p.MaxLevel > skiplist.MaxAllowedLevel {
		result = multierror.Append(result, errors.Errorf(
			"max level must be within [0, %d], got %d", skiplist.MaxAllowedLevel, p.MaxLevel,
		))
	}
	switch p.Hashing {
	case "", SHA256Hashing, LocationsHashing:
	default:
		result = multierror.Append(result, errors.Errorf("unknown hashing strategy %q", p.Hashing))
	}
	return result.ErrorOrNil()
}

// ExpectedFalsePositiveRate is the analytic rate once Capacity entries are stored.
func (p Params) ExpectedFalsePositiveRate() float64 {
	return bloomfilter.FalsePositiveRate(p.FilterSize, p.HashCount, uint(p.Capacity))
}

func (p Params) hasher() bloomfilter.Hasher {
	if p.Hashing == LocationsHashing {
		return bloomfilter.LocationsHasher{}
	}
	return bloomfilter.SHA256Hasher{}
}

func (p Params) newFilter() (*bloomfilter.Filter, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid classifier parameters")
	}
	return bloomfilter.New(p.FilterSize, p.HashCount, bloomfilter.WithHasher(p.hasher()))
}

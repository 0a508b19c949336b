// Package bloomfilter implements a fixed-size Bloom filter over a bit array
// with a pluggable hashing strategy.
//
// The filter never resizes. Remove clears bits without reference counting,
// so removing one item can produce false negatives for any other item that
// shares all of its bits with the cleared ones.
package bloomfilter

import (
	"math"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

var (
	ErrZeroSize   = errors.New("bloomfilter: size must be positive")
	ErrZeroHashes = errors.New("bloomfilter: hash count must be positive")
)

type Filter struct {
	size      uint
	hashCount uint
	bits      *bitset.BitSet
	hasher    Hasher
}

type Option func(f *Filter)

// WithHasher replaces the default SHA256Hasher.
func WithHasher(h Hasher) Option {
	return func(f *Filter) {
		if h != nil {
			f.hasher = h
		}
	}
}

func New(size, hashCount uint, opts ...Option) (*Filter, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	if hashCount == 0 {
		return nil, ErrZeroHashes
	}
	f := &Filter{
		size:      size,
		hashCount: hashCount,
		bits:      bitset.New(size),
		hasher:    SHA256Hasher{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Filter) Add(item []byte) *Filter {
	for _, offset := range f.offsets(item) {
		f.bits.Set(uint(offset))
	}
	return f
}

func (f *Filter) AddString(item string) *Filter {
	return f.Add([]byte(item))
}

// Remove clears every bit the item maps to. Any other item sharing one of
// those bits will stop being reported by Contains.
func (f *Filter) Remove(item []byte) *Filter {
	for _, offset := range f.offsets(item) {
		f.bits.Clear(uint(offset))
	}
	return f
}

func (f *Filter) RemoveString(item string) *Filter {
	return f.Remove([]byte(item))
}

func (f *Filter) Contains(item []byte) bool {
	for _, offset := range f.offsets(item) {
		if !f.bits.Test(uint(offset)) {
			return false
		}
	}
	return true
}

func (f *Filter) ContainsString(item string) bool {
	return f.Contains([]byte(item))
}

func (f *Filter) Cap() uint {
	return f.size
}

func (f *Filter) HashCount() uint {
	return f.hashCount
}

func (f *Filter) BitCount() uint {
	return f.bits.Count()
}

func (f *Filter) FillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.size)
}

// EstimatedFalsePositiveRate is the probability that an item never added
// hits k set bits given the current fill ratio.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return math.Pow(f.FillRatio(), float64(f.hashCount))
}

// String renders the bit array as a run of 0 and 1 characters.
func (f *Filter) String() string {
	var sb strings.Builder
	sb.Grow(int(f.size))
	for i := uint(0); i < f.size; i++ {
		if f.bits.Test(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (f *Filter) offsets(item []byte) []uint64 {
	return f.hasher.Offsets(item, f.hashCount, f.size)
}

package bloomfilter

import (
	"crypto/sha256"
	"math/bits"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
)

// Hasher maps an item to hashCount bit offsets, each in [0, size).
// The same item must always produce the same offsets.
type Hasher interface {
	Offsets(item []byte, hashCount, size uint) []uint64
}

// SHA256Hasher derives the i-th offset from sha256(item || decimal(i)),
// reading the whole digest as a big-endian integer reduced modulo size.
type SHA256Hasher struct{}

func (SHA256Hasher) Offsets(item []byte, hashCount, size uint) []uint64 {
	offsets := make([]uint64, hashCount)
	buf := make([]byte, 0, len(item)+20)
	for seed := uint(0); seed < hashCount; seed++ {
		buf = append(buf[:0], item...)
		buf = strconv.AppendUint(buf, uint64(seed), 10)
		sum := sha256.Sum256(buf)
		offsets[seed] = reduce(sum[:], uint64(size))
	}
	return offsets
}

// reduce computes int(digest) mod size one byte at a time.
func reduce(digest []byte, size uint64) uint64 {
	var r uint64
	for _, b := range digest {
		hi, lo := bits.Mul64(r, 256)
		var carry uint64
		lo, carry = bits.Add64(lo, uint64(b), 0)
		r = bits.Rem64(hi+carry, lo, size)
	}
	return r
}

// LocationsHasher uses the murmur3 double hashing of bits-and-blooms/bloom.
type LocationsHasher struct{}

func (LocationsHasher) Offsets(item []byte, hashCount, size uint) []uint64 {
	locations := bloom.Locations(item, hashCount)
	for idx, l := range locations {
		locations[idx] = l % uint64(size)
	}
	return locations
}

var _ Hasher = SHA256Hasher{}
var _ Hasher = LocationsHasher{}

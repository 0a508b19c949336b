// Package skiplist provides an ordered set of strings backed by a skip list.
//
// Nodes live in an arena and link to each other by index. Slot 0 is the
// head sentinel; it never holds a value. Removed slots are recycled by later
// inserts. A SkipList is not safe for concurrent use.
package skiplist

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	headIndex int32 = 0
	nilIndex  int32 = -1
)

// MaxAllowedLevel bounds the height of any list. With a fair coin a list
// needs about 2^64 values before a node reaches it.
const MaxAllowedLevel = 64

type node struct {
	value string
	next  []int32
}

type SkipList struct {
	maxLevel    int
	level       int
	length      int
	probability float64

	nodes   []node
	free    []int32
	compare func(a, b string) int
	rnd     *rand.Rand
}

type Option func(sl *SkipList)

// WithRand sets the source used for node heights. Tests pass a seeded one.
func WithRand(rnd *rand.Rand) Option {
	return func(sl *SkipList) {
		if rnd != nil {
			sl.rnd = rnd
		}
	}
}

// WithCompare sets the ordering. It must be a total order; the default is
// strings.Compare.
func WithCompare(compare func(a, b string) int) Option {
	return func(sl *SkipList) {
		if compare != nil {
			sl.compare = compare
		}
	}
}

// WithProbability sets the chance of promoting a node one more level.
// Values outside (0, 1) are ignored.
func WithProbability(p float64) Option {
	return func(sl *SkipList) {
		if p > 0 && p < 1 {
			sl.probability = p
		}
	}
}

// New creates an empty list whose nodes never exceed maxLevel. maxLevel is
// clamped to [0, MaxAllowedLevel]; 0 degrades the list to a sorted linked list.
func New(maxLevel int, opts ...Option) *SkipList {
	if maxLevel < 0 {
		maxLevel = 0
	}
	if maxLevel > MaxAllowedLevel {
		maxLevel = MaxAllowedLevel
	}
	sl := &SkipList{
		maxLevel:    maxLevel,
		probability: 0.5,
		nodes:       []node{{next: []int32{nilIndex}}},
		compare:     strings.Compare,
	}
	for _, opt := range opts {
		opt(sl)
	}
	if sl.rnd == nil {
		sl.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return sl
}

func (sl *SkipList) Len() int {
	return sl.length
}

// Level is the highest level that currently holds a node.
func (sl *SkipList) Level() int {
	return sl.level
}

func (sl *SkipList) MaxLevel() int {
	return sl.maxLevel
}

// randomLevel counts coin flips that come up heads before the first tail.
func (sl *SkipList) randomLevel() int {
	level := 0
	for level < sl.maxLevel && sl.rnd.Float64() < sl.probability {
		level++
	}
	return level
}

// Insert adds value and reports whether it was absent.
func (sl *SkipList) Insert(value string) bool {
	update := make([]int32, sl.level+1)
	candidate := sl.descend(value, update)
	if candidate != nilIndex && sl.compare(sl.nodes[candidate].value, value) == 0 {
		return false
	}

	height := sl.randomLevel()
	if height > sl.level {
		head := &sl.nodes[headIndex]
		for len(head.next) <= height {
			head.next = append(head.next, nilIndex)
		}
		for len(update) <= height {
			update = append(update, headIndex)
		}
		sl.level = height
	}

	idx := sl.alloc(value, height)
	for l := 0; l <= height; l++ {
		prev := &sl.nodes[update[l]]
		sl.nodes[idx].next[l] = prev.next[l]
		prev.next[l] = idx
	}
	sl.length++
	return true
}

func (sl *SkipList) Search(value string) bool {
	candidate := sl.descend(value, nil)
	return candidate != nilIndex && sl.compare(sl.nodes[candidate].value, value) == 0
}

// Remove deletes value and reports whether it was present. Removing an
// absent value leaves the list untouched.
func (sl *SkipList) Remove(value string) bool {
	update := make([]int32, sl.level+1)
	candidate := sl.descend(value, update)
	if candidate == nilIndex || sl.compare(sl.nodes[candidate].value, value) != 0 {
		return false
	}

	target := sl.nodes[candidate]
	for l := range target.next {
		prev := &sl.nodes[update[l]]
		if prev.next[l] == candidate {
			prev.next[l] = target.next[l]
		}
	}
	head := sl.nodes[headIndex]
	for sl.level > 0 && head.next[sl.level] == nilIndex {
		sl.level--
	}
	sl.release(candidate)
	sl.length--
	return true
}

// Values returns every value in ascending order.
func (sl *SkipList) Values() []string {
	return sl.LevelValues(0)
}

// LevelValues returns the values linked at level l in order, or nil when
// the level is not populated.
func (sl *SkipList) LevelValues(l int) []string {
	if l < 0 || l > sl.level {
		return nil
	}
	values := make([]string, 0, sl.length)
	for idx := sl.nodes[headIndex].next[l]; idx != nilIndex; idx = sl.nodes[idx].next[l] {
		values = append(values, sl.nodes[idx].value)
	}
	return values
}

// String renders one line per populated level, top level first.
func (sl *SkipList) String() string {
	var sb strings.Builder
	for l := sl.level; l >= 0; l-- {
		sb.WriteString("Level ")
		sb.WriteString(strconv.Itoa(l))
		sb.WriteString(":")
		for _, v := range sl.LevelValues(l) {
			sb.WriteByte(' ')
			sb.WriteString(v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// descend walks from the top level to level 0 and returns the level 0
// successor of the last slot whose value is below the target. When update
// is non-nil it must hold sl.level+1 entries and receives that slot per level.
func (sl *SkipList) descend(value string, update []int32) int32 {
	current := headIndex
	for l := sl.level; l >= 0; l-- {
		for {
			next := sl.nodes[current].next[l]
			if next == nilIndex || sl.compare(sl.nodes[next].value, value) >= 0 {
				break
			}
			current = next
		}
		if update != nil {
			update[l] = current
		}
	}
	return sl.nodes[current].next[0]
}

func (sl *SkipList) alloc(value string, height int) int32 {
	next := make([]int32, height+1)
	for l := range next {
		next[l] = nilIndex
	}
	if n := len(sl.free); n > 0 {
		idx := sl.free[n-1]
		sl.free = sl.free[:n-1]
		sl.nodes[idx] = node{value: value, next: next}
		return idx
	}
	sl.nodes = append(sl.nodes, node{value: value, next: next})
	return int32(len(sl.nodes) - 1)
}

func (sl *SkipList) release(idx int32) {
	sl.nodes[idx] = node{}
	sl.free = append(sl.free, idx)
}

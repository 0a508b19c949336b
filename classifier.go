// Package spamguard classifies email addresses as spam by composing a Bloom
// filter with an exact structure.
//
// Three policies are available:
//
//   - BoundedFilter keeps an exact set of at most Params.Capacity addresses
//     next to the filter and refuses new addresses once full.
//   - GatedList keeps a skip list next to the filter. The filter answers
//     first and only a filter hit pays for the exact list search, so it
//     reports no false positives.
//   - EvictingFilter behaves like BoundedFilter but, once full, drops the
//     oldest address from both the set and the filter. Filter removal may
//     clear bits still used by other addresses, so its accuracy degrades as
//     evictions accumulate.
//
// Classifiers are not safe for concurrent use; serialize access per instance.
package spamguard

import (
	"github.com/pkg/errors"
)

// ErrCapacityExceeded is returned, wrapped, when a bounded classifier has no
// room for a new address. The address is not admitted.
var ErrCapacityExceeded = errors.New("spam list is full")

type Classifier interface {
	// AddSpam marks address as spam. Adding a known address is a no-op.
	AddSpam(address string) error
	// IsSpam reports whether address is classified as spam.
	IsSpam(address string) bool
}

// observed carries the logger and hooks shared by every classifier.
type observed struct {
	logger Logger
	hooks  *Hooks
}

func newObserved() observed {
	return observed{
		logger: NopLogger,
		hooks:  NewHooks(),
	}
}

func (o *observed) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger
	}
	o.logger = logger
}

func (o *observed) SetHooks(hooks *Hooks) {
	if hooks == nil {
		hooks = NewHooks()
	}
	o.hooks = hooks
}

func (o *observed) reject(address string) error {
	o.hooks.Before(Reject, address)
	err := errors.Wrapf(ErrCapacityExceeded, "address %q not admitted", address)
	o.logger("spam list is full, can't add new address", address)
	o.hooks.After(Reject, err, address)
	return err
}

func (o *observed) checked(address string, verdict bool) bool {
	o.hooks.AfterSuccess(CheckSpam, address, verdict)
	return verdict
}

var (
	_ Classifier = &BoundedFilter{}
	_ Classifier = &GatedList{}
	_ Classifier = &EvictingFilter{}
)

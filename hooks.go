package spamguard

import (
	"fmt"
	"sync"
)

// Stage names a classifier event that hooks can observe.
type Stage int

const (
	Default Stage = iota
	// AddSpam wraps every AddSpam call. Args: address.
	AddSpam
	// CheckSpam wraps every IsSpam call. Args: address, verdict (After only).
	CheckSpam
	// Reject fires when an address is refused because the classifier is full. Args: address.
	Reject
	// Evict fires when the oldest entry is dropped to make room. Args: evicted, incoming.
	Evict
)

var stageNames = [...]string{
	"Default",
	"AddSpam",
	"CheckSpam",
	"Reject",
	"Evict",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", s)
	}
	return stageNames[s]
}

// Hook observes a single Stage. Classifiers call Before with the stage's
// arguments and then exactly one of After, AfterSuccess or AfterFail:
//
//	AddSpam    address; After carries the error AddSpam returns
//	CheckSpam  address; AfterSuccess appends the verdict as a bool
//	Reject     address; AfterFail carries ErrCapacityExceeded
//	Evict      evicted address, incoming address
type Hook interface {
	GetStage() Stage
	Before(args ...interface{})
	After(optionalErr error, args ...interface{})
	AfterSuccess(args ...interface{})
	AfterFail(err error, args ...interface{})
}

// HookImpl builds a Hook from optional callbacks; nil callbacks are skipped.
// After dispatches to AfterFailFn when optionalErr is non-nil and to
// AfterSuccessFn otherwise.
type HookImpl struct {
	Stage          Stage
	BeforeFn       func(args ...interface{})
	AfterSuccessFn func(args ...interface{})
	AfterFailFn    func(err error, args ...interface{})
}

func (h *HookImpl) GetStage() Stage {
	return h.Stage
}

func (h *HookImpl) Before(args ...interface{}) {
	if h.BeforeFn != nil {
		h.BeforeFn(args...)
	}
}

func (h *HookImpl) After(optionalErr error, args ...interface{}) {
	if optionalErr != nil {
		h.AfterFail(optionalErr, args...)
	} else {
		h.AfterSuccess(args...)
	}
}

func (h *HookImpl) AfterSuccess(args ...interface{}) {
	if h.AfterSuccessFn != nil {
		h.AfterSuccessFn(args...)
	}
}

func (h *HookImpl) AfterFail(err error, args ...interface{}) {
	if h.AfterFailFn != nil {
		h.AfterFailFn(err, args...)
	}
}

// Hooks routes classifier events to the hook registered for each stage.
// Hooks observe; they never change a classification.
type Hooks struct {
	hooks        map[Stage]Hook
	hooksFactory func(stage Stage) Hook
	mu           *sync.RWMutex
}

func NewHooks(hooks ...Hook) *Hooks {
	return NewHooksWithDefault(noOpHookInst, hooks...)
}

func NewHooksWithDefault(defaultHook Hook, hooks ...Hook) *Hooks {
	return NewHooksWithFactory(
		func(stage Stage) Hook {
			return defaultHook
		},
		hooks...,
	)
}

func NewHooksWithFactory(defaultHookFactory func(stage Stage) Hook, hooks ...Hook) *Hooks {
	hs := &Hooks{
		hooks:        make(map[Stage]Hook, len(hooks)),
		hooksFactory: defaultHookFactory,
		mu:           &sync.RWMutex{},
	}
	for _, h := range hooks {
		hs.hooks[h.GetStage()] = h
	}
	return hs
}

// TraceHooks logs the start and outcome of every stage through logger.
func TraceHooks(logger Logger) *Hooks {
	return NewHooksWithFactory(func(stage Stage) Hook {
		name := stage.String()
		return &HookImpl{
			Stage: stage,
			BeforeFn: func(args ...interface{}) {
				logger(append([]interface{}{name, "begin"}, args...)...)
			},
			AfterSuccessFn: func(args ...interface{}) {
				logger(append([]interface{}{name, "done"}, args...)...)
			},
			AfterFailFn: func(err error, args ...interface{}) {
				logger(append([]interface{}{name, "failed:", err}, args...)...)
			},
		}
	})
}

// Register replaces the hook for h's stage.
func (hs *Hooks) Register(h Hook) *Hooks {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.hooks[h.GetStage()] = h
	return hs
}

func (hs *Hooks) Before(stage Stage, args ...interface{}) {
	hs.getHook(stage).Before(args...)
}

func (hs *Hooks) After(stage Stage, optionalErr error, args ...interface{}) {
	hs.getHook(stage).After(optionalErr, args...)
}

func (hs *Hooks) AfterSuccess(stage Stage, args ...interface{}) {
	hs.getHook(stage).AfterSuccess(args...)
}

func (hs *Hooks) AfterFail(stage Stage, err error, args ...interface{}) {
	hs.getHook(stage).AfterFail(err, args...)
}

func (hs *Hooks) getHook(stage Stage) Hook {
	hs.mu.RLock()
	if h, exists := hs.hooks[stage]; exists {
		hs.mu.RUnlock()
		return h
	}
	hs.mu.RUnlock()
	if hs.hooksFactory != nil {
		hs.mu.Lock()
		defer hs.mu.Unlock()
		if h, exists := hs.hooks[stage]; exists {
			return h
		}
		h := hs.hooksFactory(stage)
		hs.hooks[stage] = h
		return h
	}
	return noOpHookInst
}

var noOpHookInst = noOpHook{}

type noOpHook struct {
}

func (n noOpHook) GetStage() Stage {
	return Default
}

func (n noOpHook) Before(args ...interface{}) {}

func (n noOpHook) After(optionalErr error, args ...interface{}) {}

func (n noOpHook) AfterSuccess(args ...interface{}) {}

func (n noOpHook) AfterFail(err error, args ...interface{}) {}

var _ Hook = &HookImpl{}
var _ Hook = noOpHook{}

package event

import (
	"sync"

	"github.com/auroralens/aurora-go/stream"
)

// SlotKey names a logical stream family that admits at most one live
// handler per Manager.
type SlotKey string

// Slot keys for the built-in exclusive stream families.
const (
	SlotTranscription SlotKey = "transcription"
	SlotTranslation   SlotKey = "translation"
)

// slotBinder retains at most one live cleanup token per slot key.
// Installing a new binding invokes and discards the previous token
// first. Binds are serialized, so two concurrent binds for the same key
// can never leave two simultaneously active handlers.
type slotBinder struct {
	mu       sync.Mutex
	bindings map[SlotKey]CleanupFunc
}

func newSlotBinder() *slotBinder {
	return &slotBinder{bindings: make(map[SlotKey]CleanupFunc)}
}

// bind runs compute to validate and resolve the concrete stream
// identifier first; on failure the previous binding is left untouched.
// Otherwise the old token is invoked, register installs the new
// handler, and its token becomes the binding.
func (b *slotBinder) bind(key SlotKey, compute func() (stream.Type, error), register func(stream.Type) CleanupFunc) (CleanupFunc, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := compute()
	if err != nil {
		return nil, err
	}

	if prev := b.bindings[key]; prev != nil {
		prev()
	}
	cleanup := register(t)
	b.bindings[key] = cleanup
	return cleanup, nil
}

package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/types"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m := NewManager(opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Stop(ctx)
	})
	return m
}

func TestManagerEmitNoHandlers(t *testing.T) {
	m := newTestManager(t)
	// Must return without doing anything.
	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})
}

func TestManagerEmitDeliversToAll(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	var got []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		m.OnFunc(stream.ButtonPress, func(_ context.Context, payload any) error {
			mu.Lock()
			got = append(got, name)
			mu.Unlock()
			return nil
		})
	}

	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Errorf("expected 3 deliveries, got %d: %v", len(got), got)
	}
}

func TestManagerHandlerFailureIsolation(t *testing.T) {
	var mu sync.Mutex
	var failures []error
	m := newTestManager(t, WithErrorHandler(func(_ stream.Type, err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}))

	var delivered sync.WaitGroup
	delivered.Add(2)
	m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		delivered.Done()
		return nil
	})
	m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		return errors.New("handler blew up")
	})
	m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		delivered.Done()
		return nil
	})

	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})
	delivered.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(failures) != 1 {
		t.Fatalf("expected 1 reported failure, got %d", len(failures))
	}
	var herr *HandlerError
	if !errors.As(failures[0], &herr) {
		t.Fatalf("expected *HandlerError, got %T", failures[0])
	}
	if herr.Stream != stream.ButtonPress {
		t.Errorf("expected failure on button_press, got %s", herr.Stream)
	}
}

func TestManagerPanickingHandlerIsolation(t *testing.T) {
	var mu sync.Mutex
	var failures []error
	m := newTestManager(t, WithErrorHandler(func(_ stream.Type, err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
	}))

	var survivorRan bool
	m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		panic("boom")
	})
	m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		mu.Lock()
		survivorRan = true
		mu.Unlock()
		return nil
	})

	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})

	mu.Lock()
	defer mu.Unlock()
	if !survivorRan {
		t.Error("surviving handler did not run")
	}
	if len(failures) != 1 {
		t.Errorf("expected 1 reported failure, got %d", len(failures))
	}
}

func TestManagerCleanupStopsDelivery(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	var count int
	token := m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})
	token()
	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "b"})

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected 1 delivery, got %d", count)
	}
}

func TestManagerTypedPayloadDelivery(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	var presses []types.ButtonPress
	m.OnButtonPress(func(_ context.Context, data types.ButtonPress) error {
		mu.Lock()
		presses = append(presses, data)
		mu.Unlock()
		return nil
	})

	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a", PressType: "short"})
	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "b", PressType: "long"})

	mu.Lock()
	defer mu.Unlock()
	if len(presses) != 2 {
		t.Fatalf("expected 2 presses, got %d", len(presses))
	}
	if presses[0].ButtonID != "a" || presses[0].PressType != "short" {
		t.Errorf("first press corrupted: %+v", presses[0])
	}
	if presses[1].ButtonID != "b" || presses[1].PressType != "long" {
		t.Errorf("second press corrupted: %+v", presses[1])
	}
}

func TestManagerTypedSkipsMismatchedPayloads(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	var count int
	m.OnButtonPress(func(context.Context, types.ButtonPress) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	m.Emit(context.Background(), stream.ButtonPress, "not a button press")

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("handler ran for mismatched payload type")
	}
}

func TestManagerAsyncMode(t *testing.T) {
	m := newTestManager(t)

	done := make(chan struct{})
	m.OnAsync(stream.ButtonPress, HandlerFunc(func(context.Context, any) error {
		close(done)
		return nil
	}))

	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}
}

func TestManagerInvalidRegistration(t *testing.T) {
	m := newTestManager(t)

	token := m.On(stream.ButtonPress, nil)
	token() // no-op token must be callable

	token = m.On("", noopHandler())
	token()

	token = m.OnFunc(stream.ButtonPress, nil)
	token()

	if got := m.Registry().Count(stream.ButtonPress); got != 0 {
		t.Errorf("nil handler was registered: %d", got)
	}
}

func TestManagerTranscriptionSlotRebinds(t *testing.T) {
	m := newTestManager(t)

	handler := func(context.Context, types.TranscriptionData) error { return nil }

	if _, err := m.OnTranscriptionForLanguage("es-ES", handler); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	if got := m.Registry().Count(stream.Type("transcription:es-ES")); got != 1 {
		t.Fatalf("expected es-ES handler, got %d", got)
	}

	if _, err := m.OnTranscriptionForLanguage("en-US", handler); err != nil {
		t.Fatalf("second bind: %v", err)
	}
	if got := m.Registry().Count(stream.Type("transcription:es-ES")); got != 0 {
		t.Errorf("previous binding survived rebind: %d", got)
	}
	if got := m.Registry().Count(stream.Type("transcription:en-US")); got != 1 {
		t.Errorf("expected en-US handler, got %d", got)
	}
}

func TestManagerSlotRejectsInvalidLanguage(t *testing.T) {
	m := newTestManager(t)

	handler := func(context.Context, types.TranscriptionData) error { return nil }

	if _, err := m.OnTranscriptionForLanguage("en-US", handler); err != nil {
		t.Fatalf("bind: %v", err)
	}

	_, err := m.OnTranscriptionForLanguage("xyz", handler)
	if !errors.Is(err, stream.ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}

	// The failed bind must leave the prior binding intact.
	if got := m.Registry().Count(stream.Type("transcription:en-US")); got != 1 {
		t.Errorf("prior binding lost after failed rebind: %d", got)
	}
}

func TestManagerTranslationSlot(t *testing.T) {
	m := newTestManager(t)

	handler := func(context.Context, types.TranslationData) error { return nil }

	if _, err := m.OnTranslationForLanguage("es-ES", "en-US", handler); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, err := m.OnTranslationForLanguage("fr-FR", "en-US", handler); err != nil {
		t.Fatalf("rebind: %v", err)
	}

	if got := m.Registry().Count(stream.Type("translation:es-ES:en-US")); got != 0 {
		t.Errorf("previous translation binding survived: %d", got)
	}
	if got := m.Registry().Count(stream.Type("translation:fr-FR:en-US")); got != 1 {
		t.Errorf("expected fr-FR binding, got %d", got)
	}

	// The transcription slot is independent of the translation slot.
	if _, err := m.OnTranscriptionForLanguage("en-US", func(context.Context, types.TranscriptionData) error { return nil }); err != nil {
		t.Fatalf("transcription bind: %v", err)
	}
	if got := m.Registry().Count(stream.Type("translation:fr-FR:en-US")); got != 1 {
		t.Errorf("translation binding disturbed by transcription bind: %d", got)
	}
}

func TestManagerCustomMessageActionFilter(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	var got []any
	m.OnCustomMessage("ping", func(_ context.Context, payload any) error {
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
		return nil
	})

	m.Emit(context.Background(), stream.CustomMessage, types.CustomMessage{Action: "ping", Payload: "one"})
	m.Emit(context.Background(), stream.CustomMessage, types.CustomMessage{Action: "pong", Payload: "two"})
	m.Emit(context.Background(), stream.CustomMessage, types.CustomMessage{Action: "ping", Payload: "three"})

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected 2 matching messages, got %d", len(got))
	}
	if got[0] != "one" || got[1] != "three" {
		t.Errorf("wrong payloads: %v", got)
	}
}

func TestManagerSettingChange(t *testing.T) {
	m := newTestManager(t)

	type change struct{ value, previous any }
	var mu sync.Mutex
	var changes []change
	m.OnSettingChange("brightness", func(_ context.Context, value, previous any) error {
		mu.Lock()
		changes = append(changes, change{value, previous})
		mu.Unlock()
		return nil
	})

	emit := func(v any) {
		m.Emit(context.Background(), stream.SettingsUpdate, []types.Setting{{Key: "brightness", Value: v}})
	}

	emit(50)
	emit(50) // unchanged, must not fire
	emit(80)
	m.Emit(context.Background(), stream.SettingsUpdate, []types.Setting{{Key: "volume", Value: 10}})

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %v", len(changes), changes)
	}
	if changes[0].value != 50 || changes[0].previous != nil {
		t.Errorf("first change wrong: %+v", changes[0])
	}
	if changes[1].value != 80 || changes[1].previous != 50 {
		t.Errorf("second change wrong: %+v", changes[1])
	}
}

func TestManagerSettingChangeFromConnectionAck(t *testing.T) {
	m := newTestManager(t)

	var mu sync.Mutex
	var fired bool
	m.OnSettingChange("theme", func(context.Context, any, any) error {
		mu.Lock()
		fired = true
		mu.Unlock()
		return nil
	})

	ack := &types.ConnectionAck{Settings: []types.Setting{{Key: "theme", Value: "dark"}}}
	m.Emit(context.Background(), stream.Connected, ack)

	mu.Lock()
	defer mu.Unlock()
	if !fired {
		t.Error("setting change did not fire from connection ack settings")
	}
}

func TestManagerStopTwice(t *testing.T) {
	m := NewManager()

	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := m.Stop(context.Background()); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("expected ErrManagerClosed, got %v", err)
	}
}

func TestManagerEmitAfterStop(t *testing.T) {
	m := NewManager()
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	done := make(chan struct{})
	m.OnFunc(stream.ButtonPress, func(context.Context, any) error {
		close(done)
		return nil
	})
	m.Emit(context.Background(), stream.ButtonPress, types.ButtonPress{ButtonID: "a"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery after stop never happened")
	}
}

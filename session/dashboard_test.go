package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/transport"
	"github.com/auroralens/aurora-go/types"
)

func TestDashboardWriteOffline(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	if err := s.Dashboard().Write("hello"); !errors.Is(err, transport.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := s.Dashboard().WriteToExpanded("hello"); !errors.Is(err, transport.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestSystemDashboardOffline(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	d := s.SystemDashboard()
	if err := d.SetTopLeft("clock"); !errors.Is(err, transport.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := d.SetViewMode(types.DashboardModeExpanded); !errors.Is(err, transport.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestDashboardOnModeChange(t *testing.T) {
	s := New(testConfig())
	defer s.Close()

	modes := make(chan string, 1)
	cleanup := s.Dashboard().OnModeChange(func(_ context.Context, mode string) error {
		modes <- mode
		return nil
	})
	defer cleanup()

	s.Events().Emit(context.Background(), stream.DashboardModeChanged, types.DashboardModeExpanded)

	select {
	case mode := <-modes:
		if mode != types.DashboardModeExpanded {
			t.Errorf("expected %q, got %q", types.DashboardModeExpanded, mode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mode change never delivered")
	}
}

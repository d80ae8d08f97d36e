package session

import (
	"context"

	"github.com/auroralens/aurora-go/event"
	"github.com/auroralens/aurora-go/stream"
	"github.com/auroralens/aurora-go/types"
)

// Dashboard sends dashboard content for this session. Obtain it from
// Session.Dashboard.
type Dashboard struct {
	s *Session
}

// Dashboard returns the dashboard content sender for this session.
func (s *Session) Dashboard() *Dashboard {
	return &Dashboard{s: s}
}

// Write sends content to the given dashboard modes. With no modes it
// targets the main dashboard.
func (d *Dashboard) Write(content string, modes ...string) error {
	if len(modes) == 0 {
		modes = []string{types.DashboardModeMain}
	}
	return d.s.send(types.DashboardContentUpdate{
		Type:        types.MsgDashboardContentUpdate,
		PackageName: d.s.cfg.PackageName,
		Content:     content,
		Modes:       modes,
	})
}

// WriteToMain sends content to the main dashboard mode.
func (d *Dashboard) WriteToMain(content string) error {
	return d.Write(content, types.DashboardModeMain)
}

// WriteToExpanded sends content to the expanded dashboard mode.
func (d *Dashboard) WriteToExpanded(content string) error {
	return d.Write(content, types.DashboardModeExpanded)
}

// OnModeChange registers a handler for dashboard mode changes. The
// handler receives the new mode name.
func (d *Dashboard) OnModeChange(fn func(ctx context.Context, mode string) error) event.CleanupFunc {
	return d.s.events.On(stream.DashboardModeChanged, event.Typed(fn))
}

// SystemDashboard sends section updates for the system dashboard app.
// Sections are rejected by the cloud for regular apps.
type SystemDashboard struct {
	s *Session
}

// SystemDashboard returns the system dashboard sender for this session.
func (s *Session) SystemDashboard() *SystemDashboard {
	return &SystemDashboard{s: s}
}

// Dashboard section names.
const (
	SectionTopLeft     = "topLeft"
	SectionTopRight    = "topRight"
	SectionBottomLeft  = "bottomLeft"
	SectionBottomRight = "bottomRight"
)

// SetTopLeft sets the top left dashboard section.
func (d *SystemDashboard) SetTopLeft(content string) error {
	return d.setSection(SectionTopLeft, content)
}

// SetTopRight sets the top right dashboard section.
func (d *SystemDashboard) SetTopRight(content string) error {
	return d.setSection(SectionTopRight, content)
}

// SetBottomLeft sets the bottom left dashboard section.
func (d *SystemDashboard) SetBottomLeft(content string) error {
	return d.setSection(SectionBottomLeft, content)
}

// SetBottomRight sets the bottom right dashboard section.
func (d *SystemDashboard) SetBottomRight(content string) error {
	return d.setSection(SectionBottomRight, content)
}

// SetViewMode switches the active dashboard mode.
func (d *SystemDashboard) SetViewMode(mode string) error {
	return d.s.send(types.DashboardModeChange{
		Type:        types.MsgDashboardModeChange,
		PackageName: d.s.cfg.PackageName,
		Mode:        mode,
	})
}

func (d *SystemDashboard) setSection(section, content string) error {
	return d.s.send(types.DashboardSystemUpdate{
		Type:        types.MsgDashboardSystemUpdate,
		PackageName: d.s.cfg.PackageName,
		Section:     section,
		Content:     content,
	})
}

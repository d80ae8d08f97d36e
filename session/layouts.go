package session

import "github.com/auroralens/aurora-go/types"

// Layouts sends display requests for this session. Obtain it from
// Session.Layouts.
type Layouts struct {
	s *Session
}

// Layouts returns the display layout sender for this session.
func (s *Session) Layouts() *Layouts {
	return &Layouts{s: s}
}

// DisplayOption adjusts one display request.
type DisplayOption func(*types.DisplayRequest)

// WithView targets a specific view instead of the main view.
func WithView(view string) DisplayOption {
	return func(r *types.DisplayRequest) {
		r.View = view
	}
}

// WithDuration limits how long the layout stays on screen.
func WithDuration(ms int) DisplayOption {
	return func(r *types.DisplayRequest) {
		r.DurationMs = ms
	}
}

// ShowTextWall displays a single block of text.
func (l *Layouts) ShowTextWall(text string, opts ...DisplayOption) error {
	return l.show(types.Layout{LayoutType: types.LayoutTextWall, Text: text}, opts)
}

// ShowDoubleTextWall displays two lines of text.
func (l *Layouts) ShowDoubleTextWall(top, bottom string, opts ...DisplayOption) error {
	return l.show(types.Layout{
		LayoutType: types.LayoutDoubleTextWall,
		TopText:    top,
		BottomText: bottom,
	}, opts)
}

// ShowReferenceCard displays a titled card.
func (l *Layouts) ShowReferenceCard(title, text string, opts ...DisplayOption) error {
	return l.show(types.Layout{
		LayoutType: types.LayoutReferenceCard,
		Title:      title,
		Text:       text,
	}, opts)
}

// ShowDashboardCard displays a left/right dashboard card.
func (l *Layouts) ShowDashboardCard(left, right string, opts ...DisplayOption) error {
	return l.show(types.Layout{
		LayoutType: types.LayoutDashboardCard,
		LeftText:   left,
		RightText:  right,
	}, opts)
}

// ShowBitmap displays a base64-encoded bitmap.
func (l *Layouts) ShowBitmap(data string, opts ...DisplayOption) error {
	return l.show(types.Layout{LayoutType: types.LayoutBitmapView, Data: data}, opts)
}

func (l *Layouts) show(layout types.Layout, opts []DisplayOption) error {
	req := types.DisplayRequest{
		Type:        types.MsgDisplayRequest,
		PackageName: l.s.cfg.PackageName,
		View:        types.ViewMain,
		Layout:      layout,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return l.s.send(req)
}

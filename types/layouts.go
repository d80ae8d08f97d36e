package types

// Layout type identifiers for AR display content.
const (
	LayoutTextWall       = "text_wall"
	LayoutDoubleTextWall = "double_text_wall"
	LayoutDashboardCard  = "dashboard_card"
	LayoutReferenceCard  = "reference_card"
	LayoutBitmapView     = "bitmap_view"
)

// Target views for display content.
const (
	ViewMain      = "main"
	ViewDashboard = "dashboard"
	ViewAlwaysOn  = "always_on"
)

// Layout is the content portion of a display request. Exactly the
// fields for the named LayoutType are populated.
type Layout struct {
	LayoutType string `json:"layout_type"`

	// text_wall, reference_card
	Text string `json:"text,omitempty"`

	// double_text_wall
	TopText    string `json:"top_text,omitempty"`
	BottomText string `json:"bottom_text,omitempty"`

	// dashboard_card
	LeftText  string `json:"left_text,omitempty"`
	RightText string `json:"right_text,omitempty"`

	// reference_card
	Title string `json:"title,omitempty"`

	// bitmap_view, base64-encoded
	Data string `json:"data,omitempty"`
}

// DisplayRequest asks the glasses to render a layout.
type DisplayRequest struct {
	Type         string `json:"type"`
	PackageName  string `json:"package_name"`
	View         string `json:"view"`
	Layout       Layout `json:"layout"`
	DurationMs   int    `json:"duration_ms,omitempty"`
	ForceDisplay bool   `json:"force_display,omitempty"`
}

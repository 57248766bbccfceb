// Package host describes the capabilities the hosting runtime gives the
// screen: identity, ready/expand signalling, theme, alerts and haptics.
package host

// Notification is the kind of haptic notification cue.
type Notification string

const (
	NotificationError   Notification = "error"
	NotificationSuccess Notification = "success"
	NotificationWarning Notification = "warning"
)

// Theme color defaults used when the host leaves a value empty.
const (
	DefaultBgColor         = "#ffffff"
	DefaultTextColor       = "#000000"
	DefaultButtonColor     = "#2481cc"
	DefaultButtonTextColor = "#ffffff"
)

// ThemeParams are the host's color variables.
type ThemeParams struct {
	BgColor         string `json:"bg_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	ButtonColor     string `json:"button_color,omitempty"`
	ButtonTextColor string `json:"button_text_color,omitempty"`
}

// WithDefaults fills empty colors with the defaults.
func (t ThemeParams) WithDefaults() ThemeParams {
	if t.BgColor == "" {
		t.BgColor = DefaultBgColor
	}
	if t.TextColor == "" {
		t.TextColor = DefaultTextColor
	}
	if t.ButtonColor == "" {
		t.ButtonColor = DefaultButtonColor
	}
	if t.ButtonTextColor == "" {
		t.ButtonTextColor = DefaultButtonTextColor
	}
	return t
}

// Host is the runtime the screen is embedded in.
type Host interface {
	// InitData is the opaque identity token. It is never parsed client side.
	InitData() string
	Ready()
	Expand()
	ThemeParams() ThemeParams
	// ShowAlert shows a blocking notice.
	ShowAlert(message string)
	// NotificationOccurred triggers a haptic cue.
	NotificationOccurred(kind Notification)
}

package host

import "sync"

// Recorder is an in-memory Host that remembers every call. Used by tests.
type Recorder struct {
	Token string
	Theme ThemeParams

	mu            sync.Mutex
	alerts        []string
	notifications []Notification
	readyCalls    int
	expandCalls   int
}

// NewRecorder returns a Recorder carrying the given init token.
func NewRecorder(token string) *Recorder {
	return &Recorder{Token: token}
}

// InitData implements Host.
func (r *Recorder) InitData() string { return r.Token }

// Ready implements Host.
func (r *Recorder) Ready() {
	r.mu.Lock()
	r.readyCalls++
	r.mu.Unlock()
}

// Expand implements Host.
func (r *Recorder) Expand() {
	r.mu.Lock()
	r.expandCalls++
	r.mu.Unlock()
}

// ThemeParams implements Host.
func (r *Recorder) ThemeParams() ThemeParams { return r.Theme }

// ShowAlert implements Host.
func (r *Recorder) ShowAlert(message string) {
	r.mu.Lock()
	r.alerts = append(r.alerts, message)
	r.mu.Unlock()
}

// NotificationOccurred implements Host.
func (r *Recorder) NotificationOccurred(kind Notification) {
	r.mu.Lock()
	r.notifications = append(r.notifications, kind)
	r.mu.Unlock()
}

// Alerts returns the alerts shown so far.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// Notifications returns the haptic cues triggered so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Signals returns how many times Ready and Expand were called.
func (r *Recorder) Signals() (ready, expand int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readyCalls, r.expandCalls
}

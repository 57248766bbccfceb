package host

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Console is a Host that writes alerts to a terminal.
type Console struct {
	initData string
	theme    ThemeParams
	out      io.Writer
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewConsole creates a console host.
func NewConsole(initData string, out io.Writer, logger *slog.Logger) *Console {
	return &Console{
		initData: initData,
		out:      out,
		logger:   logger.With("component", "host.console"),
	}
}

// InitData implements Host.
func (c *Console) InitData() string { return c.initData }

// Ready implements Host.
func (c *Console) Ready() { c.logger.Debug("host ready") }

// Expand implements Host.
func (c *Console) Expand() { c.logger.Debug("host expanded") }

// ThemeParams implements Host. The console has no theme of its own.
func (c *Console) ThemeParams() ThemeParams { return c.theme }

// ShowAlert implements Host.
func (c *Console) ShowAlert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\n[!] %s\n", message)
}

// NotificationOccurred implements Host.
func (c *Console) NotificationOccurred(kind Notification) {
	c.logger.Debug("haptic notification", "kind", string(kind))
}

package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/splatview/splatview/internal/constants"
	"github.com/splatview/splatview/internal/logging"
)

// sendFunc matches beeep.Notify / beeep.Alert.
type sendFunc func(title, message string, icon any) error

// DesktopSink shows notifications in the OS notification center.
// Destructive notifications use beeep.Alert, which is more prominent on
// some platforms.
type DesktopSink struct {
	logger  *logging.Logger
	enabled bool
	mu      sync.RWMutex

	notify sendFunc
	alert  sendFunc
}

// NewDesktopSink creates a desktop sink with the given configuration.
func NewDesktopSink(cfg *Config, logger *logging.Logger) *DesktopSink {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	beeep.AppName = constants.AppName

	return &DesktopSink{
		logger:  logger,
		enabled: cfg.Enabled && cfg.Desktop,
		notify:  beeep.Notify,
		alert:   beeep.Alert,
	}
}

// SetEnabled enables or disables notifications.
func (d *DesktopSink) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (d *DesktopSink) IsEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled
}

// Notify sends n to the desktop. Failures are logged, never returned.
func (d *DesktopSink) Notify(n Notification) {
	if !d.IsEnabled() {
		return
	}

	title := truncate(n.Title, 60)
	message := truncate(n.Description, 200)

	send := d.notify
	if n.Severity == SeverityDestructive {
		send = d.alert
	}

	if err := send(title, message, ""); err != nil {
		// Fall back to a regular notification before giving up
		if n.Severity == SeverityDestructive {
			if err := d.notify(title, message, ""); err == nil {
				return
			}
		}
		d.logger.Warn().Err(err).Str("title", n.Title).Msg("Failed to send desktop notification")
	}
}

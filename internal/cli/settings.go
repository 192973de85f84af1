package cli

import (
	"context"
	"time"

	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/server"
	"github.com/julianstephens/reviewnag/internal/settings"
)

// DaemonProbeTimeout bounds the health probe before falling back to the store.
const DaemonProbeTimeout = 2 * time.Second

// SettingsEditor reads and writes settings through the running daemon so its
// cached policy changes immediately. Without a daemon it edits the store.
type SettingsEditor struct {
	local  *settings.Store
	client *server.Client
}

func (c *Context) SettingsEditor() *SettingsEditor {
	ed := &SettingsEditor{local: c.Settings()}

	client, err := c.Daemon()
	if err != nil {
		return ed
	}
	ctx, cancel := context.WithTimeout(context.Background(), DaemonProbeTimeout)
	defer cancel()
	if _, err := client.Health(ctx); err != nil {
		logger.Debug("Daemon unreachable, editing settings in store", "error", err)
		return ed
	}
	ed.client = client
	return ed
}

// Remote reports whether edits go to the daemon.
func (e *SettingsEditor) Remote() bool {
	return e.client != nil
}

func (e *SettingsEditor) Current() models.Settings {
	if e.client != nil {
		s, err := e.client.Settings(context.Background())
		if err == nil {
			return s
		}
		logger.Warn("Failed to read settings from daemon", "error", err)
	}
	return e.local.Current()
}

func (e *SettingsEditor) Update(fn func(*models.Settings)) (models.Settings, error) {
	if e.client == nil {
		return e.local.Update(fn)
	}
	next := e.Current()
	fn(&next)
	return e.client.UpdateSettings(context.Background(), next)
}

package system

import (
	"errors"
	"io"

	"github.com/julianstephens/reviewnag/internal/config"
	"github.com/julianstephens/reviewnag/internal/engine"
	"github.com/julianstephens/reviewnag/internal/keyring"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/notifier"
)

var errNoDueSource = errors.New("due_source_url is not configured")

// presenterFor fans out to every presenter cfg enables. hub may be nil when
// nothing serves the websocket stream.
func presenterFor(cfg config.Config, hub *notifier.Hub, console io.Writer) notifier.Multi {
	var out notifier.Multi
	if cfg.Has(config.PresenterTray) {
		out = append(out, notifier.NewTray())
	}
	if cfg.Has(config.PresenterWebsocket) && hub != nil {
		out = append(out, hub)
	}
	if cfg.Has(config.PresenterConsole) {
		out = append(out, notifier.NewConsole(console))
	}
	return out
}

// dueSourceFor returns the HTTP due-items source named by cfg, authenticated
// with the token from the keyring when one is stored.
func dueSourceFor(cfg config.Config) (*engine.HTTPDueSource, error) {
	if cfg.DueSourceURL == "" {
		return nil, errNoDueSource
	}
	token, err := keyring.GetDueSourceToken()
	if err != nil {
		logger.Warn("Failed to read due-source token, querying without one", "error", err)
		token = ""
	}
	return engine.NewHTTPDueSource(cfg.DueSourceURL, token), nil
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/julianstephens/reviewnag/internal/config"
	"github.com/julianstephens/reviewnag/internal/constants"
	apperrors "github.com/julianstephens/reviewnag/internal/errors"
	"github.com/julianstephens/reviewnag/internal/keyring"
	"github.com/julianstephens/reviewnag/internal/ledger"
	"github.com/julianstephens/reviewnag/internal/server"
	"github.com/julianstephens/reviewnag/internal/settings"
	"github.com/julianstephens/reviewnag/internal/storage"
	"github.com/julianstephens/reviewnag/internal/storage/postgres"
	"github.com/julianstephens/reviewnag/internal/storage/sqlite"
	"github.com/julianstephens/reviewnag/internal/utils"
)

// KeyringSource is the --config value that reads the connection string from
// the OS keyring.
const KeyringSource = "keyring"

const jsonScheme = "json://"

type Context struct {
	Store storage.Provider
	// DaemonConfig is the path of the daemon's YAML configuration.
	DaemonConfig string
	Debug        bool
}

// NewStore picks a storage backend for a --config value: a PostgreSQL URL or
// DSN, "keyring" for a connection string held in the OS keyring,
// json://<dir> for the file store, and a SQLite path otherwise.
//
// Connection strings typed on the command line must not embed a password.
// Those read from the keyring or REVIEWNAG_DB_CONNECTION may.
func NewStore(source string) (storage.Provider, error) {
	if source == KeyringSource {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, apperrors.WithHint(
					errors.New("no connection string in keyring"),
					"run 'reviewnag keyring set <connection-string>' first",
				)
			}
			return nil, err
		}
		return postgres.New(connStr), nil
	}

	if env := os.Getenv(constants.EnvDBConnection); env != "" && source == constants.DefaultConfigPath {
		return postgres.New(env), nil
	}

	switch {
	case IsPostgres(source):
		if _, err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(
					errors.New("PostgreSQL connection strings with embedded credentials are not allowed"),
					fmt.Sprintf("use 'reviewnag keyring set', %s or a .pgpass file instead", constants.EnvDBConnection),
				)
			}
			return nil, err
		}
		return postgres.New(source), nil
	case strings.HasPrefix(source, jsonScheme):
		dir := utils.ExpandPath(strings.TrimPrefix(source, jsonScheme))
		return storage.NewJSONStore(afero.NewOsFs(), dir), nil
	default:
		return sqlite.NewStore(utils.ExpandPath(source)), nil
	}
}

func IsPostgres(source string) bool {
	return strings.HasPrefix(source, "postgres://") ||
		strings.HasPrefix(source, "postgresql://") ||
		strings.Contains(source, "host=")
}

// Settings returns a settings store over the context's backend with persisted
// overrides already merged.
func (c *Context) Settings() *settings.Store {
	s := settings.New(c.Store)
	s.Load()
	return s
}

func (c *Context) Ledger(opts ...ledger.Option) *ledger.Ledger {
	return ledger.New(c.Store, opts...)
}

// LoadDaemonConfig reads the daemon configuration. A missing file yields the
// defaults.
func (c *Context) LoadDaemonConfig() (config.Config, error) {
	path := c.DaemonConfig
	if path == "" {
		path = constants.DefaultDaemonConf
	}
	return config.Load(path)
}

// Daemon returns a client for the daemon named by the configuration.
func (c *Context) Daemon() (*server.Client, error) {
	cfg, err := c.LoadDaemonConfig()
	if err != nil {
		return nil, err
	}
	return server.NewClient(cfg.Listen), nil
}

package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Tray presents notifications through the reviewnag-tray companion app. The
// tray advertises itself with a "port|pid|secret" lockfile and accepts
// notifications as JSON posted to 127.0.0.1:port.
type Tray struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewTray() *Tray {
	return &Tray{
		client:     &http.Client{Timeout: 5 * time.Second},
		maxRetries: constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

func (t *Tray) Present(ctx context.Context, n Notification) error {
	trayAppConfigPath, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(trayAppConfigPath, constants.NotifierLockfileName))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	var lastErr error
	for attempt := 0; attempt < t.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.retryDelay):
			}
		}
		lastErr = t.send(ctx, port, secret, n)
		if lastErr == nil || errors.Is(lastErr, ErrPermissionDenied) {
			return lastErr
		}
		logger.Debug("Tray delivery failed", "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// The tray may relocate its lockfile through settings.json
	settingsPath := filepath.Join(trayConfigDir, "settings.json")
	if data, err := os.ReadFile(settingsPath); err == nil {
		var store struct {
			Settings struct {
				LockfileDir *string `json:"lockfile_dir"`
			} `json:"settings"`
		}
		if err := json.Unmarshal(data, &store); err == nil {
			if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
				return *store.Settings.LockfileDir, nil
			}
		}
	}

	return trayConfigDir, nil
}

// TrayAvailable returns nil when a running tray app has advertised itself.
func TrayAvailable() error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	_, _, err = findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	return err
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("reviewnag-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("reviewnag-tray process not running")
	}

	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not reviewnag-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func (t *Tray) send(ctx context.Context, port string, secret string, n Notification) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, secret)

	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: tray rejected the request with status %d", ErrPermissionDenied, res.StatusCode)
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

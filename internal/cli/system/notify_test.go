package system

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/reviewnag/internal/constants"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func disableQuietHours(t *testing.T, store interface {
	SaveSettings(map[string]string) error
}) {
	t.Helper()
	err := store.SaveSettings(map[string]string{
		constants.SettingQuietHoursStart: "0",
		constants.SettingQuietHoursEnd:   "0",
	})
	if err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
}

func TestNotifyCmd_DryRunPresentsAggregate(t *testing.T) {
	gokeyring.MockInit()
	ctx, store := setupTestContext(t)
	disableQuietHours(t, store)
	due := dueServer(t, 3)
	writeDaemonConfig(t, ctx, fmt.Sprintf("due_source_url: %s\n", due.URL))
	out := captureStdout(t)

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("notify --dry-run failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "[pending-check]") || !strings.Contains(got, "3 reviews pending") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestNotifyCmd_DryRunNothingPending(t *testing.T) {
	gokeyring.MockInit()
	ctx, store := setupTestContext(t)
	disableQuietHours(t, store)
	due := dueServer(t, 0)
	writeDaemonConfig(t, ctx, fmt.Sprintf("due_source_url: %s\n", due.URL))
	out := captureStdout(t)

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("notify --dry-run failed: %v", err)
	}
	if !strings.Contains(out.String(), "No reviews pending.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestNotifyCmd_NoDueSource(t *testing.T) {
	ctx, _ := setupTestContext(t)
	captureStdout(t)

	err := (&NotifyCmd{DryRun: true}).Run(ctx)
	if !errors.Is(err, errNoDueSource) {
		t.Errorf("notify without due source = %v, want errNoDueSource", err)
	}
}

func TestNotifyCmd_DryRunWelcome(t *testing.T) {
	ctx, _ := setupTestContext(t)
	out := captureStdout(t)

	if err := (&NotifyCmd{DryRun: true, Welcome: true}).Run(ctx); err != nil {
		t.Fatalf("notify --welcome --dry-run failed: %v", err)
	}
	if !strings.Contains(out.String(), "[welcome]") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

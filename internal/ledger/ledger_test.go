package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/reviewnag/internal/metrics"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/storage"
)

var t0 = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

// countingStore wraps a real store and can be told to fail.
type countingStore struct {
	Store
	gets    int
	failAll bool
}

var errDisk = errors.New("disk unavailable")

func (c *countingStore) AddEntry(e models.ScheduleEntry) error {
	if c.failAll {
		return errDisk
	}
	return c.Store.AddEntry(e)
}

func (c *countingStore) GetEntry(tag string) (models.ScheduleEntry, error) {
	c.gets++
	if c.failAll {
		return models.ScheduleEntry{}, errDisk
	}
	return c.Store.GetEntry(tag)
}

func (c *countingStore) GetAllEntries() ([]models.ScheduleEntry, error) {
	if c.failAll {
		return nil, errDisk
	}
	return c.Store.GetAllEntries()
}

func (c *countingStore) AcknowledgeEntry(tag string, at time.Time) error {
	if c.failAll {
		return errDisk
	}
	return c.Store.AcknowledgeEntry(tag, at)
}

func newTestLedger(t *testing.T) (*Ledger, *countingStore) {
	t.Helper()
	js := storage.NewJSONStore(afero.NewMemMapFs(), "/ledger")
	require.NoError(t, js.Init())
	cs := &countingStore{Store: js}
	return New(cs, WithClock(func() time.Time { return t0 })), cs
}

func entry(tag string, at time.Time) models.ScheduleEntry {
	return models.ScheduleEntry{
		Tag:           tag,
		Title:         "Review: kanji",
		Body:          "first review window",
		ItemID:        "42",
		ScheduledTime: at,
	}
}

func TestAppend_FillsIdentity(t *testing.T) {
	l, _ := newTestLedger(t)

	got := l.Append(entry("review-42-20", t0.Add(20*time.Minute)))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, t0, got.CreatedAt)

	found, ok := l.FindByTag("review-42-20")
	require.True(t, ok)
	assert.Equal(t, got.ID, found.ID)
	assert.False(t, found.Acknowledged)
}

func TestFindByTag_Missing(t *testing.T) {
	l, _ := newTestLedger(t)
	_, ok := l.FindByTag("review-1-20")
	assert.False(t, ok)
	assert.False(t, l.IsAcknowledged("review-1-20"))
}

func TestAcknowledge(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Append(entry("review-42-20", t0))

	assert.True(t, l.Acknowledge("review-42-20"))
	assert.True(t, l.IsAcknowledged("review-42-20"))

	found, _ := l.FindByTag("review-42-20")
	require.NotNil(t, found.AcknowledgedAt)
	assert.Equal(t, t0, *found.AcknowledgedAt)

	assert.False(t, l.Acknowledge("review-99-20"), "acknowledging an unknown tag is a no-op")
}

func TestAcknowledgedRowsAreCached(t *testing.T) {
	l, cs := newTestLedger(t)
	l.Append(entry("review-42-20", t0))
	require.True(t, l.Acknowledge("review-42-20"))

	l.FindByTag("review-42-20")
	before := cs.gets
	for i := 0; i < 5; i++ {
		assert.True(t, l.IsAcknowledged("review-42-20"))
	}
	assert.Equal(t, before, cs.gets, "cached acknowledged rows must not hit storage")
}

func TestAppendEvictsCachedOccurrence(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Append(entry("today-42", t0))
	require.True(t, l.Acknowledge("today-42"))
	require.True(t, l.IsAcknowledged("today-42"))

	next := l.Append(entry("today-42", t0.Add(24*time.Hour)))

	found, ok := l.FindByTag("today-42")
	require.True(t, ok)
	assert.Equal(t, next.ID, found.ID)
	assert.False(t, found.Acknowledged)
}

func TestAppendIf(t *testing.T) {
	l, _ := newTestLedger(t)
	noneOrAcked := func(prev *models.ScheduleEntry) bool {
		return prev == nil || prev.Acknowledged
	}

	_, ok := l.AppendIf(entry("review-42-20", t0), noneOrAcked)
	assert.True(t, ok)

	_, ok = l.AppendIf(entry("review-42-20", t0), noneOrAcked)
	assert.False(t, ok, "live occurrence must not be duplicated")

	l.Acknowledge("review-42-20")
	_, ok = l.AppendIf(entry("review-42-20", t0.Add(time.Hour)), noneOrAcked)
	assert.True(t, ok)
	assert.Len(t, l.ListAll(), 2)
}

func TestAppendIf_Concurrent(t *testing.T) {
	l, _ := newTestLedger(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	appended := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := l.AppendIf(entry("today-7", t0), func(prev *models.ScheduleEntry) bool { return prev == nil }); ok {
				mu.Lock()
				appended++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, appended)
	assert.Len(t, l.ListAll(), 1)
}

func TestStorageFailuresDegrade(t *testing.T) {
	js := storage.NewJSONStore(afero.NewMemMapFs(), "/ledger")
	require.NoError(t, js.Init())
	cs := &countingStore{Store: js, failAll: true}
	m := metrics.MustNew(prometheus.NewRegistry())
	l := New(cs, WithMetrics(m))

	assert.NotPanics(t, func() {
		l.Append(entry("review-42-20", t0))
	})
	_, ok := l.FindByTag("review-42-20")
	assert.False(t, ok)
	assert.False(t, l.Acknowledge("review-42-20"))
	assert.Empty(t, l.ListAll())
}

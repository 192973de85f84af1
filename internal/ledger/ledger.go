// Package ledger is the durable record of every reminder occurrence.
//
// Durability is advisory: storage failures are logged and counted, reads
// degrade to not-found or empty, and writes are never retried. A reminder
// whose acknowledgement could not be persisted simply keeps escalating.
package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/julianstephens/reviewnag/internal/constants"
	"github.com/julianstephens/reviewnag/internal/logger"
	"github.com/julianstephens/reviewnag/internal/metrics"
	"github.com/julianstephens/reviewnag/internal/models"
	"github.com/julianstephens/reviewnag/internal/storage"
)

// Store is the slice of storage.Provider the ledger needs.
type Store interface {
	AddEntry(models.ScheduleEntry) error
	GetEntry(tag string) (models.ScheduleEntry, error)
	GetAllEntries() ([]models.ScheduleEntry, error)
	AcknowledgeEntry(tag string, at time.Time) error
}

type Ledger struct {
	store   Store
	metrics *metrics.Metrics
	now     func() time.Time

	mu sync.Mutex
	// acked caches rows already acknowledged. Acknowledgement is monotonic,
	// so an entry only leaves the cache when a new occurrence of its tag is
	// appended by this process.
	acked *lru.Cache[string, models.ScheduleEntry]
}

type Option func(*Ledger)

// WithMetrics records storage failures on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithClock overrides the source of creation and acknowledgement times.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	cache, err := lru.New[string, models.ScheduleEntry](constants.AcknowledgedCacheSize)
	if err != nil {
		// Only a non-positive size fails
		panic(err)
	}
	l.acked = cache
	return l
}

func (l *Ledger) prepare(entry models.ScheduleEntry) models.ScheduleEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now()
	}
	return entry
}

// appendLocked writes entry; l.mu must be held.
func (l *Ledger) appendLocked(entry models.ScheduleEntry) models.ScheduleEntry {
	entry = l.prepare(entry)
	l.acked.Remove(entry.Tag)
	if err := l.store.AddEntry(entry); err != nil {
		logger.Warn("Failed to append ledger entry", "tag", entry.Tag, "error", err)
		l.metrics.IncLedgerFailure("append")
	}
	return entry
}

// findLocked returns the latest row for tag; l.mu must be held.
func (l *Ledger) findLocked(tag string) (models.ScheduleEntry, bool) {
	if entry, ok := l.acked.Get(tag); ok {
		return entry, true
	}

	entry, err := l.store.GetEntry(tag)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read ledger entry", "tag", tag, "error", err)
			l.metrics.IncLedgerFailure("find")
		}
		return models.ScheduleEntry{}, false
	}
	if entry.Acknowledged {
		l.acked.Add(tag, entry)
	}
	return entry, true
}

// Append adds a new row. It does not deduplicate: callers must not append
// twice for the same live occurrence.
func (l *Ledger) Append(entry models.ScheduleEntry) models.ScheduleEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLocked(entry)
}

// AppendIf looks up the latest row for entry.Tag and appends entry only when
// allow returns true. prev is nil when the tag has no row. The lookup and the
// append happen in one critical section.
func (l *Ledger) AppendIf(entry models.ScheduleEntry, allow func(prev *models.ScheduleEntry) bool) (models.ScheduleEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var prev *models.ScheduleEntry
	if found, ok := l.findLocked(entry.Tag); ok {
		prev = &found
	}
	if !allow(prev) {
		return models.ScheduleEntry{}, false
	}
	return l.appendLocked(entry), true
}

// FindByTag returns the most recently scheduled row for tag.
func (l *Ledger) FindByTag(tag string) (models.ScheduleEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.findLocked(tag)
}

// IsAcknowledged reports whether the latest row for tag is acknowledged.
// A missing row counts as not acknowledged.
func (l *Ledger) IsAcknowledged(tag string) bool {
	entry, ok := l.FindByTag(tag)
	return ok && entry.Acknowledged
}

// Acknowledge marks the latest row for tag as acknowledged. It returns false
// when no row exists or the write failed.
func (l *Ledger) Acknowledge(tag string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.AcknowledgeEntry(tag, l.now()); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to acknowledge ledger entry", "tag", tag, "error", err)
			l.metrics.IncLedgerFailure("acknowledge")
		}
		return false
	}
	// Repopulated with the stored timestamp on the next read
	l.acked.Remove(tag)
	return true
}

// ListAll returns every row, oldest scheduled first.
func (l *Ledger) ListAll() []models.ScheduleEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.store.GetAllEntries()
	if err != nil {
		logger.Warn("Failed to list ledger entries", "error", err)
		l.metrics.IncLedgerFailure("list")
		return []models.ScheduleEntry{}
	}
	return entries
}

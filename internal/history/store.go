package history

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Store provides file-based storage for history entries.
type Store struct {
	dir     string
	logger  *zap.Logger
	entropy io.Reader
}

// NewStore creates a Store rooted at dir. The directory is created on first save.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dir:     dir,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Dir is the directory holding the history files.
func (s *Store) Dir() string { return s.dir }

// Load returns the entries that have not expired at now, newest first.
// A missing directory yields no entries; unreadable files are skipped.
func (s *Store) Load(now time.Time) ([]Entry, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}

	live := all[:0]
	for _, e := range all {
		if e.Expired(now) {
			s.logger.Debug("ignoring expired history entry", zap.String("id", e.ID), zap.Time("expires_at", e.ExpiresAt))
			continue
		}
		live = append(live, e)
	}
	return live, nil
}

// LoadAll returns every entry, expired or not, newest first.
func (s *Store) LoadAll() ([]Entry, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil, nil
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "history_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list history files: %w", err)
	}

	var entries []Entry
	for _, path := range paths {
		e, err := readEntry(path)
		if err != nil {
			s.logger.Warn("could not read history file", zap.String("path", path), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	sortNewestFirst(entries)
	return entries, nil
}

func readEntry(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	// Older files may lack an expiry; derive it from the stored TTL only.
	if e.ExpiresAt.IsZero() && e.TTLDays > 0 && !e.CreatedAt.IsZero() {
		e.ExpiresAt = e.CreatedAt.AddDate(0, 0, e.TTLDays)
	}
	return e, nil
}

// Save writes a new entry for the record. Existing files are never touched.
func (s *Store) Save(rec Record, ttlDays int, now time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory %s: %w", s.dir, err)
	}

	entry := Entry{
		Version:     FileVersion,
		ID:          ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		CreatedAt:   now,
		ExpiresAt:   now.AddDate(0, 0, ttlDays),
		TTLDays:     ttlDays,
		ProfileName: rec.ProfileName,
		Usages:      rec.Usages,
	}
	if !rec.WeekStart.IsZero() {
		entry.WeekStart = rec.WeekStart.Format(dateLayout)
	}
	if !rec.WeekEnd.IsZero() {
		entry.WeekEnd = rec.WeekEnd.Format(dateLayout)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal history entry: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("history_%s_%s.json", now.Format(dateLayout), entry.ID))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create history file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write history file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close history file: %w", err)
	}

	s.logger.Info("saved plan to history", zap.String("path", path), zap.Int("usages", len(entry.Usages)))
	return path, nil
}

package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/souqly/storefront-go/internal/types"
)

// FileStore persists the token slot as a JSON document on disk
type FileStore struct {
	path   string
	slot   string
	clock  clockwork.Clock
	logger types.Logger
	mu     sync.Mutex
}

// fileRecord is the on-disk shape; one file may hold several named slots
type fileRecord struct {
	Slots map[string]fileSlot `json:"slots"`
}

type fileSlot struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// NewFileStore creates a file-backed token store for the given slot
func NewFileStore(path, slot string, clock clockwork.Clock, logger types.Logger) *FileStore {
	if slot == "" {
		slot = types.DefaultTokenSlot
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FileStore{path: path, slot: slot, clock: clock, logger: logger}
}

// Path returns the backing file path
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read()
	if err != nil {
		return "", err
	}
	return rec.Slots[f.slot].Token, nil
}

func (f *FileStore) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read()
	if err != nil {
		return err
	}
	rec.Slots[f.slot] = fileSlot{Token: token, SavedAt: f.clock.Now().UTC()}

	if err := f.write(rec); err != nil {
		return err
	}

	if f.logger != nil {
		f.logger.Info("Token saved", "path", f.path, "slot", f.slot)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := rec.Slots[f.slot]; !ok {
		return nil
	}
	delete(rec.Slots, f.slot)

	if len(rec.Slots) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to remove token file")
		}
		return nil
	}
	return f.write(rec)
}

// SavedAt reports when the current token was written, zero when absent
func (f *FileStore) SavedAt() (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read()
	if err != nil {
		return time.Time{}, err
	}
	return rec.Slots[f.slot].SavedAt, nil
}

func (f *FileStore) read() (*fileRecord, error) {
	rec := &fileRecord{Slots: map[string]fileSlot{}}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, nil
		}
		return nil, errors.Wrap(err, "failed to read token file")
	}

	if err := json.Unmarshal(data, rec); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal token file")
	}
	if rec.Slots == nil {
		rec.Slots = map[string]fileSlot{}
	}
	return rec, nil
}

func (f *FileStore) write(rec *fileRecord) error {
	// Create directory if needed
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return errors.Wrap(err, "failed to create token directory")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal token file")
	}

	// Write to a temp file first so a crash never leaves a truncated slot
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write token file")
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.Wrap(err, "failed to replace token file")
	}
	return nil
}

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/askdb-ai/askdb/pkg/apperrors"
)

// Store persists sessions as JSON files under a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// Info is a summary of a stored session for listings.
type Info struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
}

// NewStore creates the sessions directory if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}
	return &Store{dir: dir, logger: logger.Named("sessions")}, nil
}

func (st *Store) path(id string) string {
	return filepath.Join(st.dir, id+".json")
}

// Save writes the session to disk, replacing any previous state.
func (st *Store) Save(s *Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	if err := os.WriteFile(st.path(s.ID), data, 0o600); err != nil {
		return fmt.Errorf("write session %s: %w", s.ID, err)
	}
	st.logger.Debug("session saved",
		zap.String("session_id", s.ID),
		zap.Int("messages", len(s.Messages)))
	return nil
}

// Load reads a session by id. Returns apperrors.ErrSessionNotFound when no
// file exists for it.
func (st *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(st.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session %s: %w", id, apperrors.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", id, err)
	}
	return &s, nil
}

// List returns summaries of all stored sessions, newest first. Files that
// fail to parse are skipped with a warning rather than failing the listing.
func (st *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		s, err := st.Load(id)
		if err != nil {
			st.logger.Warn("skipping unreadable session file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		infos = append(infos, Info{
			ID:           s.ID,
			CreatedAt:    s.CreatedAt,
			MessageCount: len(s.Messages),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// Delete removes a session. The bool reports whether a session existed.
func (st *Store) Delete(id string) (bool, error) {
	err := os.Remove(st.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	st.logger.Info("session deleted", zap.String("session_id", id))
	return true, nil
}

// Cleanup deletes sessions created before the maxAge cutoff and returns
// how many were removed. Age is judged by the record's CreatedAt, so a
// recently resaved old session is still cleaned up. Unreadable files are
// skipped with a warning, never deleted.
func (st *Store) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return 0, fmt.Errorf("read sessions directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		s, err := st.Load(id)
		if err != nil {
			st.logger.Warn("skipping unreadable session file during cleanup",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if s.CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(st.dir, entry.Name())); err != nil {
			st.logger.Warn("cleanup failed for session file",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		st.logger.Info("old sessions removed", zap.Int("count", removed))
	}
	return removed, nil
}

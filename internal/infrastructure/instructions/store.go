package instructions

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jpvandijk/koopflow/internal/core/domain"
)

// Store serves the markdown work instructions from a directory on disk. The
// directory is watched so edits show up without a restart.
type Store struct {
	dir     string
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	items map[string]domain.Instruction
}

func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir, items: make(map[string]domain.Instruction)}
	if err := s.Refresh(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create instructions watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch instructions dir: %w", err)
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Store) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.Refresh(); err != nil {
				slog.Warn("instructions_reload_failed", "error", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("instructions_watch_error", "error", err)
		}
	}
}

// Refresh rereads every markdown file in the directory.
func (s *Store) Refresh() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read instructions dir: %w", err)
	}

	items := make(map[string]domain.Instruction)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read instruction %s: %w", entry.Name(), err)
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		items[slug] = domain.Instruction{
			ID:      slug,
			Title:   titleFrom(string(content), slug),
			Content: string(content),
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// List returns all instructions without their content, sorted by slug.
func (s *Store) List() []domain.Instruction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Instruction, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, domain.Instruction{ID: item.ID, Title: item.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Get(slug string) (*domain.Instruction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[slug]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get instruction", errors.New(slug))
	}
	return &item, nil
}

func titleFrom(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return fallback
}

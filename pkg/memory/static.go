package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// staticExtensions lists the file types the static loader concatenates.
var staticExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".csv":  true,
}

// StaticStore concatenates the files in a test-data directory into one
// memory blob, loaded lazily on first read and cached for the process
// lifetime. A missing directory yields empty memory, not an error.
type StaticStore struct {
	dir string

	loaded bool
	cached string
}

// NewStaticStore creates a static store over the given directory.
func NewStaticStore(dir string) *StaticStore {
	return &StaticStore{dir: dir}
}

// GetUserLTM returns the concatenated test-data files, separated by
// headers naming the source file. Files are read in sorted order so the
// result is deterministic.
func (s *StaticStore) GetUserLTM(_ context.Context) (string, error) {
	if s.loaded {
		return s.cached, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return "", nil
		}
		return "", fmt.Errorf("reading test data dir %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !staticExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			slog.Warn("skipping unreadable test data file", "file", name, "error", err)
			continue
		}
		fmt.Fprintf(&sb, "--- %s ---\n%s\n", name, strings.TrimSpace(string(data)))
	}

	s.cached = strings.TrimSpace(sb.String())
	s.loaded = true
	return s.cached, nil
}

func (s *StaticStore) Close() error { return nil }

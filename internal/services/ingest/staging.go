package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/iuh-ecommerce/poli/internal/common"
	"github.com/iuh-ecommerce/poli/internal/interfaces"
)

// OSStaging is the filesystem-backed staging directory. Only regular files
// whose suffix matches a configured extension are listed; everything else in
// the directory is ignored.
type OSStaging struct {
	dir        string
	extensions []string
	logger     arbor.ILogger
}

var _ interfaces.Staging = (*OSStaging)(nil)

// NewOSStaging creates a staging adapter over the configured directory
func NewOSStaging(cfg *common.StagingConfig, logger arbor.ILogger) *OSStaging {
	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = []string{".pdf"}
	}

	normalized := make([]string, len(extensions))
	for i, ext := range extensions {
		normalized[i] = strings.ToLower(ext)
	}

	return &OSStaging{
		dir:        cfg.Dir,
		extensions: normalized,
		logger:     logger,
	}
}

// List returns stageable document paths. A missing directory yields
// (nil, false, nil).
func (s *OSStaging) List(ctx context.Context) ([]string, bool, error) {
	info, err := os.Stat(s.dir)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat staging directory %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return nil, false, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read staging directory %s: %w", s.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !s.matchesExtension(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}

	return paths, true, nil
}

// Delete removes an ingested document from staging
func (s *OSStaging) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete staged document %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Msg("Deleted staged document")
	return nil
}

func (s *OSStaging) matchesExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

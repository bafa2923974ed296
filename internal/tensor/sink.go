package tensor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Sink receives export artifacts.
type Sink interface {
	// Save stores the artifact and returns where it went.
	Save(ctx context.Context, art Artifact) (string, error)
}

// DirSink writes artifacts into a directory, replacing files of the same name.
type DirSink struct {
	dir    string
	logger *slog.Logger
}

// NewDirSink creates a sink rooted at dir. An empty dir means the working
// directory.
func NewDirSink(dir string, logger *slog.Logger) *DirSink {
	if dir == "" {
		dir = "."
	}
	return &DirSink{dir: dir, logger: logger}
}

// Save writes art under the sink directory.
func (s *DirSink) Save(ctx context.Context, art Artifact) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if art.Filename == "" || filepath.Base(art.Filename) != art.Filename {
		return "", fmt.Errorf("invalid artifact filename %q", art.Filename)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, art.Filename)
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info("Exported tensor", "path", path, "bytes", len(art.Data), "mime", art.MIMEType)
	return path, nil
}

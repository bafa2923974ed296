package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// repository implements the Repository interface over JSON files.
type repository struct {
	logger *slog.Logger
}

// NewRepository creates a new Repository instance.
func NewRepository(logger *slog.Logger) Repository {
	return &repository{
		logger: logger,
	}
}

// LoadGraph loads a raw graph from a JSON file.
func (r *repository) LoadGraph(ctx context.Context, path string) (*RawGraph, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	raw, err := DecodeGraph(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	r.logger.Info("Loaded raw graph", "path", path, "nodes", len(raw.Nodes), "edges", len(raw.Edges))
	return raw, nil
}

// SaveGraph persists a raw graph as indented JSON.
func (r *repository) SaveGraph(ctx context.Context, raw *RawGraph, path string) error {
	if raw == nil {
		return fmt.Errorf("graph cannot be nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	r.logger.Info("Saved raw graph", "path", path, "nodes", len(raw.Nodes))
	return nil
}

// DecodeGraph parses the raw graph JSON schema.
func DecodeGraph(data []byte) (*RawGraph, error) {
	var raw RawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	return &raw, nil
}

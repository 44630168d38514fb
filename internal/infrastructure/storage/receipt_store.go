package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hrportal/expense-service/internal/application/port"
	"go.uber.org/zap"
)

// LocalReceiptStore implements port.ReceiptStore on the local filesystem.
// Each saved receipt gets a generated storage id; the original filename only
// contributes its extension.
type LocalReceiptStore struct {
	baseDir string
	baseURL string
	logger  *zap.Logger
}

// NewLocalReceiptStore creates a new LocalReceiptStore
func NewLocalReceiptStore(baseDir, baseURL string, logger *zap.Logger) port.ReceiptStore {
	return &LocalReceiptStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Save writes receipt content under a generated storage id
func (s *LocalReceiptStore) Save(ctx context.Context, filename string, content []byte) (*port.StoredReceipt, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("receipt content is empty")
	}

	storageID := uuid.NewString()
	ext := filepath.Ext(filename)
	name := storageID + ext

	fullPath := filepath.Join(s.baseDir, name)
	if err := s.validatePath(fullPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		s.logger.Error("Failed to create receipt directory",
			zap.String("path", s.baseDir),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write receipt",
			zap.String("path", fullPath),
			zap.Error(err))
		return nil, fmt.Errorf("failed to write receipt: %w", err)
	}

	s.logger.Debug("Receipt saved",
		zap.String("storage_id", storageID),
		zap.Int("size", len(content)))

	return &port.StoredReceipt{
		URL:       s.baseURL + "/" + name,
		StorageID: name,
	}, nil
}

// Delete removes a stored receipt. Deleting a missing receipt is a no-op.
func (s *LocalReceiptStore) Delete(ctx context.Context, storageID string) error {
	fullPath := filepath.Join(s.baseDir, storageID)
	if err := s.validatePath(fullPath); err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		s.logger.Error("Failed to delete receipt",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	return nil
}

// validatePath checks that the path is safe and within baseDir
func (s *LocalReceiptStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}

// Verify interface compliance
var _ port.ReceiptStore = (*LocalReceiptStore)(nil)

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalReceiptStore_Save(t *testing.T) {
	tempDir := t.TempDir()
	logger := zap.NewNop()
	store := NewLocalReceiptStore(tempDir, "/files/receipts", logger)

	t.Run("saves receipt and returns pointer", func(t *testing.T) {
		content := []byte("PDF content here")

		saved, err := store.Save(context.Background(), "taxi.pdf", content)

		require.NoError(t, err)
		assert.NotEmpty(t, saved.StorageID)
		assert.True(t, strings.HasSuffix(saved.StorageID, ".pdf"))
		assert.Equal(t, "/files/receipts/"+saved.StorageID, saved.URL)

		onDisk, err := os.ReadFile(filepath.Join(tempDir, saved.StorageID))
		require.NoError(t, err)
		assert.Equal(t, content, onDisk)
	})

	t.Run("generates distinct storage ids for same filename", func(t *testing.T) {
		first, err := store.Save(context.Background(), "receipt.png", []byte("a"))
		require.NoError(t, err)
		second, err := store.Save(context.Background(), "receipt.png", []byte("b"))
		require.NoError(t, err)

		assert.NotEqual(t, first.StorageID, second.StorageID)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := store.Save(context.Background(), "empty.pdf", nil)
		assert.Error(t, err)
	})
}

func TestLocalReceiptStore_Delete(t *testing.T) {
	tempDir := t.TempDir()
	logger := zap.NewNop()
	store := NewLocalReceiptStore(tempDir, "/files/receipts", logger)

	t.Run("removes stored receipt", func(t *testing.T) {
		saved, err := store.Save(context.Background(), "hotel.jpg", []byte("image"))
		require.NoError(t, err)

		err = store.Delete(context.Background(), saved.StorageID)

		require.NoError(t, err)
		assert.NoFileExists(t, filepath.Join(tempDir, saved.StorageID))
	})

	t.Run("deleting a missing receipt is a no-op", func(t *testing.T) {
		err := store.Delete(context.Background(), "does-not-exist.pdf")
		assert.NoError(t, err)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		err := store.Delete(context.Background(), "../../etc/passwd")
		assert.Error(t, err)
	})
}

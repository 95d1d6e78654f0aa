//go:build unit

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-api/pkg/config"
)

var TestStorageConfig = config.StorageConfig{
	UploadDirectory: "uploads",
	PublicBaseUrl:   "http://localhost:8080",
}

func TestAttachmentStore_Owns(t *testing.T) {
	store := NewAttachmentStore(afero.NewMemMapFs(), TestStorageConfig)

	testCases := []struct {
		url      string
		expected bool
	}{
		{url: "http://localhost:8080/uploads/chat/a.png", expected: true},
		{url: "/uploads/chat/a.png", expected: true},
		{url: "https://cdn.example.com/uploads/a.png", expected: false},
		{url: "http://localhost:8080/static/a.png", expected: false},
		{url: "http://localhost:8080/uploads/", expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.url, func(t *testing.T) {
			assert.Equal(t, testCase.expected, store.Owns(testCase.url))
		})
	}
}

func TestAttachmentStore_OwnedBy(t *testing.T) {
	store := NewAttachmentStore(afero.NewMemMapFs(), TestStorageConfig)

	testCases := []struct {
		name       string
		url        string
		uploaderId string
		expected   bool
	}{
		{name: "own folder", url: "/uploads/driver-7/pod.jpg", uploaderId: "driver-7", expected: true},
		{name: "own folder absolute", url: "http://localhost:8080/uploads/driver-7/a/b.pdf", uploaderId: "driver-7", expected: true},
		{name: "someone else's folder", url: "/uploads/driver-8/pod.jpg", uploaderId: "driver-7", expected: false},
		{name: "top level file", url: "/uploads/invoice.pdf", uploaderId: "driver-7", expected: false},
		{name: "folder without file", url: "/uploads/driver-7/", uploaderId: "driver-7", expected: false},
		{name: "traversal out of own folder", url: "/uploads/driver-7/../driver-8/pod.jpg", uploaderId: "driver-7", expected: false},
		{name: "remote url", url: "https://cdn.example.com/uploads/driver-7/pod.jpg", uploaderId: "driver-7", expected: false},
		{name: "empty uploader", url: "/uploads/pod.jpg", uploaderId: "", expected: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, store.OwnedBy(testCase.url, testCase.uploaderId))
		})
	}
}

func TestAttachmentStore_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		filePath := filepath.Join("uploads", "chat", "a.png")
		require.NoError(t, afero.WriteFile(fs, filePath, []byte("png"), 0o644))
		store := NewAttachmentStore(fs, TestStorageConfig)

		err := store.Remove(ctx, "http://localhost:8080/uploads/chat/a.png")

		assert.NoError(t, err)
		exists, _ := afero.Exists(fs, filePath)
		assert.False(t, exists)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		store := NewAttachmentStore(afero.NewMemMapFs(), TestStorageConfig)

		err := store.Remove(ctx, "/uploads/chat/missing.png")

		assert.NoError(t, err)
	})

	t.Run("path traversal stays inside the upload directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "secret.txt", []byte("secret"), 0o644))
		store := NewAttachmentStore(fs, TestStorageConfig)

		err := store.Remove(ctx, "/uploads/../secret.txt")

		assert.NoError(t, err)
		exists, _ := afero.Exists(fs, "secret.txt")
		assert.True(t, exists)
	})

	t.Run("remote url is refused", func(t *testing.T) {
		store := NewAttachmentStore(afero.NewMemMapFs(), TestStorageConfig)

		err := store.Remove(ctx, "https://cdn.example.com/a.png")

		assert.ErrorIs(t, err, ErrOutsideStore)
	})
}

package storage

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"fleet-api/pkg/config"
	"fleet-api/pkg/logger"
)

const PublicPrefix = "/uploads/"

var ErrOutsideStore = errors.New("attachment is not stored locally")

// AttachmentStore manages files under the upload directory. Every upload
// lives in a folder named after the identity that uploaded it, so
// /uploads/<uploaderId>/<file>.
type AttachmentStore interface {
	Owns(url string) bool
	OwnedBy(url, uploaderId string) bool
	Remove(ctx context.Context, url string) error
	Directory() string
}

type attachmentStore struct {
	fs            afero.Fs
	directory     string
	publicBaseUrl string
}

func NewAttachmentStore(fs afero.Fs, cfg config.StorageConfig) AttachmentStore {
	return &attachmentStore{
		fs:            fs,
		directory:     cfg.UploadDirectory,
		publicBaseUrl: strings.TrimRight(cfg.PublicBaseUrl, "/"),
	}
}

func (s *attachmentStore) Directory() string {
	return s.directory
}

// Owns reports whether url points into the local upload directory, either as
// an absolute url under the public base url or as a root relative path.
func (s *attachmentStore) Owns(url string) bool {
	_, ok := s.relativePath(url)
	return ok
}

// OwnedBy reports whether url is a local upload inside uploaderId's folder.
func (s *attachmentStore) OwnedBy(url, uploaderId string) bool {
	if uploaderId == "" || strings.ContainsAny(uploaderId, "/\\") {
		return false
	}

	relative, ok := s.relativePath(url)
	if !ok {
		return false
	}

	folder, file, found := strings.Cut(relative, "/")
	return found && folder == uploaderId && file != ""
}

// Remove deletes the file behind url. Files that are already gone are not an
// error.
func (s *attachmentStore) Remove(ctx context.Context, url string) error {
	relative, ok := s.relativePath(url)
	if !ok {
		return ErrOutsideStore
	}

	filePath := filepath.Join(s.directory, filepath.FromSlash(relative))
	err := s.fs.Remove(filePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	logger.FromContext(ctx).Debugw("attachment removed", zap.String("path", filePath))
	return nil
}

func (s *attachmentStore) relativePath(url string) (string, bool) {
	trimmed := strings.TrimPrefix(url, s.publicBaseUrl)
	if trimmed == url && !strings.HasPrefix(url, PublicPrefix) {
		return "", false
	}
	if !strings.HasPrefix(trimmed, PublicPrefix) {
		return "", false
	}

	cleaned := path.Clean("/" + strings.TrimPrefix(trimmed, PublicPrefix))
	relative := strings.TrimPrefix(cleaned, "/")
	if relative == "" || relative == "." {
		return "", false
	}

	return relative, true
}

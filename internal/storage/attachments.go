package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// AttachmentStore persists uploaded record attachments and serves them back.
type AttachmentStore interface {
	// Save writes content under a fresh name and returns its public URL.
	Save(ctx context.Context, ownerID uint, originalName string, content io.Reader) (string, error)
	// Remove deletes the file behind a URL returned by Save. Unknown URLs are ignored.
	Remove(ctx context.Context, url string) error
}

// FileStore keeps attachments in a directory of an afero filesystem.
type FileStore struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
	log       *logrus.Logger
}

// ErrTooLarge is returned when an upload exceeds the configured size.
var ErrTooLarge = errors.New("attachment exceeds size limit")

// NewFileStore creates the upload directory when missing.
func NewFileStore(fs afero.Fs, dir, urlPrefix string, maxBytes int64, log *logrus.Logger) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &FileStore{
		fs:        fs,
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
		log:       log,
	}, nil
}

// maxNameAttempts bounds the suffixes tried when uploads collide on a name.
const maxNameAttempts = 100

// SetClock replaces the time source used to name uploads.
func (s *FileStore) SetClock(now func() time.Time) {
	s.now = now
}

// Save stores the upload as {owner}_{unix-seconds}{ext}. Files are never
// overwritten: a second upload by the same owner within the same second is
// stored as {owner}_{unix-seconds}_{n}{ext}.
func (s *FileStore) Save(ctx context.Context, ownerID uint, originalName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name, f, err := s.create(fmt.Sprintf("%d_%d", ownerID, s.now().Unix()), ext)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := content
	if s.maxBytes > 0 {
		reader = io.LimitReader(content, s.maxBytes+1)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		_ = s.fs.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("failed to write attachment %s: %w", name, err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		_ = s.fs.Remove(filepath.Join(s.dir, name))
		return "", ErrTooLarge
	}

	s.log.WithFields(logrus.Fields{"owner_id": ownerID, "file": name, "bytes": n}).Info("Attachment stored")
	return path.Join(s.urlPrefix, name), nil
}

// create opens a file that did not exist before, trying base then base_1,
// base_2 and so on.
func (s *FileStore) create(base, ext string) (string, afero.File, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		f, err := s.fs.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return name, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("failed to open attachment %s: %w", name, err)
		}
	}
	return "", nil, fmt.Errorf("failed to name attachment %s%s: %d names taken", base, ext, maxNameAttempts)
}

// Remove deletes the file behind url. URLs outside the prefix and files that
// are already gone are ignored.
func (s *FileStore) Remove(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, s.urlPrefix+"/"))
	err := s.fs.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove attachment %s: %w", name, err)
	}
	return nil
}

// URLPrefix is the path attachments are served under.
func (s *FileStore) URLPrefix() string { return s.urlPrefix }

// FileSystem exposes the upload directory for static serving.
func (s *FileStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(afero.NewBasePathFs(s.fs, s.dir))
}

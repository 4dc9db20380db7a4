package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
	"github.com/xingkongliang/text-to-speech-app/domain/repositories"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStorage keeps artifacts as <dir>/<name>.mp3 on the local filesystem.
// Writes stream into a temp file that is renamed into place under a per-path
// RW lock, so a copy or playback never observes a half-written file.
type FileStorage struct {
	dir string

	dirMu    sync.Mutex
	dirReady bool

	locksMu sync.Mutex
	locks   map[string]*sync.RWMutex

	logger *zap.Logger
}

// Ensure FileStorage implements the ArtifactStorage interface
var _ repositories.ArtifactStorage = (*FileStorage)(nil)

// NewFileStorage creates a storage rooted at dir. The directory is created on first write.
func NewFileStorage(dir string, logger *zap.Logger) *FileStorage {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &FileStorage{
		dir:    dir,
		locks:  make(map[string]*sync.RWMutex),
		logger: logger,
	}
}

// Dir returns the output directory
func (s *FileStorage) Dir() string {
	return s.dir
}

// PathFor implements repositories.ArtifactStorage
func (s *FileStorage) PathFor(name string) string {
	return filepath.Join(s.dir, name+entities.AudioExtension)
}

// Write implements repositories.ArtifactStorage
func (s *FileStorage) Write(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	if err := s.ensureDir(); err != nil {
		return "", 0, err
	}

	path := s.PathFor(name)

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, &contextReader{ctx: ctx, r: r})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return "", written, err
	}

	if err := os.Chmod(tmpName, filePerm); err != nil {
		s.logger.Warn("Failed to set artifact permissions", zap.String("path", tmpName), zap.Error(err))
	}

	// Readers only wait for the swap, never for the download
	lock := s.lockFor(path)
	lock.Lock()
	err = os.Rename(tmpName, path)
	lock.Unlock()
	if err != nil {
		os.Remove(tmpName)
		return "", written, fmt.Errorf("failed to move audio into place: %w", err)
	}

	s.logger.Info("Audio artifact written",
		zap.String("path", path),
		zap.Int64("bytes", written))

	return path, written, nil
}

// Open implements repositories.ArtifactStorage
func (s *FileStorage) Open(path string) (io.ReadCloser, error) {
	lock := s.lockFor(path)
	lock.RLock()
	defer lock.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrIOFailed, err)
	}
	return f, nil
}

// Stat implements repositories.ArtifactStorage
func (s *FileStorage) Stat(path string) (*entities.AudioArtifact, error) {
	if path == "" {
		return nil, entities.ErrNotFound
	}

	lock := s.lockFor(path)
	lock.RLock()
	defer lock.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrIOFailed, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", entities.ErrNotFound, path)
	}

	return &entities.AudioArtifact{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// CopyTo implements repositories.ArtifactStorage. When dest is an existing
// directory the artifact keeps its base name inside it.
func (s *FileStorage) CopyTo(path, dest string) (string, error) {
	if path == "" {
		return "", entities.ErrNotFound
	}
	if dest == "" {
		return "", fmt.Errorf("%w: destination is empty", entities.ErrWriteFailed)
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, filepath.Base(path))
	}
	if absDest, err := filepath.Abs(dest); err == nil {
		dest = absDest
	}

	srcLock := s.lockFor(path)
	srcLock.RLock()
	defer srcLock.RUnlock()

	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", entities.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", entities.ErrIOFailed, err)
	}
	defer src.Close()

	if s.key(path) == s.key(dest) {
		return dest, nil
	}

	dstLock := s.lockFor(dest)
	dstLock.Lock()
	defer dstLock.Unlock()

	dst, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrWriteFailed, err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("%w: %v", entities.ErrWriteFailed, err)
	}

	s.logger.Info("Audio artifact copied",
		zap.String("source", path),
		zap.String("destination", dest),
		zap.Int64("bytes", written))

	return dest, nil
}

// ensureDir creates the output directory once. A failed attempt is retried on the next write.
func (s *FileStorage) ensureDir() error {
	s.dirMu.Lock()
	defer s.dirMu.Unlock()

	if s.dirReady {
		return nil
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	s.dirReady = true
	s.logger.Debug("Output directory ready", zap.String("dir", s.dir))
	return nil
}

func (s *FileStorage) key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (s *FileStorage) lockFor(path string) *sync.RWMutex {
	key := s.key(path)

	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.RWMutex{}
		s.locks[key] = lock
	}
	return lock
}

// contextReader stops a copy once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

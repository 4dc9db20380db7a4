package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
	"github.com/xingkongliang/text-to-speech-app/domain/repositories"
)

// ArtifactAccess exposes the session's most recent artifact for playback and saving
type ArtifactAccess struct {
	storage repositories.ArtifactStorage
	session *Session
	prober  repositories.AudioProber
	player  repositories.AudioPlayer
	logger  *zap.Logger
}

// NewArtifactAccess creates a new artifact accessor. prober and player may be nil.
func NewArtifactAccess(
	storage repositories.ArtifactStorage,
	session *Session,
	prober repositories.AudioProber,
	player repositories.AudioPlayer,
	logger *zap.Logger,
) *ArtifactAccess {
	return &ArtifactAccess{
		storage: storage,
		session: session,
		prober:  prober,
		player:  player,
		logger:  logger,
	}
}

// Path returns the tracked artifact path, or "" before the first success
func (a *ArtifactAccess) Path() string {
	return a.session.LastArtifact()
}

// Exists reports whether the tracked path currently references a readable file
func (a *ArtifactAccess) Exists() bool {
	path := a.session.LastArtifact()
	if path == "" {
		return false
	}
	if _, err := a.storage.Stat(path); err != nil {
		return false
	}
	rc, err := a.storage.Open(path)
	if err != nil {
		return false
	}
	rc.Close()
	return true
}

// CopyTo writes a byte-identical copy of the artifact to dest and returns the written path
func (a *ArtifactAccess) CopyTo(dest string) (string, error) {
	path := a.session.LastArtifact()
	if path == "" {
		return "", fmt.Errorf("%w: no speech has been generated yet", entities.ErrNotFound)
	}

	written, err := a.storage.CopyTo(path, dest)
	if err != nil {
		a.logger.Error("Failed to save audio file",
			zap.String("source", path),
			zap.String("destination", dest),
			zap.Error(err))
		return "", err
	}
	return written, nil
}

// CopyWithin is CopyTo for untrusted destinations. dest must be relative to
// root and must not leave it, neither through ".." nor through a symlink.
func (a *ArtifactAccess) CopyWithin(root, dest string) (string, error) {
	target, err := resolveWithin(root, dest)
	if err != nil {
		a.logger.Warn("Rejected save destination",
			zap.String("root", root),
			zap.String("destination", dest),
			zap.Error(err))
		return "", err
	}
	return a.CopyTo(target)
}

func resolveWithin(root, dest string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: no save directory configured", entities.ErrWriteFailed)
	}
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return "", fmt.Errorf("%w: destination is required", entities.ErrInvalidInput)
	}
	if filepath.IsAbs(dest) || filepath.VolumeName(dest) != "" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, `\`) {
		return "", fmt.Errorf("%w: %w: destination %q must be relative to the save directory",
			entities.ErrInvalidInput, entities.ErrWriteFailed, dest)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("%w: save directory unavailable: %v", entities.ErrWriteFailed, err)
	}
	realRoot, err = filepath.Abs(realRoot)
	if err != nil {
		return "", fmt.Errorf("%w: save directory unavailable: %v", entities.ErrWriteFailed, err)
	}

	escapes := fmt.Errorf("%w: %w: destination %q leaves the save directory",
		entities.ErrInvalidInput, entities.ErrWriteFailed, dest)

	target := filepath.Join(realRoot, dest)
	if !isWithin(realRoot, target) {
		return "", escapes
	}
	if target == realRoot {
		return target, nil
	}

	// A missing parent is left for the copy to report as a write failure
	if parent, err := filepath.EvalSymlinks(filepath.Dir(target)); err == nil {
		if !isWithin(realRoot, parent) {
			return "", escapes
		}
		target = filepath.Join(parent, filepath.Base(target))
	}
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", escapes
	}
	return target, nil
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Open returns a read handle on the artifact. The caller must close it.
func (a *ArtifactAccess) Open() (io.ReadCloser, error) {
	path := a.session.LastArtifact()
	if path == "" {
		return nil, fmt.Errorf("%w: no speech has been generated yet", entities.ErrNotFound)
	}
	return a.storage.Open(path)
}

// Describe returns the artifact metadata, with its duration when it can be decoded
func (a *ArtifactAccess) Describe() (*entities.AudioArtifact, error) {
	path := a.session.LastArtifact()
	if path == "" {
		return nil, fmt.Errorf("%w: no speech has been generated yet", entities.ErrNotFound)
	}

	artifact, err := a.storage.Stat(path)
	if err != nil {
		return nil, err
	}
	if a.prober == nil {
		return artifact, nil
	}

	rc, err := a.storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	seeker, ok := rc.(io.ReadSeeker)
	if !ok {
		return artifact, nil
	}
	duration, err := a.prober.Probe(seeker)
	if err != nil {
		a.logger.Warn("Failed to probe audio duration", zap.String("path", path), zap.Error(err))
		return artifact, nil
	}
	artifact.Duration = duration
	return artifact, nil
}

// Play hands the artifact to the playback collaborator and blocks until it finishes
func (a *ArtifactAccess) Play(ctx context.Context) error {
	if a.player == nil {
		return errors.New("no audio player configured")
	}

	rc, err := a.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	a.logger.Info("Playing speech", zap.String("path", a.session.LastArtifact()))
	return a.player.Play(ctx, rc)
}

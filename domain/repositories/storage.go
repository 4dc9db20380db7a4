package repositories

import (
	"context"
	"io"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

// ArtifactStorage persists audio artifacts on local storage
type ArtifactStorage interface {
	// PathFor returns the path an artifact with the given base name is written to
	PathFor(name string) string
	// Write replaces the artifact named name with the content of r and returns its path
	Write(ctx context.Context, name string, r io.Reader) (string, int64, error)
	// Open returns a read handle on the artifact at path
	Open(path string) (io.ReadCloser, error)
	// Stat reports the artifact at path, or entities.ErrNotFound
	Stat(path string) (*entities.AudioArtifact, error)
	// CopyTo writes a byte-identical copy of the artifact at path to dest
	CopyTo(path, dest string) (string, error)
}

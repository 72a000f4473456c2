// Package fingerprint derives artifact cache keys from image content.
package fingerprint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/logging"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// SampleChunkSize is how much of the head and of the tail of a file is hashed.
const SampleChunkSize = 8192

// Generator builds cache keys. It is safe for concurrent use.
type Generator struct {
	fs      afero.Fs
	version string
	// memo maps path|size|mtime to the content sample hash.
	memo port.Cache[string, string]
}

var _ port.Fingerprinter = (*Generator)(nil)

// NewGenerator returns a Generator reading images through fs.
func NewGenerator(fs afero.Fs) *Generator {
	return &Generator{fs: fs, version: entity.CacheFormatVersion}
}

// WithHashMemo remembers content hashes so an image tried against several
// backends is only sampled once while its size and mtime are unchanged.
func (g *Generator) WithHashMemo(memo port.Cache[string, string]) *Generator {
	g.memo = memo
	return g
}

// Fingerprint returns the cache key for image rendered by backend in the given
// mode. When the file cannot be statted or sampled the key falls back to the
// path and parameters alone and Degraded is set.
func (g *Generator) Fingerprint(ctx context.Context, image, backend string, isLight bool, saturation string) entity.Fingerprint {
	mode := modeName(isLight)
	sat := saturation
	if sat == "" {
		sat = "0"
	}

	info, err := g.fs.Stat(image)
	if err == nil {
		var imageHash string
		imageHash, err = g.memoizedHash(image, info.Size(), info.ModTime().UnixNano())
		if err == nil {
			return entity.Fingerprint{
				Key: digest(
					imageHash,
					backend,
					mode,
					sat,
					strconv.FormatInt(info.Size(), 10),
					strconv.FormatInt(info.ModTime().Unix(), 10),
					g.version,
				),
				ImageHash: imageHash,
			}
		}
	}

	logging.FromContext(ctx).Warn().
		Err(err).
		Str("image", image).
		Str("backend", backend).
		Msg("image unreadable, using path-based cache key")

	return entity.Fingerprint{
		Key:      digest(image, backend, mode, sat, g.version),
		Degraded: true,
	}
}

// ImageHash hashes the first and last SampleChunkSize bytes of a file.
// Small files contribute their whole content twice.
func (g *Generator) ImageHash(image string) (string, error) {
	f, err := g.fs.Open(image)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", entity.ErrTransientIO, image, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, SampleChunkSize)

	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read %s: %w", entity.ErrTransientIO, image, err)
	}
	_, _ = h.Write(buf[:n])

	if n > 0 {
		if _, err := f.Seek(-int64(n), io.SeekEnd); err != nil {
			return "", fmt.Errorf("%w: seek %s: %w", entity.ErrTransientIO, image, err)
		}
		tail, err := io.ReadFull(f, buf[:n])
		if err != nil {
			return "", fmt.Errorf("%w: read tail %s: %w", entity.ErrTransientIO, image, err)
		}
		_, _ = h.Write(buf[:tail])
	}

	return hex.EncodeToString(h.Sum(nil))[:entity.FingerprintLength], nil
}

func (g *Generator) memoizedHash(image string, size, mtime int64) (string, error) {
	if g.memo == nil {
		return g.ImageHash(image)
	}
	memoKey := image + "|" + strconv.FormatInt(size, 10) + "|" + strconv.FormatInt(mtime, 10)
	if h, ok := g.memo.Get(memoKey); ok {
		return h, nil
	}
	h, err := g.ImageHash(image)
	if err != nil {
		return "", err
	}
	g.memo.Set(memoKey, h)
	return h, nil
}

func digest(parts ...string) string {
	sum := blake3.Sum256([]byte(strings.Join(parts, "_")))
	return hex.EncodeToString(sum[:])[:entity.FingerprintLength]
}

func modeName(isLight bool) string {
	if isLight {
		return "light"
	}
	return "dark"
}

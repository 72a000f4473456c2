package artifactstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/klauspost/compress/gzip"
)

// encoded is an artifact ready to be written.
type encoded struct {
	data []byte
	// plainSize is the length of the indented JSON form, used to estimate
	// what compression saved.
	plainSize int
}

func encodeArtifact(a *entity.Artifact, compress bool) (encoded, error) {
	indented, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return encoded{}, fmt.Errorf("encode artifact: %w", err)
	}
	if !compress {
		return encoded{data: indented, plainSize: len(indented)}, nil
	}

	compact, err := json.Marshal(a)
	if err != nil {
		return encoded{}, fmt.Errorf("encode artifact: %w", err)
	}
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return encoded{}, fmt.Errorf("compress artifact: %w", err)
	}
	if _, err := zw.Write(compact); err != nil {
		return encoded{}, fmt.Errorf("compress artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return encoded{}, fmt.Errorf("compress artifact: %w", err)
	}
	return encoded{data: buf.Bytes(), plainSize: len(indented)}, nil
}

func decodeArtifact(data []byte, compressed bool) (*entity.Artifact, error) {
	raw := data
	if compressed {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip header: %w", entity.ErrCorruptArtifact, err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip stream: %w", entity.ErrCorruptArtifact, err)
		}
	}

	var a entity.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrCorruptArtifact, err)
	}
	return &a, nil
}

// compressionSaved is never negative.
func (e encoded) compressionSaved() int64 {
	return max(0, int64(e.plainSize-len(e.data)))
}

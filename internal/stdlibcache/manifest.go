package stdlibcache

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// WriteManifest encodes meta as the human-readable .apexdb sidecar
// (spec.md §4.6 Expansion) so an operator can inspect a snapshot's
// provenance without a binary reader.
func WriteManifest(w io.Writer, meta Metadata) error {
	data, err := toml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("stdlibcache: encode manifest: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ReadManifest decodes a sidecar manifest written by WriteManifest.
func ReadManifest(r io.Reader) (Metadata, error) {
	var meta Metadata
	buf, err := io.ReadAll(r)
	if err != nil {
		return meta, fmt.Errorf("stdlibcache: read manifest: %w", err)
	}
	if err := toml.Unmarshal(buf, &meta); err != nil {
		return meta, fmt.Errorf("stdlibcache: decode manifest: %w", err)
	}
	return meta, nil
}

package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Codec encodes and decodes snapshots on a stream.
type Codec interface {
	Encode(w io.Writer, snap *Snapshot) error
	Decode(r io.Reader) (*Snapshot, error)

	// Extension is the canonical file suffix for this codec.
	Extension() string
}

// JSONCodec stores snapshots as plain JSON.
type JSONCodec struct{}

// Encode writes snap as JSON.
func (JSONCodec) Encode(w io.Writer, snap *Snapshot) error {
	err := json.NewEncoder(w).Encode(snap)
	if err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}

// Decode reads a JSON snapshot.
func (JSONCodec) Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot

	err := json.NewDecoder(r).Decode(&snap)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	return &snap, nil
}

// Extension returns ".json".
func (JSONCodec) Extension() string { return ".json" }

// LZ4Codec stores snapshots as JSON inside an LZ4 frame. Tree content is
// highly repetitive source text, which the frame compressor handles well.
type LZ4Codec struct{}

// Encode writes snap as LZ4-framed JSON.
func (LZ4Codec) Encode(w io.Writer, snap *Snapshot) error {
	zw := lz4.NewWriter(w)

	err := json.NewEncoder(zw).Encode(snap)
	if err != nil {
		return fmt.Errorf("write lz4 json: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("flush lz4 frame: %w", err)
	}

	return nil
}

// Decode reads an LZ4-framed JSON snapshot.
func (LZ4Codec) Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot

	err := json.NewDecoder(lz4.NewReader(r)).Decode(&snap)
	if err != nil {
		return nil, fmt.Errorf("read lz4 json: %w", err)
	}

	return &snap, nil
}

// Extension returns ".json.lz4".
func (LZ4Codec) Extension() string { return ".json.lz4" }

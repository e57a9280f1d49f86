package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/mcpalette/internal/extract"
)

// StreamFile is the compressed JSON-lines copy of full_blocks.json.
const StreamFile = "full_blocks.jsonl.zst"

// WriteStream writes one MaterialEntry per line through a zstd encoder.
func (w *Writer) WriteStream(materials []extract.Material) (err error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	p := filepath.Join(w.dir, StreamFile)
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := writeLines(enc, materials); err != nil {
		_ = enc.Close()
		return fmt.Errorf("writing %s: %w", StreamFile, err)
	}
	return enc.Close()
}

func writeLines(dst io.Writer, materials []extract.Material) error {
	bw := bufio.NewWriterSize(dst, 128*1024)
	je := json.NewEncoder(bw)
	for _, m := range materials {
		if err := je.Encode(NewMaterialEntry(m)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadStream decodes a stream written by WriteStream.
func ReadStream(path string) ([]MaterialEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var entries []MaterialEntry
	jd := json.NewDecoder(dec)
	for {
		var e MaterialEntry
		if err := jd.Decode(&e); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

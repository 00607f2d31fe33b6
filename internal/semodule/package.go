// Package semodule reads compiled SELinux policy module packages (.pp) far
// enough to extract the embedded file-context text. Nothing else in the
// container is interpreted.
//
// A package is a little-endian stream of u32 words: a header (magic,
// version, section count, one offset per section) followed by the sections.
// Each section starts with its own u32 tag; the file-context section's
// payload runs from just past the tag to the next section's offset, or to
// the end of the stream for the last section.
package semodule

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	packageMagic   uint32 = 0xf97cff8f
	packageVersion uint32 = 1

	// sectionFileContexts tags the section holding the file-context text.
	// Sections with any other tag are skipped without parsing.
	sectionFileContexts uint32 = 0xf97cff90
)

// ErrFormat reports a malformed or unsupported module package. It is fatal
// for the package being read and has no effect on other packages in a batch.
var ErrFormat = errors.New("invalid module package")

// FileContexts extracts the file-context text embedded in package bytes.
// A package without a file-context section yields the empty string.
func FileContexts(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("%w: truncated header", ErrFormat)
	}
	u32 := func(off int) uint32 {
		return binary.LittleEndian.Uint32(data[off:])
	}

	if magic := u32(0); magic != packageMagic {
		return "", fmt.Errorf("%w: bad magic 0x%08x", ErrFormat, magic)
	}
	if version := u32(4); version != packageVersion {
		return "", fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}

	count := int(u32(8))
	if count < 0 || len(data) < 12+4*count {
		return "", fmt.Errorf("%w: truncated offset table", ErrFormat)
	}
	offsets := make([]int, count)
	for i := range offsets {
		offsets[i] = int(u32(12 + 4*i))
	}

	for i, off := range offsets {
		if off < 0 || off+4 > len(data) {
			return "", fmt.Errorf("%w: section %d offset %d out of range", ErrFormat, i, off)
		}
		if u32(off) != sectionFileContexts {
			continue
		}
		end := len(data)
		if i+1 < count {
			end = offsets[i+1]
		}
		if end < off+4 || end > len(data) {
			return "", fmt.Errorf("%w: section %d ends at %d, outside the stream", ErrFormat, i, end)
		}
		return string(data[off+4 : end]), nil
	}
	return "", nil
}

// ReadFileContexts reads a package file and extracts its file-context text.
// Module stores keep packages compressed, so bzip2 and gzip payloads are
// decompressed transparently.
func ReadFileContexts(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read package: %w", err)
	}
	data, err := decompress(raw)
	if err != nil {
		return "", err
	}
	return FileContexts(data)
}

func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte("BZh")):
		out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: bzip2: %v", ErrFormat, err)
		}
		return out, nil

	case bytes.HasPrefix(data, []byte{0x1f, 0x8b}):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrFormat, err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrFormat, err)
		}
		return out, nil
	}
	return data, nil
}

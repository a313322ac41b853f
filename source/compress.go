// Copyright (c) 2025 The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-cdcodec.
//
// go-cdcodec is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-cdcodec is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-cdcodec.  If not, see <https://www.gnu.org/licenses/>.

package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// MaxImageSize bounds the decoded size of compressed and archived images,
// which are held in memory. It is larger than any CD.
const MaxImageSize = 1 << 30

// IsCompressedExtension checks if an extension is a supported single-stream
// compression format.
func IsCompressedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".xz", ".zst", ".gz":
		return true
	default:
		return false
	}
}

// decompressor returns a reader decoding the stream format named by ext.
func decompressor(ext string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".xz":
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return gr, nil
	default:
		return nil, FormatError{Format: ext, Reason: "not a compressed stream"}
	}
}

// readLimited reads r fully into memory, failing once MaxImageSize is passed.
func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrImageTooLarge, name, MaxImageSize)
	}
	return data, nil
}

// decompressAll decodes a whole compressed image held in r.
func decompressAll(r io.Reader, name string) ([]byte, error) {
	dec, err := decompressor(filepath.Ext(name), r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dec.Close() }()
	return readLimited(dec, name)
}

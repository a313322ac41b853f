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
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"
	"github.com/spf13/afero"
)

// RARArchive provides access to files in a RAR archive.
type RARArchive struct {
	file afero.File
	path string
}

// OpenRAR opens a RAR archive on fs for reading.
func OpenRAR(fs afero.Fs, path string) (*RARArchive, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open RAR archive: %w", err)
	}

	return &RARArchive{
		file: file,
		path: path,
	}, nil
}

// scan walks the archive headers from the start, calling visit for every
// regular file until it returns true.
func (ra *RARArchive) scan(visit func(*rardecode.Reader, *rardecode.FileHeader) bool) error {
	if _, err := ra.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek RAR archive: %w", err)
	}

	reader, err := rardecode.NewReader(ra.file)
	if err != nil {
		return fmt.Errorf("create RAR reader: %w", err)
	}

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read RAR header: %w", err)
		}
		if header.IsDir {
			continue
		}
		if visit(reader, header) {
			return nil
		}
	}
}

// List returns all files in the RAR archive.
func (ra *RARArchive) List() ([]FileInfo, error) {
	var files []FileInfo //nolint:prealloc // RAR file count unknown until full scan
	err := ra.scan(func(_ *rardecode.Reader, header *rardecode.FileHeader) bool {
		files = append(files, FileInfo{
			Name: header.Name,
			Size: header.UnPackedSize,
		})
		return false
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Open opens a file within the RAR archive.
// RAR archives require sequential reading, so this seeks through the archive.
func (ra *RARArchive) Open(internalPath string) (io.ReadCloser, int64, error) {
	internalPath = filepath.ToSlash(internalPath)

	var (
		found io.ReadCloser
		size  int64
	)
	err := ra.scan(func(reader *rardecode.Reader, header *rardecode.FileHeader) bool {
		if !strings.EqualFold(header.Name, internalPath) {
			return false
		}
		found = io.NopCloser(reader)
		size = header.UnPackedSize
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	if found == nil {
		return nil, 0, FileNotFoundError{
			Archive:      ra.path,
			InternalPath: internalPath,
		}
	}
	return found, size, nil
}

// OpenReaderAt opens a file and returns an io.ReaderAt interface.
// The file contents are buffered in memory.
//
//nolint:revive // 4 return values is necessary for this interface pattern
func (ra *RARArchive) OpenReaderAt(internalPath string) (io.ReaderAt, int64, io.Closer, error) {
	return bufferFile(ra, internalPath)
}

// Close closes the RAR archive.
func (ra *RARArchive) Close() error {
	return ra.file.Close() //nolint:wrapcheck // Close error passthrough is intentional
}

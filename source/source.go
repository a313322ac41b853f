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

// Package source opens raw CD images for the codec: plain .bin/.img dumps,
// single-stream compressed dumps (.xz, .zst, .gz), FLAC-compressed audio
// tracks, and images inside ZIP, 7z and RAR archives, including MiSTer-style
// "disc.zip/track01.bin" paths.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Image is a random-access view of the raw bytes of a disc image. Name is the
// path it was opened from, including any path inside an archive.
type Image struct {
	reader io.ReaderAt
	closer io.Closer
	Name   string
	Size   int64
}

// ReadAt implements io.ReaderAt.
func (im *Image) ReadAt(p []byte, off int64) (int, error) {
	return im.reader.ReadAt(p, off) //nolint:wrapcheck // ReaderAt passthrough
}

// Close releases the underlying file, if any.
func (im *Image) Close() error {
	if im.closer == nil {
		return nil
	}
	return im.closer.Close() //nolint:wrapcheck // Close error passthrough is intentional
}

// Sectors returns the number of whole sectors of sectorSize bytes.
func (im *Image) Sectors(sectorSize int) int64 {
	if sectorSize <= 0 {
		return 0
	}
	return im.Size / int64(sectorSize)
}

func memoryImage(name string, data []byte) *Image {
	return &Image{
		reader: &byteReaderAt{data: data},
		closer: nopCloser{},
		Name:   name,
		Size:   int64(len(data)),
	}
}

// Open opens the image at path on fs. Archives are searched for the first
// raw image when no internal path is given. Everything except plain files is
// decoded into memory.
func Open(fs afero.Fs, path string) (*Image, error) {
	archivePath, err := ParsePath(fs, path)
	if err != nil {
		return nil, err
	}
	if archivePath != nil {
		return openFromArchive(fs, archivePath)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case IsCompressedExtension(ext):
		file, err := fs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer func() { _ = file.Close() }()
		data, err := decompressAll(file, path)
		if err != nil {
			return nil, err
		}
		return memoryImage(path, data), nil

	case ext == ".flac":
		file, err := fs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer func() { _ = file.Close() }()
		data, err := decodeFLAC(file)
		if err != nil {
			return nil, err
		}
		return memoryImage(path, data), nil

	default:
		file, size, err := openSized(fs, path)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		return &Image{reader: file, closer: file, Name: path, Size: size}, nil
	}
}

func openFromArchive(fs afero.Fs, p *Path) (*Image, error) {
	arc, err := OpenArchive(fs, p.ArchivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = arc.Close() }()

	internalPath := p.InternalPath
	if internalPath == "" {
		internalPath, err = DetectImageFile(arc, p.ArchivePath)
		if err != nil {
			return nil, err
		}
	}
	name := p.ArchivePath + "/" + internalPath

	ext := strings.ToLower(filepath.Ext(internalPath))
	if ext == ".flac" || IsCompressedExtension(ext) {
		reader, _, err := arc.Open(internalPath)
		if err != nil {
			return nil, fmt.Errorf("open file in archive: %w", err)
		}
		defer func() { _ = reader.Close() }()

		var data []byte
		if ext == ".flac" {
			data, err = decodeFLAC(reader)
		} else {
			data, err = decompressAll(reader, internalPath)
		}
		if err != nil {
			return nil, err
		}
		return memoryImage(name, data), nil
	}

	reader, size, closer, err := arc.OpenReaderAt(internalPath)
	if err != nil {
		return nil, err //nolint:wrapcheck // already wrapped by bufferFile
	}
	return &Image{reader: reader, closer: closer, Name: name, Size: size}, nil
}

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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Path represents a parsed archive path with optional internal path.
type Path struct {
	ArchivePath  string // Path to the archive file
	InternalPath string // Path inside the archive (empty means auto-detect)
}

// archiveExtensions are the supported archive extensions.
var archiveExtensions = []string{".zip", ".7z", ".rar"}

// ParsePath parses a path that may reference a file inside an archive on fsys.
// It supports MiSTer-style paths like "/path/to/disc.zip/disc.bin".
//
// Returns:
//   - (*Path, nil) if the path contains an archive reference
//   - (nil, nil) if the path is not an archive reference
//   - (nil, error) if there was an error checking the path
//
//nolint:nilnil // nil,nil is documented API behavior
func ParsePath(fsys afero.Fs, path string) (*Path, error) {
	normalizedPath := filepath.ToSlash(path)
	lowerPath := strings.ToLower(normalizedPath)

	for _, ext := range archiveExtensions {
		idx := strings.Index(lowerPath, ext+"/")
		if idx == -1 {
			continue
		}

		archivePath := path[:idx+len(ext)]
		exists, err := archiveExists(fsys, archivePath)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		return &Path{
			ArchivePath:  archivePath,
			InternalPath: path[idx+len(ext)+1:],
		}, nil
	}

	if !IsArchiveExtension(filepath.Ext(path)) {
		return nil, nil
	}
	exists, err := archiveExists(fsys, path)
	if err != nil || !exists {
		return nil, err
	}
	return &Path{ArchivePath: path}, nil
}

func archiveExists(fsys afero.Fs, path string) (bool, error) {
	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat archive %s: %w", path, err)
	}
	return true, nil
}

// IsArchivePath checks if a path references an archive.
// This is a quick check that doesn't verify file existence.
func IsArchivePath(path string) bool {
	normalizedPath := strings.ToLower(filepath.ToSlash(path))
	for _, ext := range archiveExtensions {
		if strings.Contains(normalizedPath, ext+"/") {
			return true
		}
	}
	return IsArchiveExtension(filepath.Ext(path))
}

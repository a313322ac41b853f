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
	"path/filepath"
	"strings"
)

// imageExtensions are the extensions of raw sector dumps and the audio tracks
// that accompany them.
var imageExtensions = map[string]bool{
	".bin":  true,
	".img":  true,
	".raw":  true,
	".flac": true,
}

// IsImageFile checks if a filename has a raw disc image extension.
func IsImageFile(filename string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(filename))]
}

// DetectImageFile finds the first raw disc image in an archive.
func DetectImageFile(arc Archive, name string) (string, error) {
	files, err := arc.List()
	if err != nil {
		return "", fmt.Errorf("list archive files: %w", err)
	}

	for _, file := range files {
		if IsImageFile(file.Name) {
			return file.Name, nil
		}
	}

	return "", NoImageFilesError{Archive: name}
}

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

package sector

import (
	"errors"
	"fmt"
)

// Common errors for sector operations.
var (
	// ErrInvalidLength indicates a buffer that is not a whole raw sector.
	ErrInvalidLength = errors.New("invalid sector length")

	// ErrUnsupportedTag indicates a field that the sector mode does not have.
	ErrUnsupportedTag = errors.New("unsupported sector tag")

	// ErrUnknownMode indicates an unrecognised mode name.
	ErrUnknownMode = errors.New("unknown sector mode")

	// ErrUnknownTag indicates an unrecognised tag name.
	ErrUnknownTag = errors.New("unknown sector tag")
)

// UnsupportedTagError reports a field requested from a mode that lacks it.
type UnsupportedTagError struct {
	Mode Mode
	Tag  Tag
}

func (e UnsupportedTagError) Error() string {
	return fmt.Sprintf("%s sectors have no %s field", e.Mode, e.Tag)
}

// Unwrap lets errors.Is match ErrUnsupportedTag.
func (UnsupportedTagError) Unwrap() error {
	return ErrUnsupportedTag
}

func checkLength(buf []byte) error {
	if len(buf) != RawSize && len(buf) != RawWithSubchannelSize {
		return fmt.Errorf("%w: %d bytes, need %d or %d", ErrInvalidLength, len(buf), RawSize, RawWithSubchannelSize)
	}
	return nil
}

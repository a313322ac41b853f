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

// Package sector checks, rebuilds and slices raw 2352-byte CD sectors: the
// sync pattern, header, sub-header, EDC and the two-dimensional ECC.
package sector

import (
	"fmt"
	"strings"
)

// Sector geometry.
const (
	// RawSize is the size of a raw sector without subchannel.
	RawSize = 2352

	// SubchannelSize is the size of the raw interleaved subchannel of a sector.
	SubchannelSize = 96

	// RawWithSubchannelSize is the size of a raw sector followed by its
	// subchannel.
	RawWithSubchannelSize = RawSize + SubchannelSize

	// SyncSize is the size of the sync pattern.
	SyncSize = 12
)

// Mode is the layout of a track's sectors.
type Mode int

// Track modes.
const (
	Audio Mode = iota
	Mode1
	Mode2Formless
	Mode2Form1
	Mode2Form2
)

var modeNames = [...]string{
	Audio:         "audio",
	Mode1:         "mode1",
	Mode2Formless: "mode2",
	Mode2Form1:    "mode2form1",
	Mode2Form2:    "mode2form2",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the mode named s, as printed by Mode.String. Matching is
// case-insensitive.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return Audio, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Tag names a field of a raw sector.
type Tag int

// Sector fields.
const (
	Sync Tag = iota
	Header
	SubHeader
	EccP
	EccQ
	Ecc
	Edc
	Subchannel
	UserData
)

var tagNames = [...]string{
	Sync:       "sync",
	Header:     "header",
	SubHeader:  "subheader",
	EccP:       "eccp",
	EccQ:       "eccq",
	Ecc:        "ecc",
	Edc:        "edc",
	Subchannel: "subchannel",
	UserData:   "userdata",
}

func (t Tag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// ParseTag returns the tag named s, as printed by Tag.String. Matching is
// case-insensitive.
func ParseTag(s string) (Tag, error) {
	for i, name := range tagNames {
		if strings.EqualFold(s, name) {
			return Tag(i), nil
		}
	}
	return Sync, fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

var syncPattern = [SyncSize]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// HasSync reports whether buf starts with the data sector sync pattern.
func HasSync(buf []byte) bool {
	return len(buf) >= SyncSize && [SyncSize]byte(buf[:SyncSize]) == syncPattern
}

// formBit is the sub-header submode bit selecting Form 2.
const formBit = 0x20

// DetectMode guesses the mode of a raw sector from its sync, mode byte and
// sub-header. Sectors without sync are audio. Mode 0 sectors are reported as
// Mode1, which shares their layout. Mode 2 sectors whose two sub-header copies
// disagree are reported as formless.
func DetectMode(buf []byte) Mode {
	if len(buf) < 0x18 || !HasSync(buf) {
		return Audio
	}
	switch buf[0x0F] & 0x03 {
	case 0, 1:
		return Mode1
	case 2:
		if [4]byte(buf[0x10:0x14]) != [4]byte(buf[0x14:0x18]) {
			return Mode2Formless
		}
		if buf[0x12]&formBit != 0 {
			return Mode2Form2
		}
		return Mode2Form1
	default:
		return Audio
	}
}

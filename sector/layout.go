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

import "fmt"

// Layout locates a field within one sector: Offset bytes are skipped, Length
// bytes are the field, and Skip bytes follow it up to the end of the sector.
type Layout struct {
	Offset int
	Length int
	Skip   int
}

type fieldSpan struct {
	offset int
	length int
}

var (
	syncSpan   = fieldSpan{0, SyncSize}
	headerSpan = fieldSpan{offHeader, 4}
	eccPSpan   = fieldSpan{offEccP, 172}
	eccQSpan   = fieldSpan{offEccQ, 104}
	eccSpan    = fieldSpan{offEccP, 276}
	subSpan    = fieldSpan{offData, 8}
)

var layouts = map[Mode]map[Tag]fieldSpan{
	Audio: {
		UserData: {0, RawSize},
	},
	Mode1: {
		Sync:     syncSpan,
		Header:   headerSpan,
		UserData: {offData, 2048},
		Edc:      {offMode1EDC, edcSize},
		EccP:     eccPSpan,
		EccQ:     eccQSpan,
		Ecc:      eccSpan,
	},
	Mode2Formless: {
		Sync:     syncSpan,
		Header:   headerSpan,
		UserData: {offData, 2336},
	},
	Mode2Form1: {
		Sync:      syncSpan,
		Header:    headerSpan,
		SubHeader: subSpan,
		UserData:  {0x18, 2048},
		Edc:       {offForm1EDC, edcSize},
		EccP:      eccPSpan,
		EccQ:      eccQSpan,
		Ecc:       eccSpan,
	},
	Mode2Form2: {
		Sync:      syncSpan,
		Header:    headerSpan,
		SubHeader: subSpan,
		UserData:  {0x18, 2324},
		Edc:       {offForm2EDC, edcSize},
	},
}

// LayoutFor returns where tag lives in sectors of the given mode. The
// subchannel follows the 2352 bytes of every mode. Fields a mode lacks return
// an UnsupportedTagError.
func LayoutFor(mode Mode, tag Tag) (Layout, error) {
	if tag == Subchannel {
		return Layout{Offset: RawSize, Length: SubchannelSize}, nil
	}
	span, ok := layouts[mode][tag]
	if !ok {
		return Layout{}, UnsupportedTagError{Mode: mode, Tag: tag}
	}
	return Layout{
		Offset: span.offset,
		Length: span.length,
		Skip:   RawSize - span.offset - span.length,
	}, nil
}

// Extract copies tag out of every sector of a contiguous buffer of raw
// sectors. sectorSize is RawSize or RawWithSubchannelSize; Subchannel needs
// the latter.
func Extract(buf []byte, sectorSize int, mode Mode, tag Tag) ([]byte, error) {
	if sectorSize != RawSize && sectorSize != RawWithSubchannelSize {
		return nil, fmt.Errorf("%w: sector size %d", ErrInvalidLength, sectorSize)
	}
	if len(buf)%sectorSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(buf), sectorSize)
	}

	layout, err := LayoutFor(mode, tag)
	if err != nil {
		return nil, err
	}
	if layout.Offset+layout.Length > sectorSize {
		return nil, fmt.Errorf("%w: %s needs %d-byte sectors", ErrInvalidLength, tag, RawWithSubchannelSize)
	}

	count := len(buf) / sectorSize
	out := make([]byte, 0, count*layout.Length)
	for i := range count {
		base := i * sectorSize
		out = append(out, buf[base+layout.Offset:base+layout.Offset+layout.Length]...)
	}
	return out, nil
}

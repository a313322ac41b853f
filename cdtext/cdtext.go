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

// Package cdtext decodes CD-TEXT as read from the lead-in (READ TOC/PMA/ATIP
// format 5): a header followed by 18-byte packs, each protected by a CRC-16.
package cdtext

import (
	"encoding/binary"
	"fmt"

	"github.com/ZaparooProject/go-cdcodec/checksum"
	"github.com/ZaparooProject/go-cdcodec/internal/mmc"
)

// PackSize is the size of one CD-TEXT pack.
const PackSize = 18

// TextSize is the size of the text field of a pack.
const TextSize = 12

// PackType is the ID1 byte of a pack.
type PackType byte

// Pack types.
const (
	TypeTitle      PackType = 0x80
	TypePerformer  PackType = 0x81
	TypeSongwriter PackType = 0x82
	TypeComposer   PackType = 0x83
	TypeArranger   PackType = 0x84
	TypeMessage    PackType = 0x85
	TypeDiscID     PackType = 0x86
	TypeGenre      PackType = 0x87
	TypeTOC        PackType = 0x88
	TypeTOC2       PackType = 0x89
	TypeClosedInfo PackType = 0x8D
	TypeUPCISRC    PackType = 0x8E
	TypeSizeInfo   PackType = 0x8F
)

var packTypeNames = map[PackType]string{
	TypeTitle:      "title",
	TypePerformer:  "performer",
	TypeSongwriter: "songwriter",
	TypeComposer:   "composer",
	TypeArranger:   "arranger",
	TypeMessage:    "message",
	TypeDiscID:     "disc identification",
	TypeGenre:      "genre",
	TypeTOC:        "table of contents",
	TypeTOC2:       "second table of contents",
	TypeClosedInfo: "closed information",
	TypeUPCISRC:    "UPC/EAN or ISRC",
	TypeSizeInfo:   "block size information",
}

// String returns the name of the pack type.
func (t PackType) String() string {
	if name, ok := packTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown pack type 0x%02X", byte(t))
}

// IsText reports whether packs of this type carry NUL-terminated strings.
func (t PackType) IsText() bool {
	return (t >= TypeTitle && t <= TypeDiscID) || t == TypeUPCISRC
}

// Pack is one CD-TEXT pack. Raw always holds the bytes as read. The decoded
// fields are only filled in when Interpreted is set, which requires the top bit
// of ID1.
type Pack struct {
	Raw               [PackSize]byte
	Text              [TextSize]byte
	CRC               uint16
	Type              PackType
	HeaderID2         byte
	HeaderID3         byte
	BlockNumber       byte
	CharacterPosition byte
	DBCC              bool
	Interpreted       bool
	CRCOK             bool
}

// Track returns the track number of the pack, with the extension flag removed.
func (p Pack) Track() byte {
	return p.HeaderID2 & 0x7F
}

// Extension reports whether the pack belongs to an extension block.
func (p Pack) Extension() bool {
	return p.HeaderID2&0x80 != 0
}

// CDText is a CD-TEXT response.
type CDText struct {
	Packs      []Pack
	DataLength uint16
	Reserved1  byte
	Reserved2  byte
}

// DecodePack decodes one pack. A stored CRC of zero counts as absent and is
// accepted.
func DecodePack(raw [PackSize]byte) Pack {
	p := Pack{Raw: raw}
	if raw[0]&0x80 == 0 {
		return p
	}

	p.Interpreted = true
	p.Type = PackType(raw[0])
	p.HeaderID2 = raw[1]
	p.HeaderID3 = raw[2]
	p.DBCC = raw[3]&0x80 != 0
	p.BlockNumber = (raw[3] >> 4) & 0x07
	p.CharacterPosition = raw[3] & 0x0F
	copy(p.Text[:], raw[4:16])
	p.CRC = binary.BigEndian.Uint16(raw[16:18])
	p.CRCOK = p.CRC == 0 || p.CRC == checksum.CRC16(raw[:16])
	return p
}

// Decode parses a CD-TEXT response. Packs whose ID1 lacks the top bit are kept
// raw. A trailing partial pack is ignored.
func Decode(buf []byte) (*CDText, bool) {
	h, ok := mmc.ParseHeader(buf)
	if !ok {
		return nil, false
	}

	records := mmc.Records(buf, PackSize)
	c := &CDText{
		DataLength: h.DataLength,
		Reserved1:  h.Field1,
		Reserved2:  h.Field2,
		Packs:      make([]Pack, 0, len(records)),
	}
	for _, rec := range records {
		c.Packs = append(c.Packs, DecodePack([PackSize]byte(rec)))
	}
	return c, true
}

// Bytes serialises the packs as stored in Raw, with a recomputed data length.
func (c *CDText) Bytes() []byte {
	buf := mmc.NewResponse(c.Reserved1, c.Reserved2, len(c.Packs)*PackSize)
	if buf == nil {
		return nil
	}
	for i, p := range c.Packs {
		copy(buf[mmc.HeaderSize+i*PackSize:], p.Raw[:])
	}
	return buf
}

// BadPacks returns the indexes of interpreted packs whose CRC does not match.
func (c *CDText) BadPacks() []int {
	var bad []int
	for i, p := range c.Packs {
		if p.Interpreted && !p.CRCOK {
			bad = append(bad, i)
		}
	}
	return bad
}

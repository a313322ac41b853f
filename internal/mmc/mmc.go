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

// Package mmc holds the framing shared by MMC READ TOC/PMA/ATIP responses: a
// big-endian data length counting every byte after itself, two format-specific
// bytes, then fixed-size descriptors.
package mmc

import (
	"encoding/binary"
	"math"
)

// HeaderSize is the size of the response header.
const HeaderSize = 4

// Header is the 4-byte response header.
type Header struct {
	DataLength uint16
	Field1     byte
	Field2     byte
}

// ParseHeader returns the header of buf and whether buf is a well-formed
// response: longer than the header, with a data length equal to len(buf)-2.
func ParseHeader(buf []byte) (Header, bool) {
	if len(buf) <= HeaderSize {
		return Header{}, false
	}
	h := Header{
		DataLength: binary.BigEndian.Uint16(buf[0:2]),
		Field1:     buf[2],
		Field2:     buf[3],
	}
	return h, int(h.DataLength)+2 == len(buf)
}

// Records splits the payload after the header into size-byte records. A
// trailing partial record is ignored.
func Records(buf []byte, size int) [][]byte {
	if len(buf) <= HeaderSize || size <= 0 {
		return nil
	}
	payload := buf[HeaderSize:]
	records := make([][]byte, 0, len(payload)/size)
	for off := 0; off+size <= len(payload); off += size {
		records = append(records, payload[off:off+size])
	}
	return records
}

// NewResponse allocates a response with room for payloadLen bytes after the
// header and fills in the header. Lengths that do not fit the 16-bit data
// length field return nil.
func NewResponse(field1, field2 byte, payloadLen int) []byte {
	if payloadLen < 0 || payloadLen+2 > math.MaxUint16 {
		return nil
	}
	buf := make([]byte, HeaderSize+payloadLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(payloadLen+2)) //nolint:gosec // bounded above
	buf[2] = field1
	buf[3] = field2
	return buf
}

// SplitADRControl splits the byte MMC responses use for ADR (high nibble) and
// CONTROL (low nibble). Subchannel Q frames store the two the other way round.
func SplitADRControl(b byte) (adr, control byte) {
	return b >> 4, b & 0x0F
}

// JoinADRControl is the inverse of SplitADRControl.
func JoinADRControl(adr, control byte) byte {
	return adr<<4 | control&0x0F
}

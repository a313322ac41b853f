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

// Package atip decodes the ATIP (Absolute Time In Pregap) response returned by
// READ TOC/PMA/ATIP format 4 on recordable media.
package atip

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/ZaparooProject/go-cdcodec/internal/mmc"
	"github.com/ZaparooProject/go-cdcodec/msf"
)

// Response sizes. The S4 triplet is only present in the longer form.
const (
	ShortSize = 28
	LongSize  = 32
)

// ATIP is a decoded ATIP response.
type ATIP struct {
	S4             *[3]byte
	LeadInStart    msf.MSF
	LeadOutStart   msf.MSF
	A1             [3]byte
	A2             [3]byte
	A3             [3]byte
	DataLength     uint16
	Reserved1      byte
	Reserved2      byte
	ITWP           byte // indicative target writing power
	ReferenceSpeed byte
	Reserved3      byte
	DiscSubType    byte
	Reserved4      byte
	Reserved5      byte
	Reserved6      byte
	Reserved7      byte
	Reserved8      byte
	Reserved9      byte
	Reserved10     byte
	DDCD           bool
	AlwaysZero     bool
	URU            bool // unrestricted use
	AlwaysOne      bool
	DiscType       bool // set for rewritable media
	A1Valid        bool
	A2Valid        bool
	A3Valid        bool
}

// Decode parses an ATIP response. It returns false for buffers of the wrong
// size, a data length that disagrees with the buffer, or a cleared always-one
// bit.
func Decode(buf []byte) (*ATIP, bool) {
	if len(buf) != ShortSize && len(buf) != LongSize {
		return nil, false
	}
	h, ok := mmc.ParseHeader(buf)
	if !ok {
		return nil, false
	}

	a := &ATIP{
		DataLength: h.DataLength,
		Reserved1:  h.Field1,
		Reserved2:  h.Field2,
	}

	r := bitio.NewReader(bytes.NewReader(buf[4:8]))
	a.ITWP = byte(r.TryReadBits(4))
	a.DDCD = r.TryReadBool()
	a.ReferenceSpeed = byte(r.TryReadBits(3))
	a.AlwaysZero = r.TryReadBool()
	a.URU = r.TryReadBool()
	a.Reserved3 = byte(r.TryReadBits(6))
	a.AlwaysOne = r.TryReadBool()
	a.DiscType = r.TryReadBool()
	a.DiscSubType = byte(r.TryReadBits(3))
	a.A1Valid = r.TryReadBool()
	a.A2Valid = r.TryReadBool()
	a.A3Valid = r.TryReadBool()
	a.Reserved4 = byte(r.TryReadBits(8))
	if r.TryError != nil || !a.AlwaysOne {
		return nil, false
	}

	a.LeadInStart = msf.MSF{Minute: buf[8], Second: buf[9], Frame: buf[10]}
	a.Reserved5 = buf[11]
	a.LeadOutStart = msf.MSF{Minute: buf[12], Second: buf[13], Frame: buf[14]}
	a.Reserved6 = buf[15]
	copy(a.A1[:], buf[16:19])
	a.Reserved7 = buf[19]
	copy(a.A2[:], buf[20:23])
	a.Reserved8 = buf[23]
	copy(a.A3[:], buf[24:27])
	a.Reserved9 = buf[27]

	if len(buf) == LongSize {
		var s4 [3]byte
		copy(s4[:], buf[28:31])
		a.S4 = &s4
		a.Reserved10 = buf[31]
	}

	return a, true
}

// Bytes serialises the record. The data length is recomputed from whether S4
// is present.
func (a *ATIP) Bytes() []byte {
	size := ShortSize
	if a.S4 != nil {
		size = LongSize
	}
	buf := mmc.NewResponse(a.Reserved1, a.Reserved2, size-mmc.HeaderSize)

	var bits bytes.Buffer
	w := bitio.NewWriter(&bits)
	w.TryWriteBits(uint64(a.ITWP), 4)
	w.TryWriteBool(a.DDCD)
	w.TryWriteBits(uint64(a.ReferenceSpeed), 3)
	w.TryWriteBool(a.AlwaysZero)
	w.TryWriteBool(a.URU)
	w.TryWriteBits(uint64(a.Reserved3), 6)
	w.TryWriteBool(a.AlwaysOne)
	w.TryWriteBool(a.DiscType)
	w.TryWriteBits(uint64(a.DiscSubType), 3)
	w.TryWriteBool(a.A1Valid)
	w.TryWriteBool(a.A2Valid)
	w.TryWriteBool(a.A3Valid)
	w.TryWriteBits(uint64(a.Reserved4), 8)
	_ = w.Close()
	copy(buf[4:8], bits.Bytes())

	buf[8], buf[9], buf[10] = a.LeadInStart.Minute, a.LeadInStart.Second, a.LeadInStart.Frame
	buf[11] = a.Reserved5
	buf[12], buf[13], buf[14] = a.LeadOutStart.Minute, a.LeadOutStart.Second, a.LeadOutStart.Frame
	buf[15] = a.Reserved6
	copy(buf[16:19], a.A1[:])
	buf[19] = a.Reserved7
	copy(buf[20:23], a.A2[:])
	buf[23] = a.Reserved8
	copy(buf[24:27], a.A3[:])
	buf[27] = a.Reserved9
	if a.S4 != nil {
		copy(buf[28:31], a.S4[:])
		buf[31] = a.Reserved10
	}
	return buf
}

// Encode is the inverse of Decode.
func Encode(a *ATIP) []byte {
	if a == nil {
		return nil
	}
	return a.Bytes()
}

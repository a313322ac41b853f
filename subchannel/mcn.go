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

package subchannel

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-cdcodec/msf"
)

// ErrInvalidCode indicates an MCN or ISRC that cannot be encoded.
var ErrInvalidCode = errors.New("invalid MCN/ISRC")

// Lengths of the textual codes.
const (
	MCNLength  = 13
	ISRCLength = 12
)

const hexDigits = "0123456789ABCDEF"

// isrcChars maps the 6-bit ISRC character code to ASCII: 0x00-0x09 are digits,
// 0x11-0x2A letters. The code is simply the ASCII value minus 0x30, so values
// outside those ranges pass through as punctuation.
var isrcChars = func() [64]byte {
	var t [64]byte
	for i := range t {
		t[i] = byte(i) + 0x30 //nolint:gosec // i < 64
	}
	return t
}()

// DecodeMCN returns the 13-digit media catalog number of an ADR 2 frame.
// Nibbles are not validated.
func DecodeMCN(q [12]byte) string {
	buf := make([]byte, 0, MCNLength)
	for i := 1; i <= 7; i++ {
		buf = append(buf, hexDigits[q[i]>>4])
		if len(buf) == MCNLength {
			break
		}
		buf = append(buf, hexDigits[q[i]&0x0F])
	}
	return string(buf)
}

// DecodeISRC returns the 12-character ISRC of an ADR 3 frame: five 6-bit
// characters (country, owner) followed by seven BCD digits (year, serial).
func DecodeISRC(q [12]byte) string {
	buf := []byte{
		isrcChars[q[1]>>2],
		isrcChars[(q[1]&0x03)<<4|q[2]>>4],
		isrcChars[(q[2]&0x0F)<<2|q[3]>>6],
		isrcChars[q[3]&0x3F],
		isrcChars[q[4]>>2],
		hexDigits[q[5]>>4], hexDigits[q[5]&0x0F],
		hexDigits[q[6]>>4], hexDigits[q[6]&0x0F],
		hexDigits[q[7]>>4], hexDigits[q[7]&0x0F],
		hexDigits[q[8]>>4],
	}
	return string(buf)
}

// EncodeMCN builds an ADR 2 frame carrying mcn. aframe is the absolute frame
// number (binary) recorded in byte 9.
func EncodeMCN(mcn string, control, aframe byte) ([12]byte, error) {
	var q [12]byte
	if len(mcn) != MCNLength {
		return q, fmt.Errorf("%w: MCN must have %d digits, got %q", ErrInvalidCode, MCNLength, mcn)
	}
	for i := range MCNLength {
		c := mcn[i]
		if c < '0' || c > '9' {
			return q, fmt.Errorf("%w: MCN digit %q", ErrInvalidCode, c)
		}
		d := c - '0'
		if i%2 == 0 {
			q[1+i/2] |= d << 4
		} else {
			q[1+i/2] |= d
		}
	}
	q[0] = control<<4 | ADRMCN
	q[9] = msf.ToBCD(aframe)
	PutCRC(&q)
	return q, nil
}

// EncodeISRC builds an ADR 3 frame carrying isrc.
func EncodeISRC(isrc string, control, aframe byte) ([12]byte, error) {
	var q [12]byte
	if len(isrc) != ISRCLength {
		return q, fmt.Errorf("%w: ISRC must have %d characters, got %q", ErrInvalidCode, ISRCLength, isrc)
	}

	var chars [5]byte
	for i := range chars {
		c := isrc[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return q, fmt.Errorf("%w: ISRC character %q", ErrInvalidCode, c)
		}
		chars[i] = c - 0x30
	}
	var digits [8]byte
	for i := range 7 {
		c := isrc[5+i]
		if c < '0' || c > '9' {
			return q, fmt.Errorf("%w: ISRC digit %q", ErrInvalidCode, c)
		}
		digits[i] = c - '0'
	}

	q[0] = control<<4 | ADRISRC
	q[1] = chars[0]<<2 | chars[1]>>4
	q[2] = chars[1]<<4 | chars[2]>>2
	q[3] = chars[2]<<6 | chars[3]
	q[4] = chars[4] << 2
	q[5] = digits[0]<<4 | digits[1]
	q[6] = digits[2]<<4 | digits[3]
	q[7] = digits[4]<<4 | digits[5]
	q[8] = digits[6] << 4
	q[9] = msf.ToBCD(aframe)
	PutCRC(&q)
	return q, nil
}

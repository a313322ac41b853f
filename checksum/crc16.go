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

// Package checksum implements the error detection and correction codes used on
// Compact Disc: the CRC-16 protecting subchannel Q frames and CD-TEXT packs, the
// CRC-32 based EDC of data sectors and the Reed-Solomon product code (ECC P/Q).
//
// Every lookup table is computed once during package initialisation and never
// written again, so all functions are safe for concurrent use.
package checksum

// crc16Poly is the CCITT generator x^16 + x^12 + x^5 + 1.
const crc16Poly = 0x1021

var crc16Table = makeCRC16Table()

func makeCRC16Table() [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i) << 8 //nolint:gosec // i < 256
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crc16Poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// CRC16 returns the CRC-16/CCITT of buf in the form stored on disc: seed 0,
// MSB first, with the final remainder inverted.
//
// Subchannel Q frames carry it big-endian in bytes 10-11 over bytes 0-9, CD-TEXT
// packs carry it big-endian in bytes 16-17 over bytes 0-15.
func CRC16(buf []byte) uint16 {
	var crc uint16
	for _, b := range buf {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	return ^crc
}

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

package checksum

// edcPoly is the reflected form of the CD-ROM EDC polynomial
// (x^32 + x^31 + x^16 + x^15 + x^4 + x^3 + x + 1).
const edcPoly = 0xD8018001

var edcTable = makeEDCTable()

func makeEDCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		edc := uint32(i) //nolint:gosec // i < 256
		for range 8 {
			if edc&1 != 0 {
				edc = edc>>1 ^ edcPoly
			} else {
				edc >>= 1
			}
		}
		table[i] = edc
	}
	return table
}

// EDC continues the error detection code computation from seed over buf.
// A sector's EDC is EDC(0, covered) and is stored little-endian.
func EDC(seed uint32, buf []byte) uint32 {
	edc := seed
	for _, b := range buf {
		edc = edc>>8 ^ edcTable[byte(edc)^b]
	}
	return edc
}

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

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a data or parity buffer is smaller than the
// product code geometry requires.
var ErrShortBuffer = errors.New("buffer too short for ECC geometry")

// ECCParams describes one dimension of the CD-ROM Reed-Solomon product code.
//
// The code treats the protected bytes as a matrix of MajorCount x MinorCount
// bytes. Each major row yields two parity bytes, so a full block of parity is
// 2*MajorCount bytes long. The first four logical bytes of the matrix are the
// sector address; the rest come from the data buffer.
type ECCParams struct {
	MajorCount int
	MinorCount int
	MajorMult  int
	MinorInc   int
}

// Geometry of the two parity dimensions of a Mode 1 / Mode 2 Form 1 sector.
var (
	PParity = ECCParams{MajorCount: 86, MinorCount: 24, MajorMult: 2, MinorInc: 86}
	QParity = ECCParams{MajorCount: 52, MinorCount: 43, MajorMult: 86, MinorInc: 88}
)

// ParitySize returns the number of parity bytes produced for p.
func (p ECCParams) ParitySize() int {
	return 2 * p.MajorCount
}

// DataSize returns the number of data bytes read after the 4 address bytes.
func (p ECCParams) DataSize() int {
	return p.MajorCount*p.MinorCount - 4
}

// GF(2^8) with generator 0x11D: eccF multiplies by alpha, eccB is the inverse of
// the mapping i -> i ^ eccF[i].
var eccF, eccB = makeECCTables()

func makeECCTables() (f, b [256]byte) {
	for i := range 256 {
		j := i << 1
		if i&0x80 != 0 {
			j ^= 0x11D
		}
		f[i] = byte(j)   //nolint:gosec // j < 256 after reduction
		b[i^j] = byte(i) //nolint:gosec // i < 256
	}
	return f, b
}

// ECCBlock computes the parity pair of one major row.
//
// The caller must supply at least p.DataSize() bytes of data; ECCBlock does not
// check lengths, CheckECC and WriteECC do.
func ECCBlock(address *[4]byte, data []byte, p ECCParams, major int) (byte, byte) {
	size := p.MajorCount * p.MinorCount
	idx := (major>>1)*p.MajorMult + major&1

	var eccA, eccB0 byte
	for range p.MinorCount {
		var v byte
		if idx < 4 {
			v = address[idx]
		} else {
			v = data[idx-4]
		}
		idx += p.MinorInc
		if idx >= size {
			idx -= size
		}
		eccA ^= v
		eccB0 ^= v
		eccA = eccF[eccA]
	}

	eccA = eccB[eccF[eccA]^eccB0]
	return eccA, eccA ^ eccB0
}

// CheckECC reports whether ecc holds the parity of address+data for geometry p.
// Short buffers never match.
func CheckECC(address *[4]byte, data, ecc []byte, p ECCParams) bool {
	if len(data) < p.DataSize() || len(ecc) < p.ParitySize() {
		return false
	}
	for major := range p.MajorCount {
		a, b := ECCBlock(address, data, p, major)
		if ecc[major] != a || ecc[major+p.MajorCount] != b {
			return false
		}
	}
	return true
}

// WriteECC computes the parity of address+data for geometry p into ecc.
//
// data and ecc may be windows of the same sector: the Q parity span includes the
// P parity bytes, so P must be written before Q when a sector is rebuilt in place.
func WriteECC(address *[4]byte, data, ecc []byte, p ECCParams) error {
	if len(data) < p.DataSize() {
		return fmt.Errorf("%w: data has %d bytes, need %d", ErrShortBuffer, len(data), p.DataSize())
	}
	if len(ecc) < p.ParitySize() {
		return fmt.Errorf("%w: parity has %d bytes, need %d", ErrShortBuffer, len(ecc), p.ParitySize())
	}
	for major := range p.MajorCount {
		a, b := ECCBlock(address, data, p, major)
		ecc[major] = a
		ecc[major+p.MajorCount] = b
	}
	return nil
}

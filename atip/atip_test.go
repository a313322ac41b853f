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

package atip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-cdcodec/msf"
)

// sampleATIP builds a CD-R ATIP response with a Taiyo Yuden lead-in.
func sampleATIP(size int) []byte {
	buf := make([]byte, size)
	buf[0] = 0x00
	buf[1] = byte(size - 2)
	buf[4] = 0x51 // ITWP 5, reference speed 1
	buf[5] = 0x40 // URU
	buf[6] = 0x86 // always one, subtype 0, A1 and A2 valid
	buf[8], buf[9], buf[10] = 97, 24, 1
	buf[12], buf[13], buf[14] = 79, 59, 74
	buf[16], buf[17], buf[18] = 0x01, 0x02, 0x03
	buf[20], buf[21], buf[22] = 0x04, 0x05, 0x06
	if size == LongSize {
		buf[28], buf[29], buf[30] = 0x0A, 0x0B, 0x0C
	}
	return buf
}

func TestDecode(t *testing.T) {
	t.Parallel()

	a, ok := Decode(sampleATIP(ShortSize))
	require.True(t, ok)

	assert.Equal(t, uint16(26), a.DataLength)
	assert.Equal(t, byte(5), a.ITWP)
	assert.False(t, a.DDCD)
	assert.Equal(t, byte(1), a.ReferenceSpeed)
	assert.True(t, a.URU)
	assert.False(t, a.AlwaysZero)
	assert.True(t, a.AlwaysOne)
	assert.False(t, a.DiscType)
	assert.Equal(t, byte(0), a.DiscSubType)
	assert.True(t, a.A1Valid)
	assert.True(t, a.A2Valid)
	assert.False(t, a.A3Valid)
	assert.Equal(t, msf.MSF{Minute: 97, Second: 24, Frame: 1}, a.LeadInStart)
	assert.Equal(t, msf.MSF{Minute: 79, Second: 59, Frame: 74}, a.LeadOutStart)
	assert.Equal(t, [3]byte{1, 2, 3}, a.A1)
	assert.Equal(t, [3]byte{4, 5, 6}, a.A2)
	assert.Nil(t, a.S4)
}

func TestDecodeLong(t *testing.T) {
	t.Parallel()

	a, ok := Decode(sampleATIP(LongSize))
	require.True(t, ok)
	require.NotNil(t, a.S4)
	assert.Equal(t, [3]byte{0x0A, 0x0B, 0x0C}, *a.S4)
}

func TestDecodeRejects(t *testing.T) {
	t.Parallel()

	clearedAlwaysOne := sampleATIP(LongSize)
	clearedAlwaysOne[6] &^= 0x80

	badLength := sampleATIP(ShortSize)
	badLength[1] = 30

	tests := []struct {
		name string
		buf  []byte
	}{
		{"nil", nil},
		{"short", []byte{0, 2, 0, 0}},
		{"five bytes", []byte{0, 3, 0, 0, 0}},
		{"always one cleared", clearedAlwaysOne},
		{"length mismatch", badLength},
		{"odd size", make([]byte, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, ok := Decode(tt.buf)
			assert.False(t, ok)
			assert.Nil(t, a)
		})
	}
}

func TestBytesRoundTrip(t *testing.T) {
	t.Parallel()

	for _, size := range []int{ShortSize, LongSize} {
		buf := sampleATIP(size)
		a, ok := Decode(buf)
		require.True(t, ok)
		assert.Equal(t, buf, a.Bytes())
		assert.Equal(t, buf, Encode(a))
	}
	assert.Nil(t, Encode(nil))
}

func TestManufacturer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Taiyo Yuden Company Limited", Manufacturer(24, 1))
	assert.Equal(t, "Mitsubishi Chemical Corporation", Manufacturer(34, 23))
	assert.Equal(t, "CMC Magnetics Corporation", Manufacturer(26, 66))
	assert.Equal(t, "FUJI Photo Film Co., Ltd.", Manufacturer(26, 44))
	assert.Equal(t, "Moser Baer India Limited", Manufacturer(17, 6))
	assert.Equal(t, "Woongjin Media Corp.", Manufacturer(28, 30))
	assert.Empty(t, Manufacturer(59, 74))
}

func TestPrettify(t *testing.T) {
	t.Parallel()

	a, ok := Decode(sampleATIP(LongSize))
	require.True(t, ok)

	out := Prettify(a)
	assert.Contains(t, out, "Disc is CD-R\n")
	assert.Contains(t, out, "Disc use is unrestricted")
	assert.Contains(t, out, "ATIP start time of lead-in: 97:24:01")
	assert.Contains(t, out, "A1 values: 010203")
	assert.NotContains(t, out, "A3 values")
	assert.Contains(t, out, "S4 values: 0A0B0C")
	assert.Contains(t, out, "Disc manufactured by: Taiyo Yuden Company Limited")
	assert.Empty(t, Prettify(nil))
}

func FuzzDecode(f *testing.F) {
	f.Add(sampleATIP(ShortSize))
	f.Add(sampleATIP(LongSize))
	f.Add([]byte{0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		a, ok := Decode(data)
		if !ok {
			return
		}
		if len(a.Bytes()) != len(data) {
			t.Fatalf("re-encoded length %d, want %d", len(a.Bytes()), len(data))
		}
	})
}

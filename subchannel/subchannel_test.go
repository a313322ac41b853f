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
	"bytes"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-cdcodec/checksum"
	"github.com/ZaparooProject/go-cdcodec/msf"
)

func TestInterleaveRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1)) //nolint:gosec // deterministic test data
	for _, blocks := range []int{0, 1, 2, 7} {
		raw := make([]byte, blocks*BlockSize)
		rng.Read(raw)

		flat, err := Deinterleave(raw)
		require.NoError(t, err)
		back, err := Interleave(flat)
		require.NoError(t, err)
		assert.Equal(t, raw, back, "interleave(deinterleave(b)) for %d blocks", blocks)

		again, err := Deinterleave(back)
		require.NoError(t, err)
		assert.Equal(t, flat, again)
	}
}

func TestDeinterleaveBitMapping(t *testing.T) {
	t.Parallel()

	raw := make([]byte, BlockSize)
	raw[0] = 0x80  // P, byte 0, bit 7
	raw[1] = 0x40  // Q, byte 0, bit 6
	raw[95] = 0x01 // W, byte 11, bit 0

	flat, err := Deinterleave(raw)
	require.NoError(t, err)

	p, err := Channel(flat, P)
	require.NoError(t, err)
	q, err := Channel(flat, Q)
	require.NoError(t, err)
	w, err := Channel(flat, W)
	require.NoError(t, err)

	assert.Equal(t, byte(0x80), p[0])
	assert.Equal(t, byte(0x40), q[0])
	assert.Equal(t, byte(0x01), w[11])

	setBits := 0
	for _, b := range flat {
		setBits += bits.OnesCount8(b)
	}
	assert.Equal(t, 3, setBits)
}

func TestInterleaveInvalidLength(t *testing.T) {
	t.Parallel()

	_, err := Deinterleave(make([]byte, 95))
	require.ErrorIs(t, err, ErrInvalidLength)
	_, err = Interleave(make([]byte, 97))
	require.ErrorIs(t, err, ErrInvalidLength)
	_, err = QFrame(make([]byte, 10))
	require.ErrorIs(t, err, ErrInvalidLength)
	_, err = Channel(make([]byte, BlockSize), ChannelID(9))
	require.Error(t, err)
}

func TestChannelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "P", P.String())
	assert.Equal(t, "W", W.String())
	assert.Equal(t, "ChannelID(8)", ChannelID(8).String())
}

func TestDecodeQ_Position(t *testing.T) {
	t.Parallel()

	q := EncodeQ(QPosition{
		Control:  ControlData,
		Track:    2,
		Index:    1,
		Relative: msf.MSF{Minute: 0, Second: 1, Frame: 5},
		Absolute: msf.FromLBA(20000),
	})
	info := DecodeQ(q, true)

	assert.True(t, info.CRCOK)
	assert.Equal(t, byte(ADRPosition), info.ADR)
	assert.Equal(t, byte(ControlData), info.Control)
	assert.Equal(t, AreaProgram, info.Area)
	assert.Equal(t, byte(2), info.Track)
	assert.Equal(t, byte(1), info.Index)
	assert.Equal(t, msf.MSF{Minute: 0, Second: 1, Frame: 5}, info.Relative)
	assert.Equal(t, 20000, info.LBA)
	assert.Contains(t, info.String(), "data track")
	assert.Contains(t, info.String(), "(OK)")
}

func TestDecodeQ_CRCMismatchIsReported(t *testing.T) {
	t.Parallel()

	q := EncodeQ(QPosition{Track: 1, Index: 1, Absolute: msf.FromLBA(0)})
	q[11] ^= 0xFF
	info := DecodeQ(q, true)

	assert.False(t, info.CRCOK)
	assert.Equal(t, byte(1), info.Track, "fields are still decoded")
	assert.Contains(t, info.String(), "(BAD)")
}

func TestDecodeQ_KnownCRC(t *testing.T) {
	t.Parallel()

	q := [12]byte{0x41, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00}
	crc := checksum.CRC16(q[:10])
	q[10], q[11] = byte(crc>>8), byte(crc)

	info := DecodeQ(q, true)
	assert.True(t, info.CRCOK)
	assert.Equal(t, 0, info.LBA)
}

func TestDecodeQ_Areas(t *testing.T) {
	t.Parallel()

	leadOut := EncodeQ(QPosition{Track: TrackLeadOut, Index: 1, Absolute: msf.FromLBA(300000)})
	info := DecodeQ(leadOut, true)
	assert.Equal(t, AreaLeadOut, info.Area)
	assert.Equal(t, byte(TrackLeadOut), info.Track, "AA is not BCD and stays raw")

	// Lead-in A0 pointer: first track 1, CD-ROM XA.
	leadIn := [12]byte{0x41, 0x00, PointFirstTrack, 0x99, 0x00, 0x01, 0x00, 0x01, 0x20, 0x00}
	PutCRC(&leadIn)
	info = DecodeQ(leadIn, true)
	assert.Equal(t, AreaLeadIn, info.Area)
	assert.Equal(t, byte(PointFirstTrack), info.Point())
	assert.Equal(t, "CD-ROM XA", info.DiscType())
	assert.Less(t, info.LBA, 0)
	assert.Contains(t, info.String(), "first track 01")

	// Running time counting up from the start of the lead-in.
	upward := [12]byte{0x01, 0x00, 0x01, 0x00, 0x10, 0x00, 0x00, 0x00, 0x02, 0x00}
	PutCRC(&upward)
	info = DecodeQ(upward, true)
	assert.Equal(t, AreaLeadIn, info.Area)
	assert.Equal(t, 600, info.LBA)
}

func TestDecodeQ_Mode5(t *testing.T) {
	t.Parallel()

	q := [12]byte{0x05, 0x00, PointNextProgramArea, 0x22, 0x02, 0x00, 0x02, 0x79, 0x59, 0x74}
	PutCRC(&q)
	info := DecodeQ(q, true)
	assert.Equal(t, byte(ADRMode5), info.ADR)
	assert.Contains(t, info.String(), "next program area at 22:02:00")
	assert.Contains(t, info.String(), "maximum lead-out at 79:59:74")
}

func TestDecodeQ_Binary(t *testing.T) {
	t.Parallel()

	q := [12]byte{0x01, 10, 1, 0, 0, 0, 0, 0, 2, 0}
	PutCRC(&q)
	info := DecodeQ(q, false)
	assert.Equal(t, byte(10), info.Track)
	assert.Equal(t, 0, info.LBA)
}

func TestMCNRoundTrip(t *testing.T) {
	t.Parallel()

	q, err := EncodeMCN("0123456789012", 0, 42)
	require.NoError(t, err)
	assert.Equal(t, "0123456789012", DecodeMCN(q))

	info := DecodeQ(q, true)
	assert.True(t, info.CRCOK)
	assert.Equal(t, "0123456789012", info.MCN)
	assert.Equal(t, byte(42), info.AFrame)

	_, err = EncodeMCN("12345", 0, 0)
	require.ErrorIs(t, err, ErrInvalidCode)
	_, err = EncodeMCN("012345678901A", 0, 0)
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestISRCRoundTrip(t *testing.T) {
	t.Parallel()

	for _, isrc := range []string{"USRC17607839", "GBAYE0000351", "JPZ9Z9900001"} {
		q, err := EncodeISRC(isrc, 0, 3)
		require.NoError(t, err)
		assert.Equal(t, isrc, DecodeISRC(q))

		info := DecodeQ(q, true)
		assert.True(t, info.CRCOK)
		assert.Equal(t, isrc, info.ISRC)
	}

	_, err := EncodeISRC("usrc17607839", 0, 0)
	require.ErrorIs(t, err, ErrInvalidCode)
	_, err = EncodeISRC("USRC1760783X", 0, 0)
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestDecodeMalformedPassesThrough(t *testing.T) {
	t.Parallel()

	var q [12]byte
	q[0] = ADRMCN
	q[1] = 0xAB
	assert.Equal(t, "AB00000000000", DecodeMCN(q))

	q[1] = 0xFF
	assert.Len(t, DecodeISRC(q), ISRCLength)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lba     int
		wantP   byte
		wantIdx byte
		wantRel msf.MSF
	}{
		{"pregap start", 1000, 0xFF, 0, msf.MSF{Second: 2}},
		{"last pregap sector", 1149, 0xFF, 0, msf.MSF{Frame: 1}},
		{"index 1", 1150, 0x00, 1, msf.MSF{}},
		{"inside track", 1225, 0x00, 1, msf.MSF{Second: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := Generate(tt.lba, 3, 150, 1000, 0, 0)
			flat, err := Deinterleave(raw[:])
			require.NoError(t, err)

			p, err := Channel(flat, P)
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte{tt.wantP}, ChannelSize), p)

			q, err := QFrame(raw[:])
			require.NoError(t, err)
			info := DecodeQ(q, true)
			assert.True(t, info.CRCOK)
			assert.Equal(t, byte(3), info.Track)
			assert.Equal(t, tt.wantIdx, info.Index)
			assert.Equal(t, tt.wantRel, info.Relative)
			assert.Equal(t, tt.lba, info.LBA)
		})
	}
}

func TestControlString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stereo audio without pre-emphasis, copy prohibited", ControlString(0))
	assert.Equal(t, "stereo audio with pre-emphasis, copy permitted", ControlString(0x3))
	assert.Equal(t, "data track, recorded uninterrupted, copy prohibited", ControlString(0x4))
	assert.Equal(t, "quadraphonic audio without pre-emphasis, copy prohibited", ControlString(0x8))
}

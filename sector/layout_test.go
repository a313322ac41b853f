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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want Layout
		mode Mode
		tag  Tag
	}{
		{mode: Mode1, tag: Sync, want: Layout{0, 12, 2340}},
		{mode: Mode1, tag: Header, want: Layout{12, 4, 2336}},
		{mode: Mode1, tag: UserData, want: Layout{16, 2048, 288}},
		{mode: Mode1, tag: Edc, want: Layout{2064, 4, 284}},
		{mode: Mode1, tag: EccP, want: Layout{2076, 172, 104}},
		{mode: Mode1, tag: EccQ, want: Layout{2248, 104, 0}},
		{mode: Mode1, tag: Ecc, want: Layout{2076, 276, 0}},
		{mode: Mode2Formless, tag: UserData, want: Layout{16, 2336, 0}},
		{mode: Mode2Form1, tag: SubHeader, want: Layout{16, 8, 2328}},
		{mode: Mode2Form1, tag: UserData, want: Layout{24, 2048, 280}},
		{mode: Mode2Form1, tag: Edc, want: Layout{2072, 4, 276}},
		{mode: Mode2Form1, tag: Ecc, want: Layout{2076, 276, 0}},
		{mode: Mode2Form2, tag: SubHeader, want: Layout{16, 8, 2328}},
		{mode: Mode2Form2, tag: UserData, want: Layout{24, 2324, 4}},
		{mode: Mode2Form2, tag: Edc, want: Layout{2348, 4, 0}},
		{mode: Audio, tag: UserData, want: Layout{0, 2352, 0}},
		{mode: Audio, tag: Subchannel, want: Layout{2352, 96, 0}},
		{mode: Mode1, tag: Subchannel, want: Layout{2352, 96, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String()+"/"+tt.tag.String(), func(t *testing.T) {
			t.Parallel()
			got, err := LayoutFor(tt.mode, tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutForUnsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		tag  Tag
	}{
		{Mode1, SubHeader},
		{Audio, Sync},
		{Audio, Edc},
		{Mode2Formless, Ecc},
		{Mode2Form2, EccP},
		{Mode(42), UserData},
	}

	for _, tt := range tests {
		_, err := LayoutFor(tt.mode, tt.tag)
		require.ErrorIs(t, err, ErrUnsupportedTag, "%s/%s", tt.mode, tt.tag)
	}
}

func TestLayoutCoversSector(t *testing.T) {
	t.Parallel()

	for mode := Audio; mode <= Mode2Form2; mode++ {
		for tag := Sync; tag <= UserData; tag++ {
			l, err := LayoutFor(mode, tag)
			if err != nil {
				continue
			}
			total := RawSize
			if tag == Subchannel {
				total = RawWithSubchannelSize
			}
			assert.Equal(t, total, l.Offset+l.Length+l.Skip, "%s/%s", mode, tag)
		}
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 3*RawWithSubchannelSize)
	for i := range 3 {
		base := i * RawWithSubchannelSize
		buf[base+16] = byte(i + 1)
		buf[base+RawSize] = byte(0x10 + i)
	}

	data, err := Extract(buf, RawWithSubchannelSize, Mode1, UserData)
	require.NoError(t, err)
	require.Len(t, data, 3*2048)
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, byte(2), data[2048])
	assert.Equal(t, byte(3), data[4096])

	sub, err := Extract(buf, RawWithSubchannelSize, Mode1, Subchannel)
	require.NoError(t, err)
	require.Len(t, sub, 3*SubchannelSize)
	assert.Equal(t, byte(0x12), sub[2*SubchannelSize])
}

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	_, err := Extract(make([]byte, RawSize), 2048, Mode1, UserData)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = Extract(make([]byte, RawSize+1), RawSize, Mode1, UserData)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = Extract(make([]byte, RawSize), RawSize, Mode1, Subchannel)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = Extract(make([]byte, RawSize), RawSize, Audio, Header)
	require.ErrorIs(t, err, ErrUnsupportedTag)
}

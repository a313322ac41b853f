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

package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-cdcodec/msf"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

func multiSessionTracks() []Track {
	return []Track{
		{Sequence: 2, Session: 1, Start: 10000, End: 19999},
		{Sequence: 1, Session: 1, Start: 0, End: 9999},
		{Sequence: 3, Session: 2, Start: 31400, End: 40000, Data: true, XA: true},
	}
}

func TestCreateFull(t *testing.T) {
	t.Parallel()

	full := CreateFull(multiSessionTracks(), nil, true)
	require.NotNil(t, full)
	assert.Equal(t, byte(1), full.FirstCompleteSession)
	assert.Equal(t, byte(2), full.LastCompleteSession)

	// Session 1: A0 A1 A2 T1 T2 B0 C0. Session 2: A0 A1 A2 T3.
	require.Len(t, full.Descriptors, 11)

	a0 := full.Descriptors[0]
	assert.Equal(t, byte(subchannel.PointFirstTrack), a0.Point)
	assert.Equal(t, byte(1), a0.PMin)
	assert.Equal(t, byte(0x00), a0.PSec)

	a1 := full.Descriptors[1]
	assert.Equal(t, byte(subchannel.PointLastTrack), a1.Point)
	assert.Equal(t, byte(2), a1.PMin)

	a2 := full.Descriptors[2]
	assert.Equal(t, byte(subchannel.PointLeadOut), a2.Point)
	assert.Equal(t, msf.FromLBA(20000), a2.PTime())
	assert.Equal(t, msf.MSF{Minute: 4, Second: 28, Frame: 50}, a2.PTime(), "lead-out follows End of the last track")

	t2 := full.Descriptors[4]
	assert.Equal(t, byte(2), t2.Point)
	assert.Equal(t, msf.FromLBA(10000), t2.PTime())
	assert.Equal(t, byte(0x00), t2.Control)

	b0 := full.Descriptors[5]
	assert.Equal(t, byte(subchannel.ADRMode5), b0.ADR)
	assert.Equal(t, byte(subchannel.PointNextProgramArea), b0.Point)
	assert.Equal(t, msf.FromLBA(31400), b0.Time())
	assert.Equal(t, byte(2), b0.Zero)

	c0 := full.Descriptors[6]
	assert.Equal(t, byte(subchannel.PointATIP), c0.Point)
	assert.Equal(t, byte(97), c0.PMin)
	assert.Equal(t, byte(25), c0.PSec)

	s2a0 := full.Descriptors[7]
	assert.Equal(t, byte(2), s2a0.SessionNumber)
	assert.Equal(t, byte(3), s2a0.PMin)
	assert.Equal(t, byte(0x20), s2a0.PSec)
	assert.Equal(t, byte(subchannel.ControlData), s2a0.Control)
}

func TestCreateFullControlOverride(t *testing.T) {
	t.Parallel()

	full := CreateFull(multiSessionTracks(), map[byte]byte{1: 0x02}, false)
	require.NotNil(t, full)
	require.Len(t, full.Descriptors, 10)
	assert.Equal(t, byte(0x02), full.Descriptors[3].Control)
	assert.Equal(t, byte(1), full.Descriptors[5].Zero)
	assert.Nil(t, CreateFull(nil, nil, false))
}

func TestCreateFullRoundTrip(t *testing.T) {
	t.Parallel()

	full := CreateFull(multiSessionTracks(), nil, true)
	require.NotNil(t, full)

	buf := full.Bytes()
	assert.Len(t, buf, 4+len(full.Descriptors)*FullDescriptorSize)

	decoded, ok := DecodeFull(buf)
	require.True(t, ok)
	assert.Equal(t, full.FirstCompleteSession, decoded.FirstCompleteSession)
	assert.Equal(t, full.LastCompleteSession, decoded.LastCompleteSession)
	assert.Len(t, decoded.Descriptors, len(full.Descriptors))
	assert.Equal(t, full, decoded)
}

func TestFullDescriptorHours(t *testing.T) {
	t.Parallel()

	d := FullDescriptor{Zero: 0x12}
	assert.Equal(t, byte(1), d.Hour())
	assert.Equal(t, byte(2), d.PHour())
}

func TestPrettifyFull(t *testing.T) {
	t.Parallel()

	full := CreateFull(multiSessionTracks(), nil, true)
	out := PrettifyFull(full)
	assert.Contains(t, out, "Session 1\n")
	assert.Contains(t, out, "Session 2\n")
	assert.Contains(t, out, "First track number: 1 (CD-DA / CD-ROM)")
	assert.Contains(t, out, "First track number: 3 (CD-ROM XA)")
	assert.Contains(t, out, "Lead-out start position: "+msf.FromLBA(20000).String())
	assert.Contains(t, out, "Start of next possible program area: "+msf.FromLBA(31400).String())
	assert.Contains(t, out, "Start time of the first lead-in area: 97:25:00")
	assert.Empty(t, PrettifyFull(nil))
}

func FuzzDecoders(f *testing.F) {
	f.Add(twoTrackTOC)
	f.Add(CreateFull(multiSessionTracks(), nil, true).Bytes())
	f.Add([]byte{0x00, 0x03, 0x01, 0x01, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		if full, ok := DecodeFull(data); ok {
			_ = PrettifyFull(full)
			if len(full.Descriptors) > 0 && len(full.Bytes()) > len(data) {
				t.Fatalf("re-encoded Full TOC grew from %d bytes", len(data))
			}
		}
		if toc, ok := Decode(data); ok {
			_ = Prettify(toc)
		}
		if s, ok := DecodeSession(data); ok {
			_ = PrettifySession(s)
		}
	})
}

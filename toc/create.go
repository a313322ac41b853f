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
	"cmp"
	"slices"

	"github.com/ZaparooProject/go-cdcodec/msf"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

// Track describes one track of an image for CreateFull. Start is the LBA of
// index 1 and End the last LBA of the track. XA marks Mode 2 data, which makes
// the session a CD-ROM XA session.
type Track struct {
	Start    int
	End      int
	Sequence byte
	Session  byte
	Data     bool
	XA       bool
}

const (
	discTypeCDDA  = 0x00
	discTypeCDXA  = 0x20
	controlData   = subchannel.ControlData
	controlAudio  = 0x00
	optimumPower  = 0x80
	firstLeadIn   = 97
	firstLeadInS  = 25
	maxLeadOutMin = 79
	maxLeadOutSec = 59
	maxLeadOutFrm = 74
)

// CreateFull synthesises the Full TOC of a set of tracks. controlFlags
// overrides the CONTROL nibble per track sequence; tracks without an entry get
// the data flag when they hold data. Each session gets A0, A1 and A2 pointers
// followed by one pointer per track, and every session but the last gets a B0
// pointer to the next program area. createC0 adds a C0 pointer to the first
// session.
//
// The A2 lead-out of a session starts right after its last track: it is the
// MSF of End+1, which already carries the 150-frame offset between LBA and
// disc time. Track End values must therefore cover any postgap.
func CreateFull(tracks []Track, controlFlags map[byte]byte, createC0 bool) *FullTOC {
	if len(tracks) == 0 {
		return nil
	}

	sorted := slices.Clone(tracks)
	slices.SortFunc(sorted, func(a, b Track) int {
		return cmp.Or(cmp.Compare(a.Session, b.Session), cmp.Compare(a.Sequence, b.Sequence))
	})

	control := func(t Track) byte {
		if c, ok := controlFlags[t.Sequence]; ok {
			return c & 0x0F
		}
		if t.Data {
			return controlData
		}
		return controlAudio
	}

	var sessions [][]Track
	for i, t := range sorted {
		if i == 0 || t.Session != sorted[i-1].Session {
			sessions = append(sessions, nil)
		}
		sessions[len(sessions)-1] = append(sessions[len(sessions)-1], t)
	}

	toc := &FullTOC{
		FirstCompleteSession: sessions[0][0].Session,
		LastCompleteSession:  sessions[len(sessions)-1][0].Session,
	}

	for si, session := range sessions {
		first := session[0]
		last := session[len(session)-1]
		number := first.Session

		discType := byte(discTypeCDDA)
		for _, t := range session {
			if t.XA {
				discType = discTypeCDXA
			}
		}

		leadOut := msf.FromLBA(last.End + 1)
		toc.Descriptors = append(toc.Descriptors,
			FullDescriptor{
				SessionNumber: number, ADR: subchannel.ADRPosition, Control: control(first),
				Point: subchannel.PointFirstTrack, PMin: first.Sequence, PSec: discType,
			},
			FullDescriptor{
				SessionNumber: number, ADR: subchannel.ADRPosition, Control: control(last),
				Point: subchannel.PointLastTrack, PMin: last.Sequence,
			},
			FullDescriptor{
				SessionNumber: number, ADR: subchannel.ADRPosition, Control: control(last),
				Point: subchannel.PointLeadOut,
				PMin:  leadOut.Minute, PSec: leadOut.Second, PFrame: leadOut.Frame,
			},
		)

		for _, t := range session {
			start := msf.FromLBA(t.Start)
			toc.Descriptors = append(toc.Descriptors, FullDescriptor{
				SessionNumber: number, ADR: subchannel.ADRPosition, Control: control(t),
				Point: t.Sequence,
				PMin:  start.Minute, PSec: start.Second, PFrame: start.Frame,
			})
		}

		if si+1 < len(sessions) {
			pointers := byte(1)
			if createC0 && si == 0 {
				pointers = 2
			}
			next := msf.FromLBA(sessions[si+1][0].Start)
			toc.Descriptors = append(toc.Descriptors, FullDescriptor{
				SessionNumber: number, ADR: subchannel.ADRMode5, Control: control(last),
				Point: subchannel.PointNextProgramArea,
				Min:   next.Minute, Sec: next.Second, Frame: next.Frame,
				Zero:  pointers,
				PMin:  maxLeadOutMin, PSec: maxLeadOutSec, PFrame: maxLeadOutFrm,
			})
		}

		if createC0 && si == 0 {
			toc.Descriptors = append(toc.Descriptors, FullDescriptor{
				SessionNumber: number, ADR: subchannel.ADRMode5, Control: control(last),
				Point: subchannel.PointATIP,
				Min:   optimumPower, PMin: firstLeadIn, PSec: firstLeadInS,
			})
		}
	}

	toc.DataLength = uint16(len(toc.Descriptors)*FullDescriptorSize + 2) //nolint:gosec // at most a few hundred descriptors
	return toc
}

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
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-cdcodec/internal/mmc"
	"github.com/ZaparooProject/go-cdcodec/msf"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

// FullDescriptorSize is the size of a Full TOC descriptor.
const FullDescriptorSize = 11

// FullDescriptor is one raw lead-in Q entry of a Full TOC. Times are binary,
// not BCD. Zero holds HOUR in the high nibble and PHOUR in the low nibble on
// DDCD media and is zero otherwise.
type FullDescriptor struct {
	SessionNumber byte
	ADR           byte
	Control       byte
	TNO           byte
	Point         byte
	Min           byte
	Sec           byte
	Frame         byte
	Zero          byte
	PMin          byte
	PSec          byte
	PFrame        byte
}

// Hour returns the HOUR nibble used by DDCD media.
func (d FullDescriptor) Hour() byte { return d.Zero >> 4 }

// PHour returns the PHOUR nibble used by DDCD media.
func (d FullDescriptor) PHour() byte { return d.Zero & 0x0F }

// Time returns the MIN/SEC/FRAME triplet.
func (d FullDescriptor) Time() msf.MSF {
	return msf.MSF{Minute: d.Min, Second: d.Sec, Frame: d.Frame}
}

// PTime returns the PMIN/PSEC/PFRAME triplet.
func (d FullDescriptor) PTime() msf.MSF {
	return msf.MSF{Minute: d.PMin, Second: d.PSec, Frame: d.PFrame}
}

// FullTOC is a Full TOC response.
type FullTOC struct {
	Descriptors          []FullDescriptor
	DataLength           uint16
	FirstCompleteSession byte
	LastCompleteSession  byte
}

// DecodeFull parses a Full TOC response.
func DecodeFull(buf []byte) (*FullTOC, bool) {
	h, ok := mmc.ParseHeader(buf)
	if !ok {
		return nil, false
	}

	records := mmc.Records(buf, FullDescriptorSize)
	t := &FullTOC{
		DataLength:           h.DataLength,
		FirstCompleteSession: h.Field1,
		LastCompleteSession:  h.Field2,
		Descriptors:          make([]FullDescriptor, 0, len(records)),
	}
	for _, rec := range records {
		adr, control := mmc.SplitADRControl(rec[1])
		t.Descriptors = append(t.Descriptors, FullDescriptor{
			SessionNumber: rec[0],
			ADR:           adr,
			Control:       control,
			TNO:           rec[2],
			Point:         rec[3],
			Min:           rec[4],
			Sec:           rec[5],
			Frame:         rec[6],
			Zero:          rec[7],
			PMin:          rec[8],
			PSec:          rec[9],
			PFrame:        rec[10],
		})
	}
	return t, true
}

// Bytes serialises the Full TOC with a recomputed data length.
func (t *FullTOC) Bytes() []byte {
	buf := mmc.NewResponse(t.FirstCompleteSession, t.LastCompleteSession,
		len(t.Descriptors)*FullDescriptorSize)
	if buf == nil {
		return nil
	}
	for i, d := range t.Descriptors {
		rec := buf[mmc.HeaderSize+i*FullDescriptorSize:]
		rec[0] = d.SessionNumber
		rec[1] = mmc.JoinADRControl(d.ADR, d.Control)
		rec[2] = d.TNO
		rec[3] = d.Point
		rec[4] = d.Min
		rec[5] = d.Sec
		rec[6] = d.Frame
		rec[7] = d.Zero
		rec[8] = d.PMin
		rec[9] = d.PSec
		rec[10] = d.PFrame
	}
	return buf
}

// PrettifyFull renders a Full TOC grouped by session, or "" for nil.
func PrettifyFull(t *FullTOC) string {
	if t == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "First complete session number: %d\n", t.FirstCompleteSession)
	fmt.Fprintf(&sb, "Last complete session number: %d\n", t.LastCompleteSession)

	session := -1
	for _, d := range t.Descriptors {
		if int(d.SessionNumber) != session {
			session = int(d.SessionNumber)
			fmt.Fprintf(&sb, "Session %d\n", session)
		}
		switch d.ADR {
		case subchannel.ADRPosition, 4:
			writePositionPointer(&sb, d)
		case subchannel.ADRMode5:
			writeMode5Pointer(&sb, d)
		default:
			fmt.Fprintf(&sb, "\tUnknown ADR %d for point 0x%02X\n", d.ADR, d.Point)
		}
	}
	return sb.String()
}

func writePositionPointer(sb *strings.Builder, d FullDescriptor) {
	switch d.Point {
	case subchannel.PointFirstTrack:
		fmt.Fprintf(sb, "\tFirst track number: %d (%s)\n", d.PMin, subchannel.DiscTypeName(d.PSec))
		fmt.Fprintf(sb, "\t\t%s\n", subchannel.ControlString(d.Control))
	case subchannel.PointLastTrack:
		fmt.Fprintf(sb, "\tLast track number: %d\n", d.PMin)
		fmt.Fprintf(sb, "\t\t%s\n", subchannel.ControlString(d.Control))
	case subchannel.PointLeadOut:
		fmt.Fprintf(sb, "\tLead-out start position: %s\n", d.PTime())
		fmt.Fprintf(sb, "\t\t%s\n", subchannel.ControlString(d.Control))
	default:
		if d.Point >= 0x01 && d.Point <= 0x63 {
			fmt.Fprintf(sb, "\tTrack %d starts at %s\n", d.Point, d.PTime())
			fmt.Fprintf(sb, "\t\t%s\n", subchannel.ControlString(d.Control))
			return
		}
		fmt.Fprintf(sb, "\tPoint 0x%02X: %s / %s\n", d.Point, d.Time(), d.PTime())
	}
}

func writeMode5Pointer(sb *strings.Builder, d FullDescriptor) {
	switch d.Point {
	case subchannel.PointNextProgramArea:
		fmt.Fprintf(sb, "\tStart of next possible program area: %s\n", d.Time())
		fmt.Fprintf(sb, "\tMaximum start of outermost lead-out: %s\n", d.PTime())
		fmt.Fprintf(sb, "\t%d mode 5 pointers present\n", d.Zero)
	case subchannel.PointSkipIntervals:
		fmt.Fprintf(sb, "\t%d skip interval pointers\n", d.PMin)
		fmt.Fprintf(sb, "\t%d skip track pointers\n", d.PSec)
	case 0xB2, 0xB3, subchannel.PointSkipTracks3:
		fmt.Fprintf(sb, "\tTracks to skip: %d %d %d %d %d %d %d\n",
			d.Min, d.Sec, d.Frame, d.Zero, d.PMin, d.PSec, d.PFrame)
	case subchannel.PointATIP:
		fmt.Fprintf(sb, "\tOptimum recording power: 0x%02X\n", d.Min)
		fmt.Fprintf(sb, "\tStart time of the first lead-in area: %s\n", d.PTime())
	case subchannel.PointATIPCopy:
		fmt.Fprintf(sb, "\tCopy of ATIP additional information: %02X%02X%02X%02X%02X%02X%02X\n",
			d.Min, d.Sec, d.Frame, d.Zero, d.PMin, d.PSec, d.PFrame)
	default:
		if d.Point >= 0x01 && d.Point <= 0x40 {
			fmt.Fprintf(sb, "\tSkip interval %d from %s to %s\n", d.Point, d.PTime(), d.Time())
			return
		}
		fmt.Fprintf(sb, "\tUnknown mode 5 point 0x%02X\n", d.Point)
	}
}

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

// Package toc decodes, renders and builds the table of contents responses of
// READ TOC/PMA/ATIP: the formatted TOC (format 0), session information
// (format 1) and the raw Full TOC (format 2).
package toc

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-cdcodec/internal/mmc"
	"github.com/ZaparooProject/go-cdcodec/msf"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

// DescriptorSize is the size of a formatted TOC or session descriptor.
const DescriptorSize = 8

// Descriptor is one track entry of a formatted TOC or session response.
type Descriptor struct {
	// TrackStartAddress is the LBA of the track as returned by the drive.
	TrackStartAddress uint32
	Reserved1         byte
	ADR               byte
	Control           byte
	TrackNumber       byte
	Reserved2         byte
}

// TOC is a formatted TOC response.
type TOC struct {
	Descriptors []Descriptor
	DataLength  uint16
	FirstTrack  byte
	LastTrack   byte
}

// SessionInfo is a session information response. It carries the first track
// of the last complete session.
type SessionInfo struct {
	Descriptors          []Descriptor
	DataLength           uint16
	FirstCompleteSession byte
	LastCompleteSession  byte
}

func decodeDescriptors(buf []byte) []Descriptor {
	records := mmc.Records(buf, DescriptorSize)
	descs := make([]Descriptor, 0, len(records))
	for _, rec := range records {
		adr, control := mmc.SplitADRControl(rec[1])
		descs = append(descs, Descriptor{
			Reserved1:         rec[0],
			ADR:               adr,
			Control:           control,
			TrackNumber:       rec[2],
			Reserved2:         rec[3],
			TrackStartAddress: binary.BigEndian.Uint32(rec[4:8]),
		})
	}
	return descs
}

func encodeDescriptors(field1, field2 byte, descs []Descriptor) []byte {
	buf := mmc.NewResponse(field1, field2, len(descs)*DescriptorSize)
	if buf == nil {
		return nil
	}
	for i, d := range descs {
		rec := buf[mmc.HeaderSize+i*DescriptorSize:]
		rec[0] = d.Reserved1
		rec[1] = mmc.JoinADRControl(d.ADR, d.Control)
		rec[2] = d.TrackNumber
		rec[3] = d.Reserved2
		binary.BigEndian.PutUint32(rec[4:8], d.TrackStartAddress)
	}
	return buf
}

// Decode parses a formatted TOC response.
func Decode(buf []byte) (*TOC, bool) {
	h, ok := mmc.ParseHeader(buf)
	if !ok {
		return nil, false
	}
	return &TOC{
		DataLength:  h.DataLength,
		FirstTrack:  h.Field1,
		LastTrack:   h.Field2,
		Descriptors: decodeDescriptors(buf),
	}, true
}

// Bytes serialises the response with a recomputed data length.
func (t *TOC) Bytes() []byte {
	return encodeDescriptors(t.FirstTrack, t.LastTrack, t.Descriptors)
}

// DecodeSession parses a session information response.
func DecodeSession(buf []byte) (*SessionInfo, bool) {
	h, ok := mmc.ParseHeader(buf)
	if !ok {
		return nil, false
	}
	return &SessionInfo{
		DataLength:           h.DataLength,
		FirstCompleteSession: h.Field1,
		LastCompleteSession:  h.Field2,
		Descriptors:          decodeDescriptors(buf),
	}, true
}

// Bytes serialises the response with a recomputed data length.
func (s *SessionInfo) Bytes() []byte {
	return encodeDescriptors(s.FirstCompleteSession, s.LastCompleteSession, s.Descriptors)
}

// Prettify renders a formatted TOC, or "" for nil.
func Prettify(t *TOC) string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "First track number in first complete session: %d\n", t.FirstTrack)
	fmt.Fprintf(&sb, "Last track number in last complete session: %d\n", t.LastTrack)
	writeDescriptors(&sb, t.Descriptors)
	return sb.String()
}

// PrettifySession renders a session information response, or "" for nil.
func PrettifySession(s *SessionInfo) string {
	if s == nil {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "First complete session number: %d\n", s.FirstCompleteSession)
	fmt.Fprintf(&sb, "Last complete session number: %d\n", s.LastCompleteSession)
	writeDescriptors(&sb, s.Descriptors)
	return sb.String()
}

func writeDescriptors(sb *strings.Builder, descs []Descriptor) {
	for _, d := range descs {
		if d.TrackNumber == subchannel.TrackLeadOut {
			sb.WriteString("Lead-out\n")
		} else {
			fmt.Fprintf(sb, "Track number: %d\n", d.TrackNumber)
		}
		lba := int(int32(d.TrackStartAddress)) //nolint:gosec // drives report negative addresses as two's complement
		fmt.Fprintf(sb, "\tTrack starts at LBA %d, or MSF %s\n", lba, msf.FromLBA(lba))
		fmt.Fprintf(sb, "\t%s\n", adrString(d.ADR))
		fmt.Fprintf(sb, "\t%s\n", subchannel.ControlString(d.Control))
	}
}

func adrString(adr byte) string {
	switch adr {
	case subchannel.ADRNone:
		return "Q subchannel mode not given"
	case subchannel.ADRPosition:
		return "Q subchannel stores current position"
	case subchannel.ADRMCN:
		return "Q subchannel stores media catalog number"
	case subchannel.ADRISRC:
		return "Q subchannel stores ISRC"
	default:
		return fmt.Sprintf("Q subchannel mode %d", adr)
	}
}

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
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-cdcodec/checksum"
	"github.com/ZaparooProject/go-cdcodec/msf"
)

// Q channel ADR (mode) values.
const (
	ADRNone     = 0
	ADRPosition = 1
	ADRMCN      = 2
	ADRISRC     = 3
	ADRMode5    = 5
)

// Control nibble flags shared by Q frames and TOC descriptors.
const (
	ControlPreEmphasis   = 0x1
	ControlCopyPermitted = 0x2
	ControlData          = 0x4
	ControlFourChannel   = 0x8
)

// Special TNO and POINT values.
const (
	TrackLeadOut = 0xAA

	PointFirstTrack      = 0xA0
	PointLastTrack       = 0xA1
	PointLeadOut         = 0xA2
	PointNextProgramArea = 0xB0
	PointSkipIntervals   = 0xB1
	PointSkipTracks1     = 0xB2
	PointSkipTracks3     = 0xB4
	PointATIP            = 0xC0
	PointATIPCopy        = 0xC1
)

// Area is the disc region a Q frame was read from.
type Area int

// Disc regions.
const (
	AreaProgram Area = iota
	AreaLeadIn
	AreaLeadOut
)

// String returns the area name.
func (a Area) String() string {
	switch a {
	case AreaLeadIn:
		return "Lead-In"
	case AreaLeadOut:
		return "Lead-Out"
	default:
		return "Program"
	}
}

// QInfo is a decoded Q channel frame.
//
// For position frames (ADR 1) in the program area and lead-out, Relative and
// Absolute are the track-relative and disc-absolute timecodes. In the lead-in
// (ADR 1 and 5) Relative holds bytes 3-5 (running time, or the mode 5 start
// address) and Absolute holds bytes 7-9 (the pointer, PMIN/PSEC/PFRAME).
type QInfo struct {
	Raw     [12]byte
	Control byte
	ADR     byte
	Area    Area

	// Track is the TNO byte, Index the index or POINT byte. Decimal values are
	// converted from BCD when decoding BCD frames; hex codes (AA, Ax, Bx, Cx)
	// are kept as-is.
	Track byte
	Index byte

	Relative msf.MSF
	Zero     byte
	Absolute msf.MSF

	// LBA is the address of the frame: derived from Absolute in the program
	// area and lead-out, from the running time in the lead-in. A lead-in
	// running time is only negative when it is recorded in the 90-99 minute
	// range; one counting up from 00:00:00 yields a positive value.
	LBA int

	MCN    string
	ISRC   string
	AFrame byte

	CRC   uint16
	CRCOK bool
}

// Point returns the POINT byte of a lead-in frame.
func (qi QInfo) Point() byte {
	return qi.Index
}

// DiscType describes the disc format declared by an A0 lead-in pointer.
func (qi QInfo) DiscType() string {
	return DiscTypeName(qi.Raw[8])
}

// DiscTypeName names the PSEC value of an A0 pointer.
func DiscTypeName(v byte) string {
	switch v {
	case 0x00:
		return "CD-DA / CD-ROM"
	case 0x10:
		return "CD-i"
	case 0x20:
		return "CD-ROM XA"
	default:
		return fmt.Sprintf("unknown disc type 0x%02X", v)
	}
}

// DecodeQ decodes one deinterleaved Q frame. When bcd is set, decimal fields
// are converted from packed BCD. A CRC mismatch is reported in CRCOK; it never
// prevents decoding.
func DecodeQ(q [12]byte, bcd bool) QInfo {
	stored := uint16(q[10])<<8 | uint16(q[11])
	info := QInfo{
		Raw:     q,
		Control: q[0] >> 4,
		ADR:     q[0] & 0x0F,
		CRC:     stored,
		CRCOK:   checksum.CRC16(q[:10]) == stored,
	}

	switch info.ADR {
	case ADRMCN:
		info.MCN = DecodeMCN(q)
		info.AFrame = decimal(q[9], bcd)
		return info
	case ADRISRC:
		info.ISRC = DecodeISRC(q)
		info.AFrame = decimal(q[9], bcd)
		return info
	}

	info.Track = decimal(q[1], bcd)
	info.Index = decimal(q[2], bcd)
	info.Relative = msf.MSF{Minute: decimal(q[3], bcd), Second: decimal(q[4], bcd), Frame: decimal(q[5], bcd)}
	info.Zero = q[6]
	info.Absolute = msf.MSF{Minute: decimal(q[7], bcd), Second: decimal(q[8], bcd), Frame: decimal(q[9], bcd)}

	switch {
	case q[1] == 0x00:
		info.Area = AreaLeadIn
		info.LBA = info.Relative.LBA()
	case q[1] == TrackLeadOut:
		info.Area = AreaLeadOut
		info.LBA = info.Absolute.LBA()
	default:
		info.LBA = info.Absolute.LBA()
		if info.LBA < -msf.LeadInOffset {
			info.Area = AreaLeadIn
		}
	}

	return info
}

// decimal converts a BCD byte when requested. Hex codes and corrupt values
// that are not valid BCD are returned unchanged.
func decimal(v byte, bcd bool) byte {
	if bcd && msf.IsBCD(v) {
		return msf.FromBCD(v)
	}
	return v
}

// QPosition holds the fields of a program-area position frame (ADR 1).
// Track and Index are binary; TrackLeadOut is written unchanged.
type QPosition struct {
	Control  byte
	Track    byte
	Index    byte
	Relative msf.MSF
	Absolute msf.MSF
}

// EncodeQ builds a BCD position frame with its CRC. It is the inverse of
// DecodeQ(q, true) for program-area frames.
func EncodeQ(p QPosition) [12]byte {
	var q [12]byte
	q[0] = p.Control<<4 | ADRPosition
	q[1] = p.Track
	if p.Track != TrackLeadOut {
		q[1] = msf.ToBCD(p.Track)
	}
	q[2] = msf.ToBCD(p.Index)
	rel := p.Relative.BCD()
	copy(q[3:6], rel[:])
	abs := p.Absolute.BCD()
	copy(q[7:10], abs[:])
	PutCRC(&q)
	return q
}

// PutCRC stores the CRC of bytes 0-9 big-endian in bytes 10-11.
func PutCRC(q *[12]byte) {
	crc := checksum.CRC16(q[:10])
	q[10] = byte(crc >> 8)
	q[11] = byte(crc)
}

// ControlString describes a control nibble.
func ControlString(control byte) string {
	var kind string
	switch (control & 0x0C) >> 2 {
	case 0:
		kind = "stereo audio " + preEmphasis(control)
	case 1:
		if control&ControlPreEmphasis != 0 {
			kind = "data track, recorded incrementally"
		} else {
			kind = "data track, recorded uninterrupted"
		}
	case 2:
		kind = "quadraphonic audio " + preEmphasis(control)
	default:
		kind = fmt.Sprintf("reserved control value %d", control&0x01)
	}

	if control&ControlCopyPermitted != 0 {
		return kind + ", copy permitted"
	}
	return kind + ", copy prohibited"
}

func preEmphasis(control byte) string {
	if control&ControlPreEmphasis != 0 {
		return "with pre-emphasis"
	}
	return "without pre-emphasis"
}

// String renders the frame as a one-line report.
func (qi QInfo) String() string {
	var sb strings.Builder
	sb.WriteString(qi.Area.String())
	sb.WriteString(": ")
	sb.WriteString(qi.describe())

	crcState := "BAD"
	if qi.CRCOK {
		crcState = "OK"
	}
	fmt.Fprintf(&sb, ", %s, CRC 0x%04X (%s)", ControlString(qi.Control), qi.CRC, crcState)
	return sb.String()
}

//nolint:gocyclo,cyclop // one branch per ADR and POINT kind
func (qi QInfo) describe() string {
	switch qi.ADR {
	case ADRMCN:
		return fmt.Sprintf("MCN %s, frame %d", qi.MCN, qi.AFrame)
	case ADRISRC:
		return fmt.Sprintf("ISRC %s, frame %d", qi.ISRC, qi.AFrame)
	case ADRPosition:
		if qi.Area != AreaLeadIn {
			return fmt.Sprintf("track %02X index %02X, relative %s, absolute %s",
				qi.Raw[1], qi.Raw[2], qi.Relative, qi.Absolute)
		}
		switch qi.Raw[2] {
		case PointFirstTrack:
			return fmt.Sprintf("first track %02d (%s), running %s", qi.Absolute.Minute, qi.DiscType(), qi.Relative)
		case PointLastTrack:
			return fmt.Sprintf("last track %02d, running %s", qi.Absolute.Minute, qi.Relative)
		case PointLeadOut:
			return fmt.Sprintf("lead-out starts at %s, running %s", qi.Absolute, qi.Relative)
		default:
			return fmt.Sprintf("track %02X starts at %s, running %s", qi.Raw[2], qi.Absolute, qi.Relative)
		}
	case ADRMode5:
		switch {
		case qi.Raw[2] <= 0x40:
			return fmt.Sprintf("skip interval from %s to %s", qi.Absolute, qi.Relative)
		case qi.Raw[2] == PointNextProgramArea:
			if qi.Raw[3] == 0xFF && qi.Raw[4] == 0xFF && qi.Raw[5] == 0xFF {
				return fmt.Sprintf("last session, maximum lead-out at %s, %d mode 5 pointers", qi.Absolute, qi.Zero)
			}
			return fmt.Sprintf("next program area at %s, maximum lead-out at %s, %d mode 5 pointers",
				qi.Relative, qi.Absolute, qi.Zero)
		case qi.Raw[2] == PointSkipIntervals:
			return fmt.Sprintf("%d skip interval pointers, %d skip track pointers", qi.Absolute.Minute, qi.Absolute.Second)
		case qi.Raw[2] >= PointSkipTracks1 && qi.Raw[2] <= PointSkipTracks3:
			return fmt.Sprintf("skip tracks %02X %02X %02X %02X %02X %02X",
				qi.Raw[3], qi.Raw[4], qi.Raw[5], qi.Raw[7], qi.Raw[8], qi.Raw[9])
		case qi.Raw[2] == PointATIP:
			return fmt.Sprintf("optimum recording power 0x%02X, first lead-in at %s", qi.Raw[3], qi.Absolute)
		case qi.Raw[2] == PointATIPCopy:
			return "copy of ATIP A1 values"
		default:
			return fmt.Sprintf("mode 5 point 0x%02X", qi.Raw[2])
		}
	default:
		return fmt.Sprintf("unknown ADR %d", qi.ADR)
	}
}

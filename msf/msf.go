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

// Package msf converts between logical block addresses, Minute:Second:Frame
// timecodes and the packed BCD form in which timecodes are recorded on disc.
package msf

import "fmt"

// CD timing constants.
const (
	FramesPerSecond  = 75
	SecondsPerMinute = 60
	FramesPerMinute  = FramesPerSecond * SecondsPerMinute

	// LeadInOffset is the number of frames between MSF 00:02:00 and LBA 0.
	LeadInOffset = 150

	// wrapFrames is the size of the timecode space. Lead-in addresses below
	// -150 are recorded counting up towards 99:59:74, i.e. at lba + 450150.
	wrapFrames = 100 * FramesPerMinute

	// leadInMinute is the first minute value that denotes a lead-in address.
	leadInMinute = 90
)

// MSF is an absolute or relative disc timecode.
type MSF struct {
	Minute byte
	Second byte
	Frame  byte
}

// ToBCD packs a binary value 0-99 into one BCD byte.
func ToBCD(v byte) byte {
	return (v/10)<<4 | v%10
}

// FromBCD unpacks a BCD byte. Nibbles above 9 are not rejected; use IsBCD first
// when the input is untrusted.
func FromBCD(v byte) byte {
	return (v>>4)*10 + v&0x0F
}

// IsBCD reports whether both nibbles of v are decimal digits.
func IsBCD(v byte) bool {
	return v>>4 <= 9 && v&0x0F <= 9
}

// FromLBA returns the absolute timecode of lba, adding the 150-frame offset.
func FromLBA(lba int) MSF {
	pos := lba + LeadInOffset
	if pos < 0 {
		pos += wrapFrames
	}
	return FromFrames(pos)
}

// FromFrames splits a non-negative frame count into a timecode. Counts beyond
// 255 minutes are truncated.
func FromFrames(frames int) MSF {
	if frames < 0 {
		frames = 0
	}
	return MSF{
		Minute: byte(frames / FramesPerMinute),                   //nolint:gosec // truncation documented
		Second: byte(frames / FramesPerSecond % SecondsPerMinute), //nolint:gosec // < 60
		Frame:  byte(frames % FramesPerSecond),                    //nolint:gosec // < 75
	}
}

// Frames returns the timecode as a frame count.
func (m MSF) Frames() int {
	return int(m.Minute)*FramesPerMinute + int(m.Second)*FramesPerSecond + int(m.Frame)
}

// LBA returns the logical block address of an absolute timecode. Timecodes at
// or above 90:00:00 are lead-in addresses and map to negative LBAs.
func (m MSF) LBA() int {
	frames := m.Frames()
	if m.Minute >= leadInMinute {
		return frames - wrapFrames - LeadInOffset
	}
	return frames - LeadInOffset
}

// BCD returns the timecode packed as three BCD bytes.
func (m MSF) BCD() [3]byte {
	return [3]byte{ToBCD(m.Minute), ToBCD(m.Second), ToBCD(m.Frame)}
}

// FromBCDBytes unpacks three BCD bytes.
func FromBCDBytes(b [3]byte) MSF {
	return MSF{Minute: FromBCD(b[0]), Second: FromBCD(b[1]), Frame: FromBCD(b[2])}
}

// String formats the timecode as mm:ss:ff.
func (m MSF) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", m.Minute, m.Second, m.Frame)
}

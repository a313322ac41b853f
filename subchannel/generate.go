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

import "github.com/ZaparooProject/go-cdcodec/msf"

// Generate synthesises the raw interleaved subchannel of sector lba for an
// image that has none.
//
// trackStart is the LBA where the track's pregap (index 0) begins and pregap
// its length in sectors. During the pregap the P channel is set and the
// relative time counts down towards index 1; afterwards it counts up from it.
// An index of 0 selects 0 inside the pregap and 1 after it.
func Generate(lba int, trackSeq byte, pregap, trackStart int, control, index byte) [BlockSize]byte {
	indexOne := trackStart + pregap
	inPregap := lba < indexOne
	if index == 0 && !inPregap {
		index = 1
	}

	var flat [BlockSize]byte
	if inPregap {
		for i := range ChannelSize {
			flat[i] = 0xFF
		}
	}

	relative := lba - indexOne
	if inPregap {
		relative = indexOne - lba
	}

	q := EncodeQ(QPosition{
		Control:  control,
		Track:    trackSeq,
		Index:    index,
		Relative: msf.FromFrames(relative),
		Absolute: msf.FromLBA(lba),
	})
	copy(flat[ChannelSize:2*ChannelSize], q[:])

	var raw [BlockSize]byte
	interleaveBlock(raw[:], flat[:])
	return raw
}

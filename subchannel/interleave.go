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

// Package subchannel decodes and builds the eight subcode channels (P-W) that
// accompany every CD sector, with a focus on the Q channel that carries
// timecodes, the lead-in table of contents, the media catalog number and ISRCs.
//
// Raw subchannel as read from a drive or stored in a .sub file is interleaved:
// each of the 96 bytes holds one bit of each channel, P in bit 7 down to W in
// bit 0. Deinterleaved ("cooked") subchannel stores the channels one after the
// other, 12 bytes each.
package subchannel

import (
	"errors"
	"fmt"
)

// Subchannel geometry.
const (
	// BlockSize is the subchannel size of one sector.
	BlockSize = 96

	// ChannelSize is the size of one deinterleaved channel of one sector.
	ChannelSize = 12

	// NumChannels is the number of subcode channels.
	NumChannels = 8
)

// ErrInvalidLength indicates a subchannel buffer that is not made of whole
// 96-byte blocks.
var ErrInvalidLength = errors.New("subchannel length is not a multiple of 96")

// ChannelID names one of the eight subcode channels.
type ChannelID int

// Subcode channels in storage order.
const (
	P ChannelID = iota
	Q
	R
	S
	T
	U
	V
	W
)

// String returns the channel letter.
func (c ChannelID) String() string {
	if c < P || c > W {
		return fmt.Sprintf("ChannelID(%d)", int(c))
	}
	return string(rune('P' + c))
}

// Deinterleave converts raw interleaved subchannel into eight consecutive
// 12-byte channels per 96-byte block.
func Deinterleave(raw []byte) ([]byte, error) {
	if len(raw)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(raw))
	}
	out := make([]byte, len(raw))
	for base := 0; base < len(raw); base += BlockSize {
		deinterleaveBlock(out[base:base+BlockSize], raw[base:base+BlockSize])
	}
	return out, nil
}

// Interleave is the inverse of Deinterleave.
func Interleave(flat []byte) ([]byte, error) {
	if len(flat)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(flat))
	}
	out := make([]byte, len(flat))
	for base := 0; base < len(flat); base += BlockSize {
		interleaveBlock(out[base:base+BlockSize], flat[base:base+BlockSize])
	}
	return out, nil
}

// deinterleaveBlock expects dst to be zeroed. Raw byte 8*i+k carries bit 7-k
// of byte i of every channel.
func deinterleaveBlock(dst, src []byte) {
	for pos, v := range src[:BlockSize] {
		if v == 0 {
			continue
		}
		mask := byte(0x80) >> (pos % 8)
		chanByte := pos / 8
		for ch := range NumChannels {
			if v&(0x80>>ch) != 0 {
				dst[ch*ChannelSize+chanByte] |= mask
			}
		}
	}
}

// interleaveBlock expects dst to be zeroed.
func interleaveBlock(dst, src []byte) {
	for ch := range NumChannels {
		bit := byte(0x80) >> ch
		for i, v := range src[ch*ChannelSize : (ch+1)*ChannelSize] {
			for k := range 8 {
				if v&(0x80>>k) != 0 {
					dst[i*8+k] |= bit
				}
			}
		}
	}
}

// Channel returns the 12 bytes of channel c from one deinterleaved block.
// The returned slice aliases flat.
func Channel(flat []byte, c ChannelID) ([]byte, error) {
	if len(flat) < BlockSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(flat))
	}
	if c < P || c > W {
		return nil, fmt.Errorf("invalid channel %d", int(c))
	}
	return flat[int(c)*ChannelSize : int(c+1)*ChannelSize], nil
}

// QFrame extracts the Q channel of one raw (interleaved) 96-byte block.
func QFrame(raw []byte) ([12]byte, error) {
	var q [12]byte
	if len(raw) < BlockSize {
		return q, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(raw))
	}
	var flat [BlockSize]byte
	deinterleaveBlock(flat[:], raw[:BlockSize])
	copy(q[:], flat[ChannelSize:2*ChannelSize])
	return q, nil
}

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

package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// CD-DA stream parameters.
const (
	cdSampleRate    = 44100
	cdChannels      = 2
	cdBitsPerSample = 16
	cdSectorSize    = 2352
)

// decodeFLAC decodes a FLAC-compressed audio track into raw CD-DA sectors:
// interleaved little-endian 16-bit stereo samples, zero-padded to a whole
// number of 2352-byte sectors.
func decodeFLAC(r io.Reader) ([]byte, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac init: %w", err)
	}
	defer func() { _ = stream.Close() }()

	info := stream.Info
	if info.SampleRate != cdSampleRate || info.NChannels != cdChannels || info.BitsPerSample != cdBitsPerSample {
		return nil, FormatError{
			Format: ".flac",
			Reason: fmt.Sprintf("%d Hz, %d channels, %d bits is not CD audio",
				info.SampleRate, info.NChannels, info.BitsPerSample),
		}
	}
	if info.NSamples*cdChannels*2 > MaxImageSize {
		return nil, fmt.Errorf("%w: %d samples", ErrImageTooLarge, info.NSamples)
	}

	dst := make([]byte, 0, info.NSamples*cdChannels*2)
	for {
		audioFrame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("flac frame: %w", err)
		}
		dst = appendFrameSamples(dst, audioFrame)
		if len(dst) > MaxImageSize {
			return nil, fmt.Errorf("%w: flac stream", ErrImageTooLarge)
		}
	}

	if rem := len(dst) % cdSectorSize; rem != 0 {
		dst = append(dst, make([]byte, cdSectorSize-rem)...)
	}
	return dst, nil
}

// appendFrameSamples appends the samples of a FLAC frame as little-endian
// interleaved stereo.
func appendFrameSamples(dst []byte, audioFrame *frame.Frame) []byte {
	if len(audioFrame.Subframes) < cdChannels {
		return dst
	}
	left := audioFrame.Subframes[0]
	right := audioFrame.Subframes[1]
	for i := range left.NSamples {
		l, r := left.Samples[i], right.Samples[i]
		dst = append(dst, byte(l), byte(l>>8), byte(r), byte(r>>8))
	}
	return dst
}

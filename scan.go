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

package cdcodec

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/go-cdcodec/sector"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

// ErrNoSubchannel indicates an image without interleaved subchannel.
var ErrNoSubchannel = errors.New("image has no subchannel")

// ReadSector reads sector index of an image with the given sector size.
func ReadSector(r io.ReaderAt, index int64, sectorSize int) ([]byte, error) {
	buf := make([]byte, sectorSize)
	n, err := r.ReadAt(buf, index*int64(sectorSize))
	if n == sectorSize {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("read sector %d: %w", index, err)
}

// ScanSubchannel decodes the Q frame of count sectors starting at sector
// first and calls visit for each, in order. A negative count scans to the end
// of the image. Scanning stops at the first error returned by visit or when ctx
// is cancelled.
func ScanSubchannel(
	ctx context.Context,
	r io.ReaderAt,
	size int64,
	first, count int64,
	visit func(index int64, q subchannel.QInfo) error,
) error {
	if size%sector.RawWithSubchannelSize != 0 || size == 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrNoSubchannel, size, sector.RawWithSubchannelSize)
	}

	total := size / sector.RawWithSubchannelSize
	end := total
	if count >= 0 {
		end = min(total, first+count)
	}

	for index := max(first, 0); index < end; index++ {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck // context cancellation passthrough
		}
		raw, err := ReadSector(r, index, sector.RawWithSubchannelSize)
		if err != nil {
			return err
		}
		q, err := subchannel.QFrame(raw[sector.RawSize:])
		if err != nil {
			return fmt.Errorf("sector %d: %w", index, err)
		}
		if err := visit(index, subchannel.DecodeQ(q, true)); err != nil {
			return err
		}
	}
	return nil
}

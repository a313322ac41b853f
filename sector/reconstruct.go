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

package sector

import (
	"encoding/binary"
	"fmt"

	"github.com/ZaparooProject/go-cdcodec/checksum"
	"github.com/ZaparooProject/go-cdcodec/msf"
)

// edcSpan returns the range covered by the EDC of a mode. The checksum is
// stored little-endian at end.
func edcSpan(mode Mode) (start, end int, ok bool) {
	switch mode {
	case Mode1:
		return 0, offMode1EDC, true
	case Mode2Form1:
		return offData, offForm1EDC, true
	case Mode2Form2:
		return offData, offForm2EDC, true
	default:
		return 0, 0, false
	}
}

// Reconstruct rebuilds the sync, header, sub-header copy, EDC and ECC of a
// raw sector at lba in place. User data and the first sub-header copy are
// kept. Audio sectors are left untouched.
func Reconstruct(buf []byte, mode Mode, lba int) error {
	if err := ReconstructPrefix(buf, mode, lba); err != nil {
		return err
	}
	return ReconstructECC(buf, mode)
}

// ReconstructPrefix writes the sync pattern, the BCD address of lba and the
// mode byte. For Form 1 and Form 2 sectors the form bit of the sub-header is
// set to match mode and the sub-header is duplicated.
func ReconstructPrefix(buf []byte, mode Mode, lba int) error {
	if err := checkLength(buf); err != nil {
		return err
	}
	if mode == Audio {
		return nil
	}

	copy(buf[:SyncSize], syncPattern[:])
	addr := msf.FromLBA(lba).BCD()
	copy(buf[offHeader:offHeader+3], addr[:])

	switch mode {
	case Mode1:
		buf[0x0F] = 1
	case Mode2Formless:
		buf[0x0F] = 2
	case Mode2Form1:
		buf[0x0F] = 2
		buf[0x12] &^= formBit
		copy(buf[0x14:0x18], buf[0x10:0x14])
	case Mode2Form2:
		buf[0x0F] = 2
		buf[0x12] |= formBit
		copy(buf[0x14:0x18], buf[0x10:0x14])
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	return nil
}

// ReconstructECC recomputes the EDC and ECC of a sector whose prefix is
// already in place. Mode 1 reserved bytes are zeroed. Parity P is written
// before Q, which covers it.
func ReconstructECC(buf []byte, mode Mode) error {
	if err := checkLength(buf); err != nil {
		return err
	}

	start, end, ok := edcSpan(mode)
	if !ok {
		return nil
	}
	binary.LittleEndian.PutUint32(buf[end:end+edcSize], checksum.EDC(0, buf[start:end]))

	var address [4]byte
	switch mode {
	case Mode1:
		clear(buf[offReserved : offReserved+reservedSize])
		address = [4]byte(buf[offHeader:offData])
	case Mode2Form2:
		return nil
	}

	if err := checksum.WriteECC(&address, buf[offData:], buf[offEccP:], checksum.PParity); err != nil {
		return fmt.Errorf("write ECC P: %w", err)
	}
	if err := checksum.WriteECC(&address, buf[offData:], buf[offEccQ:], checksum.QParity); err != nil {
		return fmt.Errorf("write ECC Q: %w", err)
	}
	return nil
}

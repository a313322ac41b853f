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

	"github.com/ZaparooProject/go-cdcodec/checksum"
)

// Field offsets within a raw sector.
const (
	offHeader    = 0x0C
	offData      = 0x10
	offMode1EDC  = 0x810
	offReserved  = 0x814
	offEccP      = 0x81C
	offEccQ      = 0x8C8
	offForm1EDC  = 0x818
	offForm2EDC  = 0x92C
	reservedSize = 8
	edcSize      = 4
)

// Status is the outcome of one field check.
type Status int

// Field check outcomes.
const (
	NotApplicable Status = iota
	OK
	Bad
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Bad:
		return "bad"
	default:
		return "n/a"
	}
}

// MarshalText renders the status by name in JSON and YAML reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func statusOf(ok bool) Status {
	if ok {
		return OK
	}
	return Bad
}

// Result is the outcome of Check. Mode is the raw mode byte and Form the
// Mode 2 form taken from the sub-header (0 for other modes).
type Result struct {
	Mode     byte
	Form     byte
	Sync     bool
	Overall  bool
	Reserved Status
	EccP     Status
	EccQ     Status
	EDC      Status
}

// Check validates the sync pattern, EDC and ECC of a raw sector. buf may carry
// trailing subchannel, which is ignored. A sector without sync yields a result
// with Sync unset and every field not applicable.
func Check(buf []byte) (Result, error) {
	if err := checkLength(buf); err != nil {
		return Result{}, err
	}
	if !HasSync(buf) {
		return Result{}, nil
	}

	res := Result{Sync: true, Mode: buf[0x0F] & 0x03}
	switch res.Mode {
	case 0:
		res.Overall = allZero(buf[offData:RawSize])
	case 1:
		checkMode1(buf, &res)
	case 2:
		checkMode2(buf, &res)
	}
	return res, nil
}

func checkMode1(buf []byte, res *Result) {
	address := [4]byte(buf[offHeader:offData])
	res.Reserved = statusOf(allZero(buf[offReserved : offReserved+reservedSize]))
	res.EccP = statusOf(checksum.CheckECC(&address, buf[offData:], buf[offEccP:], checksum.PParity))
	res.EccQ = statusOf(checksum.CheckECC(&address, buf[offData:], buf[offEccQ:], checksum.QParity))
	res.EDC = statusOf(checksum.EDC(0, buf[:offMode1EDC]) == binary.LittleEndian.Uint32(buf[offMode1EDC:]))
	res.Overall = res.Reserved == OK && res.EccP == OK && res.EccQ == OK && res.EDC == OK
}

func checkMode2(buf []byte, res *Result) {
	if buf[0x12]&formBit != 0 {
		res.Form = 2
		stored := binary.LittleEndian.Uint32(buf[offForm2EDC:])
		res.EDC = statusOf(stored == 0 || checksum.EDC(0, buf[offData:offForm2EDC]) == stored)
		res.Overall = res.EDC == OK
		return
	}

	res.Form = 1
	var address [4]byte
	res.EccP = statusOf(checksum.CheckECC(&address, buf[offData:], buf[offEccP:], checksum.PParity))
	res.EccQ = statusOf(checksum.CheckECC(&address, buf[offData:], buf[offEccQ:], checksum.QParity))
	res.EDC = statusOf(checksum.EDC(0, buf[offData:offForm1EDC]) == binary.LittleEndian.Uint32(buf[offForm1EDC:]))
	res.Overall = res.EccP == OK && res.EccQ == OK && res.EDC == OK
}

func allZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

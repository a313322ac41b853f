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

package checksum

import "testing"

// FuzzECC checks that freshly written parity always verifies.
func FuzzECC(f *testing.F) {
	f.Add([]byte{}, byte(0))
	f.Add([]byte("sector payload"), byte(0x42))

	f.Fuzz(func(t *testing.T, seed []byte, addr byte) {
		address := [4]byte{addr, addr + 1, addr + 2, 0x01}
		for _, params := range []ECCParams{PParity, QParity} {
			data := make([]byte, params.DataSize())
			copy(data, seed)
			ecc := make([]byte, params.ParitySize())
			if err := WriteECC(&address, data, ecc, params); err != nil {
				t.Fatalf("WriteECC failed: %v", err)
			}
			if !CheckECC(&address, data, ecc, params) {
				t.Error("written parity does not verify")
			}
		}
	})
}

// FuzzEDCSplit checks that EDC is resumable at any split point.
func FuzzEDCSplit(f *testing.F) {
	f.Add([]byte("123456789"), 4)
	f.Add([]byte{}, 0)

	f.Fuzz(func(t *testing.T, data []byte, split int) {
		if split < 0 || split > len(data) {
			return
		}
		if EDC(0, data) != EDC(EDC(0, data[:split]), data[split:]) {
			t.Error("EDC is not resumable")
		}
	})
}

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

package mmc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		buf    []byte
		wantOK bool
	}{
		{"nil", nil, false},
		{"header only", []byte{0x00, 0x02, 0x01, 0x01}, false},
		{"matching length", []byte{0x00, 0x03, 0x01, 0x01, 0xFF}, true},
		{"length too large", []byte{0x00, 0x09, 0x01, 0x01, 0xFF}, false},
		{"length too small", []byte{0x00, 0x01, 0x01, 0x01, 0xFF}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := ParseHeader(tt.buf)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNewResponseAndRecords(t *testing.T) {
	t.Parallel()

	buf := NewResponse(1, 2, 22)
	h, ok := ParseHeader(buf)
	assert.True(t, ok)
	assert.Equal(t, uint16(24), h.DataLength)
	assert.Equal(t, byte(1), h.Field1)
	assert.Equal(t, byte(2), h.Field2)
	assert.Len(t, Records(buf, 11), 2)
	assert.Len(t, Records(buf, 8), 2, "partial trailing record is dropped")
	assert.Nil(t, NewResponse(0, 0, 70000))
}

func TestADRControl(t *testing.T) {
	t.Parallel()

	adr, control := SplitADRControl(0x14)
	assert.Equal(t, byte(1), adr)
	assert.Equal(t, byte(4), control)
	assert.Equal(t, byte(0x14), JoinADRControl(adr, control))
}

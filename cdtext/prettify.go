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

package cdtext

import (
	"fmt"
	"slices"
	"strings"
)

// Prettify renders every pack of c followed by the assembled strings, or ""
// for nil.
func Prettify(c *CDText) string {
	if c == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("CD-TEXT on lead-in:\n")
	for i, p := range c.Packs {
		if !p.Interpreted {
			fmt.Fprintf(&sb, "Pack %d: incorrect pack type 0x%02X, not decoding\n", i, p.Raw[0])
			continue
		}

		subject := "disc"
		if p.Track() != 0 {
			subject = fmt.Sprintf("track %d", p.Track())
		}
		fmt.Fprintf(&sb, "Pack %d: %s for %s, block %d, sequence %d, character position %d\n",
			i, p.Type, subject, p.BlockNumber, p.HeaderID3, p.CharacterPosition)
		if p.Extension() {
			sb.WriteString("\tExtension pack\n")
		}
		if p.DBCC {
			sb.WriteString("\tDouble byte characters\n")
		}
		if p.Type.IsText() && !p.DBCC {
			fmt.Fprintf(&sb, "\tText: %q\n", strings.TrimRight(string(p.Text[:]), "\x00"))
		} else {
			fmt.Fprintf(&sb, "\tData: % X\n", p.Text[:])
		}
		status := "OK"
		if !p.CRCOK {
			status = "BAD"
		}
		fmt.Fprintf(&sb, "\tCRC: 0x%04X (%s)\n", p.CRC, status)
	}

	for _, b := range Strings(c) {
		if len(b.Text) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "Block %d (character code 0x%02X, language 0x%02X):\n",
			b.Number, b.Charset, b.Language)
		tracks := make([]byte, 0, len(b.Text))
		for track := range b.Text {
			tracks = append(tracks, track)
		}
		slices.Sort(tracks)
		for _, track := range tracks {
			types := make([]PackType, 0, len(b.Text[track]))
			for typ := range b.Text[track] {
				types = append(types, typ)
			}
			slices.Sort(types)
			for _, typ := range types {
				if track == 0 {
					fmt.Fprintf(&sb, "\tDisc %s: %s\n", typ, b.Text[track][typ])
				} else {
					fmt.Fprintf(&sb, "\tTrack %d %s: %s\n", track, typ, b.Text[track][typ])
				}
			}
		}
	}
	return sb.String()
}

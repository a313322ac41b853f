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
	"bytes"
	"sort"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Character codes declared by size information packs.
const (
	CharsetISO8859_1 = 0x00
	CharsetASCII     = 0x01
	CharsetMSJIS     = 0x80
	CharsetKorean    = 0x81
	CharsetMandarin  = 0x82
)

// Block holds the strings of one CD-TEXT block (one language). Text is keyed
// by track number, track 0 being the whole disc.
type Block struct {
	Text       map[byte]map[PackType]string
	Number     byte
	Charset    byte
	Language   byte
	FirstTrack byte
	LastTrack  byte
}

// Title returns the title of a track, or of the disc for track 0.
func (b *Block) Title(track byte) string {
	return b.Text[track][TypeTitle]
}

// Performer returns the performer of a track, or of the disc for track 0.
func (b *Block) Performer(track byte) string {
	return b.Text[track][TypePerformer]
}

// Strings assembles the text packs of c into per-block strings, in block
// order. Packs failing their CRC are skipped. Text following a skipped pack
// is placed by the track number of the next good pack, and a string whose
// beginning was lost is dropped.
func Strings(c *CDText) []Block {
	if c == nil {
		return nil
	}

	blocks := map[byte]*Block{}
	block := func(n byte) *Block {
		b, ok := blocks[n]
		if !ok {
			b = &Block{Number: n, Text: map[byte]map[PackType]string{}}
			blocks[n] = b
		}
		return b
	}

	// A segment is a run of consecutive good packs of one type. A pack lost
	// to a bad CRC ends the run; the next good pack restarts it from its own
	// track number.
	type segment struct {
		data    []byte
		track   byte
		partial bool
		dbcc    bool
	}
	type streamKey struct {
		block byte
		typ   PackType
	}
	segments := map[streamKey][]*segment{}
	broken := false

	for _, p := range c.Packs {
		if !p.Interpreted {
			continue
		}
		if !p.CRCOK {
			broken = true
			continue
		}
		b := block(p.BlockNumber)

		if p.Type == TypeSizeInfo {
			applySizeInfo(b, p)
			continue
		}
		if !p.Type.IsText() {
			continue
		}

		key := streamKey{block: p.BlockNumber, typ: p.Type}
		runs := segments[key]
		if len(runs) == 0 || broken {
			runs = append(runs, &segment{
				track:   p.Track(),
				partial: p.CharacterPosition > 0,
				dbcc:    p.DBCC,
			})
			segments[key] = runs
			broken = false
		}
		last := runs[len(runs)-1]
		last.data = append(last.data, p.Text[:]...)
	}

	for key, runs := range segments {
		b := block(key.block)
		for _, seg := range runs {
			data, track := seg.data, int(seg.track)
			if seg.partial {
				// The first string began in a lost pack.
				data = afterTerminator(data, seg.dbcc)
				track++
			}
			for i, text := range splitStrings(data, seg.dbcc) {
				if track+i > 99 {
					break
				}
				t := byte(track + i)
				if b.Text[t] == nil {
					b.Text[t] = map[PackType]string{}
				}
				b.Text[t][key.typ] = decodeText(text, b.Charset, seg.dbcc)
			}
		}
	}

	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// applySizeInfo reads the three size information packs of a block. The first
// carries the character code and track range, the third the language codes of
// all eight blocks.
func applySizeInfo(b *Block, p Pack) {
	switch p.Track() {
	case 0:
		b.Charset = p.Text[0]
		b.FirstTrack = p.Text[1]
		b.LastTrack = p.Text[2]
	case 2:
		b.Language = p.Text[4+b.Number]
	}
}

// afterTerminator returns data past its first string terminator, or nil when
// there is none.
func afterTerminator(data []byte, dbcc bool) []byte {
	if !dbcc {
		if i := bytes.IndexByte(data, 0); i >= 0 {
			return data[i+1:]
		}
		return nil
	}
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return data[i+2:]
		}
	}
	return nil
}

// splitStrings splits a concatenated text stream at its terminators. A lone
// tab repeats the previous string. Empty strings left by the padding of the
// last pack are dropped.
func splitStrings(data []byte, dbcc bool) [][]byte {
	sep := []byte{0}
	tab := []byte{'\t'}
	if dbcc {
		sep = []byte{0, 0}
		tab = []byte{'\t', '\t'}
	}

	parts := bytes.Split(data, sep)
	if len(parts) > 0 {
		parts = parts[:len(parts)-1]
	}
	for i, part := range parts {
		if i > 0 && bytes.Equal(part, tab) {
			parts[i] = parts[i-1]
		}
	}
	for len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// decodeText converts text in the block's character code to UTF-8. Codes
// without a decoder are returned unchanged.
func decodeText(text []byte, charset byte, dbcc bool) string {
	switch {
	case charset == CharsetMSJIS || (dbcc && charset != CharsetKorean && charset != CharsetMandarin):
		if out, err := japanese.ShiftJIS.NewDecoder().Bytes(text); err == nil {
			return string(out)
		}
	case charset == CharsetISO8859_1:
		if out, err := charmap.ISO8859_1.NewDecoder().Bytes(text); err == nil {
			return string(out)
		}
	}
	return string(text)
}

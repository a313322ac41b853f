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

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ZaparooProject/go-cdcodec/atip"
	"github.com/ZaparooProject/go-cdcodec/cdtext"
	"github.com/ZaparooProject/go-cdcodec/toc"
)

var errMalformed = errors.New("malformed response")

// readResponse loads a raw MMC READ TOC/PMA/ATIP response saved by a drive
// tool.
func (a *app) readResponse(path string) ([]byte, error) {
	buf, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return buf, nil
}

// metadataCmd builds a subcommand that decodes one response file with decode.
func (a *app) metadataCmd(use, short string, decode func([]byte) (any, string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <response>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := a.readResponse(args[0])
			if err != nil {
				return err
			}
			v, text, ok := decode(buf)
			if !ok {
				return fmt.Errorf("%w: %s (%d bytes)", errMalformed, args[0], len(buf))
			}
			return a.emitString(cmd.OutOrStdout(), v, text)
		},
	}
}

func (a *app) atipCmd() *cobra.Command {
	return a.metadataCmd("atip", "Decode an ATIP response", func(buf []byte) (any, string, bool) {
		v, ok := atip.Decode(buf)
		if !ok {
			return nil, "", false
		}
		return v, atip.Prettify(v), true
	})
}

func (a *app) tocCmd() *cobra.Command {
	return a.metadataCmd("toc", "Decode a formatted TOC response", func(buf []byte) (any, string, bool) {
		v, ok := toc.Decode(buf)
		if !ok {
			return nil, "", false
		}
		return v, toc.Prettify(v), true
	})
}

func (a *app) sessionCmd() *cobra.Command {
	return a.metadataCmd("session", "Decode a session information response", func(buf []byte) (any, string, bool) {
		v, ok := toc.DecodeSession(buf)
		if !ok {
			return nil, "", false
		}
		return v, toc.PrettifySession(v), true
	})
}

func (a *app) fullTOCCmd() *cobra.Command {
	return a.metadataCmd("fulltoc", "Decode a full (raw) TOC response", func(buf []byte) (any, string, bool) {
		v, ok := toc.DecodeFull(buf)
		if !ok {
			return nil, "", false
		}
		return v, toc.PrettifyFull(v), true
	})
}

type cdtextOutput struct {
	CDText *cdtext.CDText `json:"cdtext" yaml:"cdtext"`
	Blocks []cdtext.Block `json:"blocks" yaml:"blocks"`
	BadCRC int            `json:"bad_crc" yaml:"bad_crc"`
}

func (a *app) cdtextCmd() *cobra.Command {
	return a.metadataCmd("cdtext", "Decode a CD-TEXT response", func(buf []byte) (any, string, bool) {
		v, ok := cdtext.Decode(buf)
		if !ok {
			return nil, "", false
		}
		out := cdtextOutput{CDText: v, Blocks: cdtext.Strings(v), BadCRC: len(v.BadPacks())}
		return out, cdtext.Prettify(v), true
	})
}

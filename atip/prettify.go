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

package atip

import (
	"fmt"
	"strings"
)

// manufacturerMinute is the lead-in start minute under which the second and
// frame fields identify the disc manufacturer.
const manufacturerMinute = 97

type manufacturerKey struct {
	second byte
	frame  byte
}

// Keyed by lead-in start second and frame rounded down to a multiple of ten.
var manufacturers = map[manufacturerKey]string{
	{15, 10}: "Ritek Co.",
	{16, 30}: "Optodisc Technology Corporation",
	{17, 0}:  "Moser Baer India Limited",
	{22, 40}: "Prodisc Technology Inc.",
	{23, 10}: "Doremi Media Co., Ltd.",
	{23, 20}: "Daxon Technology Inc.",
	{24, 0}:  "Taiyo Yuden Company Limited",
	{24, 10}: "Sony Corporation",
	{25, 20}: "Infodisc Technology Co., Ltd.",
	{26, 20}: "SKC Co., Ltd.",
	{26, 40}: "FUJI Photo Film Co., Ltd.",
	{26, 50}: "Lead Data Inc.",
	{26, 60}: "CMC Magnetics Corporation",
	{27, 0}:  "Plasmon Data Systems Ltd.",
	{27, 10}: "Nan-Ya Plastics Corporation",
	{27, 50}: "Princo Corporation",
	{28, 30}: "Woongjin Media Corp.",
	{31, 0}:  "Ritek Co.",
	{32, 0}:  "TDK Corporation",
	{34, 20}: "Mitsubishi Chemical Corporation",
	{48, 60}: "Mitsui Chemicals, Inc.",
}

// Manufacturer returns the manufacturer encoded by a lead-in start of
// 97:second:frame, or "" when the pair is unknown.
func Manufacturer(second, frame byte) string {
	return manufacturers[manufacturerKey{second: second, frame: frame - frame%10}]
}

var rewritableSubTypes = [8]string{
	"CD-RW",
	"High-Speed CD-RW",
	"Ultra-Speed CD-RW",
	"Ultra-Speed+ CD-RW",
	"medium type B, low beta category (B-)",
	"medium type B, high beta category (B+)",
	"medium type C, low beta category (C-)",
	"medium type C, high beta category (C+)",
}

var recordableSubTypes = [8]string{
	"normal speed CLV",
	"high speed CAV",
	"medium type A, low beta category (A-)",
	"medium type A, high beta category (A+)",
	"medium type B, low beta category (B-)",
	"medium type B, high beta category (B+)",
	"medium type C, low beta category (C-)",
	"medium type C, high beta category (C+)",
}

// Prettify renders a human-readable report of a, or "" for nil.
func Prettify(a *ATIP) string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	kind := "CD-R"
	if a.DiscType {
		kind = "CD-RW"
	}
	if a.DDCD {
		kind = "DD" + kind
	}
	fmt.Fprintf(&sb, "Disc is %s\n", kind)
	fmt.Fprintf(&sb, "Indicative target writing power: %d\n", a.ITWP)
	fmt.Fprintf(&sb, "Reference speed code: %d\n", a.ReferenceSpeed)

	if a.DiscType {
		fmt.Fprintf(&sb, "Disc subtype: %s\n", rewritableSubTypes[a.DiscSubType&0x07])
	} else {
		fmt.Fprintf(&sb, "Disc subtype: %s\n", recordableSubTypes[a.DiscSubType&0x07])
	}

	if a.URU {
		sb.WriteString("Disc use is unrestricted\n")
	} else {
		sb.WriteString("Disc use is restricted\n")
	}

	fmt.Fprintf(&sb, "ATIP start time of lead-in: %s\n", a.LeadInStart)
	fmt.Fprintf(&sb, "ATIP last possible start time of lead-out: %s\n", a.LeadOutStart)

	if a.A1Valid {
		fmt.Fprintf(&sb, "A1 values: %02X%02X%02X\n", a.A1[0], a.A1[1], a.A1[2])
	}
	if a.A2Valid {
		fmt.Fprintf(&sb, "A2 values: %02X%02X%02X\n", a.A2[0], a.A2[1], a.A2[2])
	}
	if a.A3Valid {
		fmt.Fprintf(&sb, "A3 values: %02X%02X%02X\n", a.A3[0], a.A3[1], a.A3[2])
	}
	if a.S4 != nil {
		fmt.Fprintf(&sb, "S4 values: %02X%02X%02X\n", a.S4[0], a.S4[1], a.S4[2])
	}

	if a.LeadInStart.Minute == manufacturerMinute {
		if name := Manufacturer(a.LeadInStart.Second, a.LeadInStart.Frame); name != "" {
			fmt.Fprintf(&sb, "Disc manufactured by: %s\n", name)
		} else {
			fmt.Fprintf(&sb, "Disc manufacturer code: 97:%02d:%02d\n",
				a.LeadInStart.Second, a.LeadInStart.Frame)
		}
	}

	return sb.String()
}

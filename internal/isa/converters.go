// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package isa

import (
	"fmt"
	"strings"

	"github.com/halfword/thumbasm/internal/encoding"
	"github.com/halfword/thumbasm/internal/labels"
)

// Kind tags the argument converters of §4.2. Dispatch is an exhaustive
// switch over Kind rather than a stored function value, so a Converter
// value can be compared and printed like any other piece of table data.
type Kind int

const (
	KindReg Kind = iota
	KindReg4
	KindRegOrImmediate
	KindRList
	KindUint
	KindSint
	KindThumb2ImmediateT3
	KindBlAddr
	KindWordLiteral
)

// Converter is one entry in a variant's converter list: a tag plus the
// parameters that particular tag needs. Off/Bits/Shift/ImmBit are
// meaningful only for the tags that use them.
type Converter struct {
	Kind   Kind
	Off    uint
	Bits   uint
	Shift  uint
	ImmBit uint
}

func Reg(off uint) Converter  { return Converter{Kind: KindReg, Off: off} }
func Reg4(off uint) Converter { return Converter{Kind: KindReg4, Off: off} }
func RList() Converter        { return Converter{Kind: KindRList} }
func BlAddr() Converter       { return Converter{Kind: KindBlAddr} }
func WordLiteral() Converter  { return Converter{Kind: KindWordLiteral} }
func Thumb2T3() Converter     { return Converter{Kind: KindThumb2ImmediateT3} }

func RegOrImmediate(regOff, immBit uint) Converter {
	return Converter{Kind: KindRegOrImmediate, Off: regOff, ImmBit: immBit}
}

func Uint(off, bits, shift uint) Converter {
	return Converter{Kind: KindUint, Off: off, Bits: bits, Shift: shift}
}

func Sint(off, bits, shift uint) Converter {
	return Converter{Kind: KindSint, Off: off, Bits: bits, Shift: shift}
}

var lowRegisters = map[string]uint32{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
}

var wideRegisters = map[string]uint32{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
	"r8": 8, "r9": 9, "r10": 10, "r11": 11,
	"r12": 12, "r13": 13, "r14": 14, "r15": 15,
	"lr": 14, "pc": 15, "sp": 13,
}

// Apply evaluates a single converter against one capture-group's text.
// tbl is consulted by Uint, Sint and BlAddr for a label reference.
func (c Converter) Apply(text string, tbl *labels.Table, pos labels.Cursor) (uint32, error) {
	switch c.Kind {
	case KindReg:
		v, ok := lowRegisters[strings.ToLower(text)]
		if !ok {
			return 0, &UnknownRegisterError{Position: pos, Received: text}
		}
		return v << c.Off, nil

	case KindReg4:
		v, ok := wideRegisters[strings.ToLower(text)]
		if !ok {
			return 0, &UnknownRegisterError{Position: pos, Received: text}
		}
		return v << c.Off, nil

	case KindRegOrImmediate:
		if n, err := encoding.DecodeInt(text); err == nil {
			if n < 0 || n > 7 {
				return 0, &ImmediateOutOfRangeError{Position: pos, Min: 0, Max: 7, Received: n}
			}
			return (uint32(n) << c.Off) | (1 << c.ImmBit), nil
		}
		v, ok := lowRegisters[strings.ToLower(text)]
		if !ok {
			return 0, &UnknownRegisterError{Position: pos, Received: text}
		}
		return v << c.Off, nil

	case KindRList:
		return convertRList(text, pos)

	case KindUint:
		return convertImmediate(text, tbl, pos, c.Off, c.Bits, c.Shift, false)

	case KindSint:
		return convertImmediate(text, tbl, pos, c.Off, c.Bits, c.Shift, true)

	case KindThumb2ImmediateT3:
		v, err := parseHashImmediateHex(text, pos, 0, 65535)
		if err != nil {
			return 0, err
		}
		imm4 := uint32(v>>12) & 0xF
		i := uint32(v>>11) & 0x1
		imm3 := uint32(v>>8) & 0x7
		imm8 := uint32(v) & 0xFF
		return (i << 26) | (imm4 << 16) | (imm3 << 12) | imm8, nil

	case KindBlAddr:
		v, err := convertImmediate(text, tbl, pos, 0, 22, 1, true)
		if err != nil {
			return 0, err
		}
		return ((v>>11)&0x7FF)<<16 | (v & 0x7FF), nil

	case KindWordLiteral:
		return convertWordLiteral(text, pos)
	}

	return 0, fmt.Errorf("unhandled converter kind %d", c.Kind)
}

func convertRList(text string, pos labels.Cursor) (uint32, error) {
	var mask uint32
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		low := strings.ToLower(tok)
		if low == "lr" {
			mask |= 1 << 8
			continue
		}
		v, ok := lowRegisters[low]
		if !ok {
			return 0, &UnknownRegisterError{Position: pos, Received: tok}
		}
		mask |= 1 << v
	}
	return mask, nil
}

// parseHashImmediateHex accepts both '#0x...' and '#123' spellings, used by
// the Thumb-2 T3 immediate converter (movw's #imm16 is conventionally
// written in hex).
func parseHashImmediateHex(text string, pos labels.Cursor, min, max int64) (int64, error) {
	if !strings.HasPrefix(text, "#") {
		return 0, &MalformedImmediateError{Position: pos, Received: text}
	}
	rest := text[1:]

	var v int64
	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") {
		parsed, err := encoding.DecodeHex(rest)
		if err != nil {
			return 0, &MalformedImmediateError{Position: pos, Received: text}
		}
		v = int64(parsed)
	} else {
		parsed, err := encoding.DecodeInt(text)
		if err != nil {
			return 0, &MalformedImmediateError{Position: pos, Received: text}
		}
		v = int64(parsed)
	}

	if v < min || v > max {
		return 0, &ImmediateOutOfRangeError{Position: pos, Min: min, Max: max, Received: int32(v)}
	}
	return v, nil
}

func convertWordLiteral(text string, pos labels.Cursor) (uint32, error) {
	var v uint32
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		parsed, err := encoding.DecodeHex(text[1:])
		if err != nil {
			return 0, &MalformedImmediateError{Position: pos, Received: text}
		}
		v = parsed
	} else {
		parsed, err := encoding.DecodeInt(text)
		if err != nil {
			return 0, &MalformedImmediateError{Position: pos, Received: text}
		}
		v = uint32(parsed)
	}
	return encoding.SwapHalfwords(v), nil
}

// convertImmediate implements the general immediate/displacement
// converter of §4.2: a '#'-prefixed literal is an immediate, anything
// else is a label reference (optionally `label+integer`) resolved as a
// PC-relative byte displacement.
func convertImmediate(
	text string, tbl *labels.Table, pos labels.Cursor, off, bits, shift uint, signed bool,
) (uint32, error) {
	var v int64

	if strings.HasPrefix(text, "#") {
		parsed, err := encoding.DecodeInt(text)
		if err != nil {
			return 0, &MalformedImmediateError{Position: pos, Received: text}
		}
		v = int64(parsed)
	} else {
		name := text
		var delta int64
		if i := strings.Index(text, "+"); i >= 0 {
			name = text[:i]
			parsed, err := encoding.DecodeInt(text[i+1:])
			if err != nil {
				return 0, &MalformedImmediateError{Position: pos, Received: text}
			}
			delta = int64(parsed)
		}

		addr, exists := tbl.Lookup(name)
		if !exists {
			return 0, &labels.UnknownError{Position: pos, Name: name}
		}
		pc, _ := tbl.Lookup(labels.PC)
		v = int64(addr) + delta - int64(pc)
	}

	var min, max int64
	if signed {
		min = -(int64(1) << (bits - 1)) << shift
		max = ((int64(1) << (bits - 1)) - 1) << shift
	} else {
		min = 0
		max = ((int64(1) << bits) - 1) << shift
	}

	if v < min || v > max {
		return 0, &ImmediateOutOfRangeError{Position: pos, Min: min, Max: max, Received: int32(v)}
	}
	if v&((int64(1)<<shift)-1) != 0 {
		return 0, &ImmediateAlignmentError{Position: pos, Shift: shift, Received: v}
	}

	field := encoding.MaskBits(uint32(v>>shift), bits)
	return field << off, nil
}

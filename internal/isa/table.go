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

import "regexp"

// Variant is one concrete encoding for a mnemonic: a template, the
// argument-blob pattern that selects it, and the converters fed
// positionally from the pattern's capture groups.
type Variant struct {
	Mnemonic   string
	Pattern    *regexp.Regexp
	Converters []Converter
	Template   Template
}

// Match reports whether blob is accepted by this variant, returning its
// capture groups (without the whole-match group at index 0) on success.
func (v *Variant) Match(blob string) ([]string, bool) {
	m := v.Pattern.FindStringSubmatch(blob)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// Table is the declarative mnemonic-to-variants mapping of §4.3: an
// ordered list per mnemonic, first-match-wins. It is built once at
// package init and never mutated afterwards, so it may be shared freely
// across concurrent assemble calls.
type Table map[string][]Variant

func mustVariant(mnemonic, tmplStr, pattern string, converters ...Converter) Variant {
	tmpl, err := parseTemplate(tmplStr)
	if err != nil {
		panic(&InternalTemplateError{Mnemonic: mnemonic, Reason: err.Error()})
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		panic(&InternalTemplateError{Mnemonic: mnemonic, Reason: err.Error()})
	}

	if re.NumSubexp() != len(converters) {
		panic(&InternalTemplateError{
			Mnemonic: mnemonic,
			Reason:   "capture group count does not match converter count",
		})
	}

	return Variant{Mnemonic: mnemonic, Pattern: re, Converters: converters, Template: tmpl}
}

// Register operand fragments. lowReg accepts only r0..r7 (the 3-bit
// register fields); wideReg additionally accepts r8..r15, lr, pc, sp (the
// 4-bit fields and their aliases).
const (
	lowReg  = `(r[0-7])`
	wideReg = `(r1[0-5]|r[0-9]|lr|pc|sp)`
	imm     = `(#-?\d+)`
	label   = `(\w+(?:\+\d+)?)`
)

// aluFamily lists the single-variant "rD,rS" ALU register operations that
// all share the 010000+op4+sss+ddd template shape.
var aluFamily = map[string]uint32{
	"and": 0b0000,
	"eor": 0b0001,
	"adc": 0b0101,
	"sbc": 0b0110,
	"ror": 0b0111,
	"tst": 0b1000,
	"neg": 0b1001,
	"cmn": 0b1011,
	"orr": 0b1100,
	"mul": 0b1101,
	"bic": 0b1110,
	"mvn": 0b1111,
}

var condBranch = map[string]uint32{
	"beq": 0b0000, "bne": 0b0001,
	"bcs": 0b0010, "bhs": 0b0010,
	"bcc": 0b0011, "blo": 0b0011,
	"bmi": 0b0100, "bpl": 0b0101,
	"bvs": 0b0110, "bvc": 0b0111,
	"bhi": 0b1000, "bls": 0b1001,
	"bge": 0b1010, "blt": 0b1011,
	"bgt": 0b1100, "ble": 0b1101,
}

func aluTemplate(op4 uint32) string {
	bits := make([]byte, 16)
	lit := "010000"
	for i := 0; i < 6; i++ {
		bits[i] = lit[i]
	}
	for i := 0; i < 4; i++ {
		if op4&(1<<uint(3-i)) != 0 {
			bits[6+i] = '1'
		} else {
			bits[6+i] = '0'
		}
	}
	for i := 10; i < 16; i++ {
		bits[i] = '_'
	}
	return string(bits)
}

func condBranchTemplate(cond uint32) string {
	bits := make([]byte, 16)
	lit := "1101"
	for i := 0; i < 4; i++ {
		bits[i] = lit[i]
	}
	for i := 0; i < 4; i++ {
		if cond&(1<<uint(3-i)) != 0 {
			bits[4+i] = '1'
		} else {
			bits[4+i] = '0'
		}
	}
	for i := 8; i < 16; i++ {
		bits[i] = '_'
	}
	return string(bits)
}

// NewTable builds the static instruction table of §6. It panics on a
// malformed entry (mismatched capture-group counts, bad template width);
// those are table-definition bugs caught the first time the package is
// used, not user input errors.
func NewTable() Table {
	t := Table{}

	add := func(mnemonic string, v Variant) {
		t[mnemonic] = append(t[mnemonic], v)
	}

	// --- shift/compare with a move-shifted-register immediate form ---
	add("lsl", mustVariant("lsl", "00000iiiiisssddd", "^"+lowReg+","+lowReg+","+imm+"$",
		Reg(0), Reg(3), Uint(6, 5, 0)))
	add("lsl", mustVariant("lsl", "0100000010sssddd", "^"+lowReg+","+lowReg+"$",
		Reg(0), Reg(3)))

	add("lsr", mustVariant("lsr", "00001iiiiisssddd", "^"+lowReg+","+lowReg+","+imm+"$",
		Reg(0), Reg(3), Uint(6, 5, 0)))
	add("lsr", mustVariant("lsr", "0100000011sssddd", "^"+lowReg+","+lowReg+"$",
		Reg(0), Reg(3)))

	add("asr", mustVariant("asr", "00010iiiiisssddd", "^"+lowReg+","+lowReg+","+imm+"$",
		Reg(0), Reg(3), Uint(6, 5, 0)))
	add("asr", mustVariant("asr", "0100000100sssddd", "^"+lowReg+","+lowReg+"$",
		Reg(0), Reg(3)))

	add("cmp", mustVariant("cmp", "00101dddiiiiiiii", "^"+lowReg+","+imm+"$",
		Reg(8), Uint(0, 8, 0)))
	add("cmp", mustVariant("cmp", "0100001010sssddd", "^"+lowReg+","+lowReg+"$",
		Reg(0), Reg(3)))

	// --- the ALU register-operation family sharing one template shape ---
	for mnemonic, op4 := range aluFamily {
		add(mnemonic, mustVariant(mnemonic, aluTemplate(op4), "^"+lowReg+","+lowReg+"$",
			Reg(0), Reg(3)))
	}

	// --- conditional and unconditional branches ---
	for mnemonic, cond := range condBranch {
		add(mnemonic, mustVariant(mnemonic, condBranchTemplate(cond), "^"+label+"$",
			Sint(0, 8, 1)))
	}
	add("b", mustVariant("b", "11100iiiiiiiiiii", "^"+label+"$", Sint(0, 11, 1)))
	add("bl", mustVariant("bl", blTemplate(), "^"+label+"$", BlAddr()))
	add("bx", mustVariant("bx", "010001110rrrr000", "^"+wideReg+"$", Reg4(3)))

	add("adr", mustVariant("adr", "10100dddiiiiiiii", "^"+lowReg+","+label+"$",
		Reg(8), Uint(0, 8, 2)))

	add("push", mustVariant("push", "1011010_________", `^\{(.*)\}$`, RList()))
	add("pop", mustVariant("pop", "1011110_________", `^\{(.*)\}$`, RList()))

	// --- add / adds / sub ---
	add("add", mustVariant("add", "00110dddiiiiiiii", "^"+lowReg+","+imm+"$",
		Reg(8), Uint(0, 8, 0)))
	add("add", mustVariant("add", "10100dddiiiiiiii", "^"+lowReg+`,pc,`+imm+"$",
		Reg(8), Uint(0, 8, 2)))
	add("add", mustVariant("add", "10101dddiiiiiiii", "^"+lowReg+`,sp,`+imm+"$",
		Reg(8), Uint(0, 8, 2)))
	add("add", mustVariant("add", "101100000iiiiiii", "^sp,"+imm+"$", Uint(0, 7, 2)))
	add("add", mustVariant("add", "000110____sssddd", "^"+lowReg+","+lowReg+`,(r[0-7]|#-?\d+)$`,
		Reg(0), Reg(3), RegOrImmediate(6, 9)))

	add("adds", mustVariant("adds", "000110____sssddd", "^"+lowReg+","+lowReg+`,(r[0-7]|#-?\d+)$`,
		Reg(0), Reg(3), RegOrImmediate(6, 9)))

	add("sub", mustVariant("sub", "00111dddiiiiiiii", "^"+lowReg+","+imm+"$",
		Reg(8), Uint(0, 8, 0)))
	add("sub", mustVariant("sub", "101100001iiiiiii", "^sp,"+imm+"$", Uint(0, 7, 2)))
	add("sub", mustVariant("sub", "000111____sssddd", "^"+lowReg+","+lowReg+`,(r[0-7]|#-?\d+)$`,
		Reg(0), Reg(3), RegOrImmediate(6, 9)))

	// --- guessed Thumb-2 32-bit three-operand register forms ---
	add("add.w", mustVariant("add.w", "111010110000"+"____"+"0000"+"____"+"0000"+"____",
		"^"+wideReg+","+wideReg+","+wideReg+"$", Reg4(8), Reg4(16), Reg4(0)))
	add("adc.w", mustVariant("adc.w", "111010110101"+"____"+"0000"+"____"+"0000"+"____",
		"^"+wideReg+","+wideReg+","+wideReg+"$", Reg4(8), Reg4(16), Reg4(0)))

	// --- loads and stores ---
	add("str", mustVariant("str", "10010dddiiiiiiii", "^"+lowReg+`,\[sp,`+imm+`\]$`,
		Reg(8), Uint(0, 8, 2)))
	add("str", mustVariant("str", "01100iiiiibbbddd", "^"+lowReg+`,\[`+lowReg+","+imm+`\]$`,
		Reg(0), Reg(3), Uint(6, 5, 2)))
	add("str", mustVariant("str", "0101000ooobbbddd", "^"+lowReg+`,\[`+lowReg+","+lowReg+`\]$`,
		Reg(0), Reg(3), Reg(6)))

	add("strb", mustVariant("strb", "01110iiiiibbbddd", "^"+lowReg+`,\[`+lowReg+","+imm+`\]$`,
		Reg(0), Reg(3), Uint(6, 5, 0)))
	add("strb", mustVariant("strb", "0101010ooobbbddd", "^"+lowReg+`,\[`+lowReg+","+lowReg+`\]$`,
		Reg(0), Reg(3), Reg(6)))

	add("ldr", mustVariant("ldr", "01001dddiiiiiiii", "^"+lowReg+`,\[pc,`+imm+`\]$`,
		Reg(8), Uint(0, 8, 2)))
	add("ldr", mustVariant("ldr", "10011dddiiiiiiii", "^"+lowReg+`,\[sp,`+imm+`\]$`,
		Reg(8), Uint(0, 8, 2)))
	add("ldr", mustVariant("ldr", "01101iiiiibbbddd", "^"+lowReg+`,\[`+lowReg+","+imm+`\]$`,
		Reg(0), Reg(3), Uint(6, 5, 2)))
	add("ldr", mustVariant("ldr", "0101100ooobbbddd", "^"+lowReg+`,\[`+lowReg+","+lowReg+`\]$`,
		Reg(0), Reg(3), Reg(6)))
	add("ldr", mustVariant("ldr", "01001dddiiiiiiii", "^"+lowReg+","+label+"$",
		Reg(8), Uint(0, 8, 2)))

	// ldrb immediate-offset reproduces a known source bug verbatim: the
	// template below reuses the register-offset bit layout (three 3-bit
	// fields) rather than the architecturally-correct 5-bit Offset5 field
	// a Thumb LDRB immediate-offset encoding requires. See DESIGN.md.
	add("ldrb", mustVariant("ldrb", "0110100---___---", "^"+lowReg+`,\[`+lowReg+","+imm+`\]$`,
		Reg(0), Reg(3), Uint(6, 3, 0)))
	add("ldrb", mustVariant("ldrb", "0101110ooobbbddd", "^"+lowReg+`,\[`+lowReg+","+lowReg+`\]$`,
		Reg(0), Reg(3), Reg(6)))

	// --- data movement ---
	add("mov", mustVariant("mov", "00100dddiiiiiiii", "^"+lowReg+","+imm+"$",
		Reg(8), Uint(0, 8, 0)))
	add("mov", mustVariant("mov", "010001101101ssss", "^sp,"+wideReg+"$", Reg4(0)))
	add("mov", mustVariant("mov", "01000110ddddssss", "^"+wideReg+","+wideReg+"$",
		Reg4(4), Reg4(0)))

	add("movs", mustVariant("movs", "00100dddiiiiiiii", "^"+lowReg+","+imm+"$",
		Reg(8), Uint(0, 8, 0)))

	add("movw", mustVariant("movw", movwTemplate(), "^"+wideReg+`,(#(?:0[xX][0-9a-fA-F]+|\d+))$`,
		Reg4(8), Thumb2T3()))

	// --- raw data ---
	add(".word", mustVariant(".word", "________________________________",
		`^(0[xX][0-9a-fA-F]+|-?\d+)$`, WordLiteral()))

	// --- miscellaneous fixed-opcode / flag-operand instructions ---
	add("nop", mustVariant("nop", "0100011011000000", "^$"))
	add("cpsie", mustVariant("cpsie", "1011011001100010", "^i$"))
	add("cpsid", mustVariant("cpsid", "1011011001110010", "^i$"))
	add("wfe", mustVariant("wfe", "1011111100100000", "^$"))
	add("wfi", mustVariant("wfi", "1011111100110000", "^$"))
	add("bkpt", mustVariant("bkpt", "10111110iiiiiiii", "^"+imm+"$", Uint(0, 8, 0)))

	return t
}

func blTemplate() string {
	return "11110" + "___________" + "11111" + "___________"
}

func movwTemplate() string {
	// i at bit26, imm4 at bits19-16, imm3 at bits14-12, Rd at bits11-8,
	// imm8 at bits7-0 — matches thumb2ImmediateT3's bit packing exactly.
	return "11110" + "_" + "00100" + "0" + "____" + "0" + "___" + "____" + "________"
}

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

package assembler

import (
	"strings"

	"github.com/halfword/thumbasm/internal/isa"
	"github.com/halfword/thumbasm/internal/labels"
)

// blobColumn gives a best-effort column for an error that names no
// specific operand fragment (an unknown mnemonic, say): the start of the
// argument blob if there is one, otherwise no column at all.
func blobColumn(args string) int {
	if args == "" {
		return 0
	}
	return 1
}

// fragmentColumn locates fragment within args, starting the search at byte
// offset from, and returns its 1-based column plus the offset to resume
// searching from for the line's next converter. Searching forward from the
// previous match keeps repeated fragments (e.g. "r0,r0") resolving to
// distinct columns instead of all pointing at the first occurrence.
func fragmentColumn(args, fragment string, from int) (col, next int) {
	if from > len(args) {
		return 0, from
	}
	idx := strings.Index(args[from:], fragment)
	if idx < 0 {
		return 0, from
	}
	start := from + idx
	return start + 1, start + len(fragment)
}

// runPass1 walks lines once to assign each label the byte address it is
// defined at, without invoking any argument converter: the label table is
// still incomplete at this point, and resolving a displacement against it
// would produce spurious out-of-range failures.
func runPass1(lines []line, table isa.Table, labelTable *labels.Table) error {
	var addr uint32

	for _, ln := range lines {
		switch ln.kind {
		case kindBlank:
			continue

		case kindLabel:
			pos := labels.Cursor{Line: ln.lineNo}
			if err := labelTable.Define(ln.label, addr, pos); err != nil {
				return err
			}

		case kindInstruction:
			pos := labels.Cursor{Line: ln.lineNo, Column: blobColumn(ln.args)}
			variant, _, err := table.SelectVariant(ln.mnemonic, ln.args, pos)
			if err != nil {
				return err
			}
			addr += uint32(variant.Template.Width / 8)
		}
	}

	return nil
}

// runPass2 walks lines again with the label table fully populated,
// selecting the same variant pass 1 would have selected and composing its
// opcode by running each converter against its capture group and OR-ing
// the result into the template's base bits.
func runPass2(lines []line, table isa.Table, labelTable *labels.Table) ([]uint16, error) {
	var addr uint32
	var out []uint16

	for _, ln := range lines {
		switch ln.kind {
		case kindBlank, kindLabel:
			continue

		case kindInstruction:
			linePos := labels.Cursor{Line: ln.lineNo, Column: blobColumn(ln.args)}
			labelTable.SetPC(addr + 4)

			variant, groups, err := table.SelectVariant(ln.mnemonic, ln.args, linePos)
			if err != nil {
				return nil, err
			}

			opcode := variant.Template.Base
			searchFrom := 0
			for i, conv := range variant.Converters {
				col, next := fragmentColumn(ln.args, groups[i], searchFrom)
				searchFrom = next
				pos := labels.Cursor{Line: ln.lineNo, Column: col}

				bits, err := conv.Apply(groups[i], labelTable, pos)
				if err != nil {
					return nil, err
				}
				opcode |= bits
			}

			width := variant.Template.Width
			if width == 16 {
				out = append(out, uint16(opcode&0xFFFF))
			} else {
				out = append(out, uint16((opcode>>16)&0xFFFF))
				out = append(out, uint16(opcode&0xFFFF))
			}

			addr += uint32(width / 8)
		}
	}

	if len(out)%2 != 0 {
		out = append(out, 0x0000)
	}

	return out, nil
}

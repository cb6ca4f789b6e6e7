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
	"github.com/halfword/thumbasm/internal/isa"
	"github.com/halfword/thumbasm/internal/labels"
)

var instructionTable = isa.NewTable()

// Result is the outcome of a successful Assemble call: the emitted
// half-word stream plus a snapshot of every label the fragment defined,
// for a caller that wants to report its own errors in terms of the
// assembled addresses.
type Result struct {
	Words  []uint16
	Labels map[string]uint32
}

// Assemble runs the two-pass engine over source, a sequence of assembly
// lines (pre-split, one per line, comments already stripped by the
// caller). On the first failure from either pass it discards any partial
// output and returns that failure alone; this assembler never returns
// partial results.
func Assemble(source []string) (*Result, error) {
	lines := make([]line, len(source))
	for i, raw := range source {
		lines[i] = tokenize(raw, i+1)
	}

	labelTable := labels.NewTable()

	if err := runPass1(lines, instructionTable, labelTable); err != nil {
		return nil, err
	}

	words, err := runPass2(lines, instructionTable, labelTable)
	if err != nil {
		return nil, err
	}

	return &Result{Words: words, Labels: labelTable.Snapshot()}, nil
}

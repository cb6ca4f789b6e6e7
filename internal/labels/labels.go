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

// Package labels holds the label table the two-pass engine builds in pass 1
// and consumes in pass 2, plus the PC-relative convention the argument
// converters rely on when an operand names a label instead of an immediate.
package labels

import "fmt"

// PC is the distinguished label-table key holding the address the
// displacement converters treat as the program counter during pass 2:
// the address of the current instruction plus 4, per ARM pipeline
// convention.
const PC = "PC"

// Cursor pins an error to a source line. Column is best-effort: it names
// the 1-based byte position of the offending fragment within the tokenized
// argument blob, not the original (pre-whitespace-stripped) source line;
// 0 means no column is known.
type Cursor struct {
	Line   int
	Column int
}

// Table maps label names to the byte address they were defined at within
// the current assemble call's fragment. It is created fresh per call and
// populated during pass 1; during pass 2 only the PC entry changes.
type Table struct {
	addrs map[string]uint32
}

// NewTable returns an empty label table.
func NewTable() *Table {
	return &Table{addrs: make(map[string]uint32)}
}

// Define binds name to addr. Redefining an existing label fails.
func (t *Table) Define(name string, addr uint32, pos Cursor) error {
	if _, exists := t.addrs[name]; exists {
		return &RedefinitionError{Position: pos, Name: name}
	}
	t.addrs[name] = addr
	return nil
}

// SetPC records the simulated program counter for the instruction pass 2
// is currently emitting. Converters resolving a label reference read it
// back through Lookup(PC).
func (t *Table) SetPC(addr uint32) {
	t.addrs[PC] = addr
}

// Lookup returns the address bound to name, if any.
func (t *Table) Lookup(name string) (uint32, bool) {
	addr, exists := t.addrs[name]
	return addr, exists
}

// Snapshot returns a defensive copy of the label-name to address bindings,
// excluding the transient PC entry. Intended for a debug symbol dump.
func (t *Table) Snapshot() map[string]uint32 {
	out := make(map[string]uint32, len(t.addrs))
	for name, addr := range t.addrs {
		if name == PC {
			continue
		}
		out[name] = addr
	}
	return out
}

// RedefinitionError reports that a label was defined more than once
// within a single fragment.
type RedefinitionError struct {
	Position Cursor
	Name     string
}

func (err *RedefinitionError) GetPosition() Cursor { return err.Position }

func (err *RedefinitionError) Error() string {
	return fmt.Sprintf(
		"%d: redeclaration of label %q", err.Position.Line, err.Name,
	)
}

// UnknownError reports that an operand referenced a label absent from the
// label table built during pass 1.
type UnknownError struct {
	Position Cursor
	Name     string
}

func (err *UnknownError) GetPosition() Cursor { return err.Position }

func (err *UnknownError) Error() string {
	return fmt.Sprintf("%d: unknown label %q", err.Position.Line, err.Name)
}

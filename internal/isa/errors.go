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

	"github.com/halfword/thumbasm/internal/labels"
)

// UnknownRegisterError reports an operand that was required to name a
// register but did not match any accepted spelling for the converter
// that inspected it.
//
// The source carried this same error for two distinct converters (reg,
// rlistLr) with a message that interpolated the converter's own function
// reference instead of the offending operand text; this reimplementation
// always names the actual text, a documentation fix rather than a
// semantic one.
type UnknownRegisterError struct {
	Position labels.Cursor
	Received string
}

func (err *UnknownRegisterError) GetPosition() labels.Cursor { return err.Position }

func (err *UnknownRegisterError) Error() string {
	return fmt.Sprintf(
		"%d: unknown register %q", err.Position.Line, err.Received,
	)
}

// MalformedImmediateError reports a '#' literal that failed to parse, or
// an operand expected to begin with '#' that did not.
type MalformedImmediateError struct {
	Position labels.Cursor
	Received string
}

func (err *MalformedImmediateError) GetPosition() labels.Cursor { return err.Position }

func (err *MalformedImmediateError) Error() string {
	return fmt.Sprintf(
		"%d: malformed immediate %q", err.Position.Line, err.Received,
	)
}

// ImmediateOutOfRangeError reports a value outside the declared range for
// the field it was being packed into.
type ImmediateOutOfRangeError struct {
	Position labels.Cursor
	Min, Max int64
	Received int32
}

func (err *ImmediateOutOfRangeError) GetPosition() labels.Cursor { return err.Position }

func (err *ImmediateOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"%d: immediate %d out of range [%d, %d]",
		err.Position.Line, err.Received, err.Min, err.Max,
	)
}

// ImmediateAlignmentError reports a value that was in range but not a
// multiple of the field's required alignment (1<<shift).
type ImmediateAlignmentError struct {
	Position labels.Cursor
	Shift    uint
	Received int64
}

func (err *ImmediateAlignmentError) GetPosition() labels.Cursor { return err.Position }

func (err *ImmediateAlignmentError) Error() string {
	return fmt.Sprintf(
		"%d: immediate %d is not %d-byte aligned",
		err.Position.Line, err.Received, uint(1)<<err.Shift,
	)
}

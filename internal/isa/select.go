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

// SelectVariant finds the first variant of mnemonic whose pattern matches
// argBlob, per the first-match-wins ordering variants are registered in.
func (t Table) SelectVariant(mnemonic, argBlob string, pos labels.Cursor) (*Variant, []string, error) {
	variants, ok := t[mnemonic]
	if !ok {
		return nil, nil, &UnknownMnemonicError{Position: pos, Mnemonic: mnemonic}
	}

	for i := range variants {
		if groups, matched := variants[i].Match(argBlob); matched {
			return &variants[i], groups, nil
		}
	}

	return nil, nil, &NoMatchingVariantError{Position: pos, Mnemonic: mnemonic, Operands: argBlob}
}

// UnknownMnemonicError reports an instruction whose mnemonic has no entry
// in the table at all.
type UnknownMnemonicError struct {
	Position labels.Cursor
	Mnemonic string
}

func (err *UnknownMnemonicError) GetPosition() labels.Cursor { return err.Position }

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf("%d: unknown mnemonic %q", err.Position.Line, err.Mnemonic)
}

// NoMatchingVariantError reports a recognized mnemonic whose operands
// matched none of its registered variants.
type NoMatchingVariantError struct {
	Position labels.Cursor
	Mnemonic string
	Operands string
}

func (err *NoMatchingVariantError) GetPosition() labels.Cursor { return err.Position }

func (err *NoMatchingVariantError) Error() string {
	return fmt.Sprintf(
		"%d: %q does not accept operands %q", err.Position.Line, err.Mnemonic, err.Operands,
	)
}

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
	"testing"

	"github.com/halfword/thumbasm/internal/isa"
	"github.com/halfword/thumbasm/internal/labels"
	"github.com/stretchr/testify/require"
)

func TestAssembleMovImmediate(t *testing.T) {
	res, err := Assemble([]string{"mov r0,#42"})
	require.NoError(t, err)
	require.Equal(t, []uint16{0x202A, 0x0000}, res.Words)
}

func TestAssembleNopPadsToEvenLength(t *testing.T) {
	res, err := Assemble([]string{"nop"})
	require.NoError(t, err)
	require.Equal(t, []uint16{0x46C0, 0x0000}, res.Words)
}

func TestAssemblePCRelativeBranchBackToLabel(t *testing.T) {
	res, err := Assemble([]string{"loop:", "sub r0,#1", "bne loop"})
	require.NoError(t, err)
	require.Equal(t, []uint16{0x3801, 0xD1FD}, res.Words)
	require.Equal(t, map[string]uint32{"loop": 0}, res.Labels)
}

func TestAssembleLongBranchWithLink(t *testing.T) {
	res, err := Assemble([]string{"bl target", "nop", "target:", "bx lr"})
	require.NoError(t, err)
	require.Equal(t, []uint16{0xF000, 0xF801, 0x46C0, 0x4770}, res.Words)
	require.Equal(t, uint32(6), res.Labels["target"])
}

func TestAssembleMovwDecomposesImmediate(t *testing.T) {
	res, err := Assemble([]string{"movw r1,#0x1234"})
	require.NoError(t, err)
	require.Len(t, res.Words, 2)

	opcode := uint32(res.Words[0])<<16 | uint32(res.Words[1])
	i := (opcode >> 26) & 1
	imm4 := (opcode >> 16) & 0xF
	imm3 := (opcode >> 12) & 0x7
	imm8 := opcode & 0xFF

	require.Equal(t, uint32(0), i)
	require.Equal(t, uint32(1), imm4)
	require.Equal(t, uint32(2), imm3)
	require.Equal(t, uint32(0x34), imm8)
}

func TestAssembleRejectsOutOfRangeImmediate(t *testing.T) {
	_, err := Assemble([]string{"mov r0,#256"})
	require.Error(t, err)
	require.IsType(t, &isa.ImmediateOutOfRangeError{}, err)
}

func TestAssembleRejectsRedefinedLabel(t *testing.T) {
	_, err := Assemble([]string{"loop:", "nop", "loop:", "nop"})
	require.Error(t, err)
	require.IsType(t, &labels.RedefinitionError{}, err)
}

func TestAssembleRejectsUnknownMnemonic(t *testing.T) {
	_, err := Assemble([]string{"frobnicate r0"})
	require.Error(t, err)
	require.IsType(t, &isa.UnknownMnemonicError{}, err)
}

func TestAssembleOutputLengthAlwaysEven(t *testing.T) {
	for _, src := range [][]string{
		{"nop"},
		{"mov r0,#1", "nop"},
		{"bl target", "target:", "nop"},
	} {
		res, err := Assemble(src)
		require.NoError(t, err)
		require.Zero(t, len(res.Words)%2)
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	src := []string{"loop:", "sub r0,#1", "bne loop"}
	first, err := Assemble(src)
	require.NoError(t, err)
	second, err := Assemble(src)
	require.NoError(t, err)
	require.Equal(t, first.Words, second.Words)
}

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

package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint32
	}{
		{"0x1234", 0x1234},
		{"x1234", 0x1234},
		{"0xFF", 0xFF},
		{"xFF", 0xFF},
	} {
		got, err := DecodeHex(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestDecodeHexRejectsMalformed(t *testing.T) {
	for _, in := range []string{"1234", "0y12", ""} {
		_, err := DecodeHex(in)
		require.Error(t, err)
	}
}

func TestDecodeInt(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int32
	}{
		{"#123", 123},
		{"-123", -123},
		{"123", 123},
		{"#-5", -5},
	} {
		got, err := DecodeInt(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestDecodeIntRejectsMalformed(t *testing.T) {
	_, err := DecodeInt("#r0")
	require.Error(t, err)
}

func TestSwapHalfwords(t *testing.T) {
	require.Equal(t, uint32(0x00001234), SwapHalfwords(0x12340000))
	require.Equal(t, uint32(0x56781234), SwapHalfwords(0x12345678))
}

func TestMaskBits(t *testing.T) {
	require.Equal(t, uint32(0x0F), MaskBits(0xFF, 4))
	require.Equal(t, uint32(0), MaskBits(0xFF, 0))
	require.Equal(t, uint32(0xFFFFFFFF), MaskBits(0xFFFFFFFF, 32))
	require.Equal(t, uint32(0xFFFFFFFF), MaskBits(0xFFFFFFFF, 40))
}

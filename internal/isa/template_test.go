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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	cases := []struct {
		name string
		tmpl string
		base uint32
		mask uint32
		wid  int
	}{
		{"all literal 16-bit", "0100011011000000", 0x46C0, 0x0000, 16},
		{"dash placeholders", "00100-----------", 0x2000, 0x07FF, 16},
		{"underscore placeholders", "0100000010______", 0x4080, 0x003F, 16},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tmpl, err := parseTemplate(c.tmpl)
			require.NoError(t, err)
			require.Equal(t, c.base, tmpl.Base)
			require.Equal(t, c.mask, tmpl.PlaceholderMask)
			require.Equal(t, c.wid, tmpl.Width)
		})
	}
}

func TestParseTemplateRejectsBadWidth(t *testing.T) {
	_, err := parseTemplate("101")
	require.Error(t, err)
	require.IsType(t, &InternalTemplateError{}, err)
}

func TestTableTemplatesNeverOverlapBaseAndPlaceholder(t *testing.T) {
	for mnemonic, variants := range NewTable() {
		for _, v := range variants {
			require.Zero(t, v.Template.Base&v.Template.PlaceholderMask,
				"%s: literal base bits must not intersect the placeholder mask", mnemonic)
		}
	}
}

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

import "github.com/halfword/thumbasm/internal/labels"

// TokenError is implemented by every failure this package and its
// dependencies (internal/isa, internal/labels) can raise, letting a
// caller recover the source position uniformly regardless of concrete
// error type.
type TokenError interface {
	error
	GetPosition() labels.Cursor
}

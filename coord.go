// seehuhn.de/go/cells - an analytical anti-aliased polygon rasteriser core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cells

import (
	"image"

	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// PolyCoordVec converts a device-space point to the subpixel grid.
func PolyCoordVec(v vec.Vec2) (x, y int) {
	return PolyCoord(v.X), PolyCoord(v.Y)
}

// MoveToVec starts a new subpath at the device-space point v.
// The coordinates are quantised to the subpixel grid; v must lie within
// the numeric envelope of the rasteriser.
func (r *Rasteriser[T]) MoveToVec(v vec.Vec2) {
	x, y := PolyCoordVec(v)
	r.MoveTo(x, y)
}

// LineToVec emits cells for the segment from the current position to the
// device-space point v.
func (r *Rasteriser[T]) LineToVec(v vec.Vec2) {
	x, y := PolyCoordVec(v)
	r.LineTo(x, y)
}

// FromFixed26_6 converts a 26.6 fixed-point coordinate to the subpixel
// grid.
func FromFixed26_6(v fixed.Int26_6) int {
	return int(v) << (PolyBaseShift - 6)
}

// ToFixed26_6 converts a subpixel coordinate to 26.6 fixed point,
// truncating the two extra fractional bits.
func ToFixed26_6(v int) fixed.Int26_6 {
	return fixed.Int26_6(v >> (PolyBaseShift - 6))
}

// FromFixedPoint26_6 converts a 26.6 fixed-point point to the subpixel
// grid.
func FromFixedPoint26_6(p fixed.Point26_6) (x, y int) {
	return FromFixed26_6(p.X), FromFixed26_6(p.Y)
}

// MoveToFixed starts a new subpath at the 26.6 fixed-point position p.
func (r *Rasteriser[T]) MoveToFixed(p fixed.Point26_6) {
	x, y := FromFixedPoint26_6(p)
	r.MoveTo(x, y)
}

// LineToFixed emits cells for the segment from the current position to the
// 26.6 fixed-point position p.
func (r *Rasteriser[T]) LineToFixed(p fixed.Point26_6) {
	x, y := FromFixedPoint26_6(p)
	r.LineTo(x, y)
}

// Bounds returns the device-space bounding box of all committed cells.
// The zero rectangle is returned while no cells are committed.
func (r *Rasteriser[T]) Bounds() rect.Rect {
	if r.numCells == 0 {
		return rect.Rect{}
	}
	return rect.Rect{
		LLx: float64(r.minX),
		LLy: float64(r.minY),
		URx: float64(r.maxX) + 1,
		URy: float64(r.maxY) + 1,
	}
}

// PixelBounds returns the pixel bounding box of all committed cells as an
// image.Rectangle. The empty rectangle is returned while no cells are
// committed.
func (r *Rasteriser[T]) PixelBounds() image.Rectangle {
	if r.numCells == 0 {
		return image.Rectangle{}
	}
	return image.Rect(int(r.minX), int(r.minY), int(r.maxX)+1, int(r.maxY)+1)
}

// Copyright (C) 2025 Josh Simonot
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

// Package panel commits rendered frames to an output: a PNG file standing in
// for the e-paper panel, a live web view, or both.
package panel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync"
)

// Mode is the refresh waveform requested for a push.
type Mode int

const (
	ModeInit Mode = iota
	ModeDU        // fast monochrome
	ModeGC16      // full 16 level refresh with flashing
	ModeGL16      // 16 level refresh without flashing, used for partial updates
	ModeDU4       // fast 4 level
)

func (m Mode) String() string {
	switch m {
	case ModeInit:
		return "INIT"
	case ModeDU:
		return "DU"
	case ModeGC16:
		return "GC16"
	case ModeGL16:
		return "GL16"
	case ModeDU4:
		return "DU4"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Panel receives frames. img is placed with its top left corner at at;
// a full frame is pushed at the origin.
type Panel interface {
	Push(ctx context.Context, img image.Image, at image.Point, mode Mode) error
}

// Width and Height of the panel in landscape orientation.
const (
	Width  = 960
	Height = 540
)

// frame keeps the panel content so partial pushes can be composited.
type frame struct {
	mu  sync.Mutex
	img *image.Gray
}

func newFrame(w, h int) *frame {
	f := &frame{img: image.NewGray(image.Rect(0, 0, w, h))}
	draw.Draw(f.img, f.img.Bounds(), image.White, image.Point{}, draw.Src)
	return f
}

// apply draws img at at and returns the encoded full frame.
func (f *frame) apply(img image.Image, at image.Point) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := img.Bounds().Sub(img.Bounds().Min).Add(at)
	if !r.In(f.img.Rect) {
		return nil, fmt.Errorf("push of %v does not fit the %v panel", r, f.img.Rect.Size())
	}
	draw.Draw(f.img, r, img, img.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, f.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Multi pushes to every panel and joins their errors.
type Multi []Panel

func (m Multi) Push(ctx context.Context, img image.Image, at image.Point, mode Mode) error {
	var errs []error
	for _, p := range m {
		if err := p.Push(ctx, img, at, mode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

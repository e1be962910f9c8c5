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

package panel

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"paperdash/pkg/logger"
)

// PNGFile writes the panel content to a PNG after every push. The file is
// replaced atomically so readers never see a partial image.
type PNGFile struct {
	log   *logger.Logger
	path  string
	frame *frame
}

func NewPNGFile(path string) *PNGFile {
	return &PNGFile{
		log:   logger.New("PanelPNG"),
		path:  path,
		frame: newFrame(Width, Height),
	}
}

func (p *PNGFile) Push(ctx context.Context, img image.Image, at image.Point, mode Mode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := p.frame.apply(img, at)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	tmpPath := p.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		p.log.Error("failed to fsync frame: %v", err)
	}
	file.Close()
	if err := os.Rename(tmpPath, p.path); err != nil {
		return err
	}

	p.log.Debug("%s push of %v at %v, %d bytes", mode, img.Bounds().Size(), at, len(data))
	return nil
}

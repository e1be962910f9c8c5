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
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paperdash/internal/events"
	"paperdash/pkg/eventbus"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, y uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = y
	}
	return img
}

func TestPNGFileFullAndPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "panel.png")
	p := NewPNGFile(path)
	ctx := context.Background()

	require.NoError(t, p.Push(ctx, solid(Width, Height, 0xff), image.Point{}, ModeGC16))
	require.NoError(t, p.Push(ctx, solid(245, 251, 0x00), image.Pt(697, 35), ModeGL16))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(Width, Height), img.Bounds().Size())
	assert.Equal(t, color.Gray{Y: 0}, color.GrayModel.Convert(img.At(700, 40)))
	assert.Equal(t, color.Gray{Y: 0xff}, color.GrayModel.Convert(img.At(690, 40)))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPushOutsidePanel(t *testing.T) {
	p := NewPNGFile(filepath.Join(t.TempDir(), "panel.png"))
	err := p.Push(context.Background(), solid(100, 100, 0), image.Pt(900, 500), ModeGL16)
	assert.Error(t, err)
}

type failingPanel struct{ n int }

func (f *failingPanel) Push(context.Context, image.Image, image.Point, Mode) error {
	f.n++
	return errors.New("panel offline")
}

func TestMultiPushesAll(t *testing.T) {
	a, b := &failingPanel{}, &failingPanel{}
	err := Multi{a, b}.Push(context.Background(), solid(1, 1, 0), image.Point{}, ModeDU)
	assert.Error(t, err)
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "GC16", ModeGC16.String())
	assert.Equal(t, "Mode(42)", Mode(42).String())
}

func TestWebPublishesAndStreams(t *testing.T) {
	eb := eventbus.New()
	defer eb.Close()
	web := NewWeb(eb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go web.Run(ctx)

	srv := httptest.NewServer(web)
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, web.Push(ctx, solid(Width, Height, 0x80), image.Point{}, ModeGC16))

	ev, ok := eb.GetLast(events.TopicFrame)
	require.True(t, ok)
	fu := ev.(events.FrameUpdate)
	assert.True(t, fu.Full)

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(Width, Height), img.Bounds().Size())

	rec := httptest.NewRecorder()
	web.ServeHTTP(rec, httptest.NewRequest("GET", "/frame.png", nil))
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

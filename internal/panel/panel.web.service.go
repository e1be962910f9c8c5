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
	"net/http"
	"strings"
	"sync"
	"time"

	"paperdash/internal/events"
	"paperdash/pkg/eventbus"
	"paperdash/pkg/logger"

	"github.com/gorilla/websocket"
)

// Web publishes every push as a full PNG frame on the event bus and serves
// a live view of the panel:
//   - GET /           -> HTML page showing the frame, refreshed over websocket
//   - GET /frame.png  -> last frame
//   - GET /ws         -> websocket, one binary PNG message per frame
type Web struct {
	log     *logger.Logger
	eb      *eventbus.Bus
	frame   *frame
	clients clientSync
}

type clientSync struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func (c *clientSync) add(ws *websocket.Conn) {
	c.mu.Lock()
	c.clients[ws] = true
	c.mu.Unlock()
}

func (c *clientSync) remove(ws *websocket.Conn) {
	c.mu.Lock()
	delete(c.clients, ws)
	c.mu.Unlock()
}

func (c *clientSync) broadcast(pm *websocket.PreparedMessage, log *logger.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ws := range c.clients {
		ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := ws.WritePreparedMessage(pm); err != nil {
			log.Debug("dropping client: %v", err)
			ws.Close()
			delete(c.clients, ws)
		}
	}
}

func (c *clientSync) closeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ws := range c.clients {
		ws.Close()
		delete(c.clients, ws)
	}
}

func NewWeb(eb *eventbus.Bus) *Web {
	return &Web{
		log:     logger.New("PanelWeb"),
		eb:      eb,
		frame:   newFrame(Width, Height),
		clients: clientSync{clients: make(map[*websocket.Conn]bool)},
	}
}

func (p *Web) Push(ctx context.Context, img image.Image, at image.Point, mode Mode) error {
	data, err := p.frame.apply(img, at)
	if err != nil {
		return err
	}
	p.eb.Publish(events.TopicFrame, events.FrameUpdate{
		PNG:  data,
		At:   at,
		Full: at == (image.Point{}) && img.Bounds().Size() == image.Pt(Width, Height),
		Time: time.Now(),
	})
	return nil
}

// Run forwards published frames to the websocket clients until ctx ends.
func (p *Web) Run(ctx context.Context) {
	frames, unsub := p.eb.Subscribe(ctx, events.TopicFrame, true)
	defer unsub()
	defer p.clients.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-frames:
			if !ok {
				return
			}
			fu, ok := ev.(events.FrameUpdate)
			if !ok {
				continue
			}
			pm, err := websocket.NewPreparedMessage(websocket.BinaryMessage, fu.PNG)
			if err != nil {
				p.log.Error("failed to prepare frame: %v", err)
				continue
			}
			p.clients.broadcast(pm, p.log)
		}
	}
}

func (p *Web) String() string { return "panel web view" }

const viewPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Panel</title>
<style>body{background:#ddd;margin:2em} img{border:8px solid #222;background:#fff;image-rendering:pixelated}</style>
</head>
<body>
<img id="panel" src="frame.png" width="960" height="540">
<script>
const img = document.getElementById('panel');
function connect() {
  const ws = new WebSocket(location.href.replace(/^http/, 'ws').replace(/\/?$/, '/ws'));
  ws.binaryType = 'blob';
  ws.onmessage = ev => {
    const old = img.src;
    img.src = URL.createObjectURL(ev.data);
    if (old.startsWith('blob:')) URL.revokeObjectURL(old);
  };
  ws.onclose = () => setTimeout(connect, 5000);
}
connect();
</script>
</body>
</html>`

func (p *Web) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "", "/":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(viewPage))
	case "/frame.png":
		ev, ok := p.eb.GetLast(events.TopicFrame)
		fu, isFrame := ev.(events.FrameUpdate)
		if !ok || !isFrame {
			http.Error(w, "no frame yet", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(fu.PNG)
	case "/ws":
		p.serveWebSocket(w, r)
	default:
		http.NotFound(w, r)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return strings.Contains(origin, "localhost") || strings.Contains(origin, r.Host)
	},
}

func (p *Web) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.log.Error("failed to upgrade websocket: %v", err)
		return
	}
	p.clients.add(ws)
	defer func() {
		p.clients.remove(ws)
		ws.Close()
	}()

	// late joiners get the current frame right away
	if ev, ok := p.eb.GetLast(events.TopicFrame); ok {
		if fu, ok := ev.(events.FrameUpdate); ok {
			p.clients.mu.Lock()
			err := ws.WriteMessage(websocket.BinaryMessage, fu.PNG)
			p.clients.mu.Unlock()
			if err != nil {
				return
			}
		}
	}

	// the view never sends anything; reading detects the close
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.log.Debug("websocket closed: %v", err)
			}
			return
		}
	}
}

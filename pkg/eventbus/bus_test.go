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

package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeWithLast(t *testing.T) {
	b := New()
	defer b.Close()

	b.Publish("frame", 1)
	b.Publish("frame", 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := b.Subscribe(ctx, "frame", true)
	select {
	case ev := <-ch:
		assert.Equal(t, 2, ev)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestPublishReplacesUnread(t *testing.T) {
	b := New()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := b.Subscribe(ctx, "snapshot", false)
	b.Publish("snapshot", "a")
	b.Publish("snapshot", "b")

	ev := <-ch
	assert.Equal(t, "b", ev)

	st := b.Stats()
	assert.Equal(t, int64(2), st.Events)
	assert.Equal(t, int64(1), st.Replaced)
	assert.Equal(t, 1, st.Subscribers)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	defer b.Close()

	ch, unsub := b.Subscribe(context.Background(), "x", false)
	unsub()
	unsub()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestCloseThenCancel(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx, "x", false)

	b.Close()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := b.Subscribe(context.Background(), "x", true)
	_, ok = <-late
	assert.False(t, ok)

	_, found := b.GetLast("x")
	assert.False(t, found)
}

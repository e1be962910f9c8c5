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

// Package publish sends the cycle snapshot to an MQTT broker.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paperdash/internal/config"
	"paperdash/internal/snapshot"
	"paperdash/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var ErrPublishTimeout = errors.New("mqtt publish timeout")

// MQTT connects, publishes one retained message and disconnects. The
// device sleeps between cycles so no session is kept.
type MQTT struct {
	opts    *mqtt.ClientOptions
	topic   string
	timeout time.Duration
	now     func() time.Time
	log     *logger.Logger
}

func NewMQTT(cfg config.MQTTConfig) *MQTT {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetKeepAlive(30 * time.Second)

	return &MQTT{
		opts:    opts,
		topic:   cfg.Topic,
		timeout: 5 * time.Second,
		now:     time.Now,
		log:     logger.New("MQTT"),
	}
}

func (m *MQTT) Name() string { return "mqtt" }

func (m *MQTT) Publish(ctx context.Context, snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(FromSnapshot(snap, m.now()))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	client := mqtt.NewClient(m.opts)
	if err := wait(ctx, client.Connect(), m.opts.ConnectTimeout); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer client.Disconnect(250)

	if err := wait(ctx, client.Publish(m.topic, 1, true, payload), m.timeout); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	m.log.Debug("published %d bytes to %s", len(payload), m.topic)
	return nil
}

// wait blocks on a token until it completes, the timeout passes or ctx ends.
func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-time.After(timeout):
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

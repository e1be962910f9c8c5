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

package modbus

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"paperdash/pkg/logger"

	wrapper "github.com/grid-x/modbus"
)

type Client struct {
	mu      sync.Mutex
	addr    string
	handler *wrapper.TCPClientHandler
	client  wrapper.Client
	config  *Config
	log     *logger.Logger
}

// NewClient connects a Modbus TCP client. A non empty addr ("host:port")
// overrides the connection block of the register map.
func NewClient(ctx context.Context, addr string, config *Config) (*Client, error) {
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", config.Modbus.Host, config.Modbus.Port)
	}
	c := &Client{
		addr:   addr,
		config: config,
		log:    logger.New("ModbusConn"),
	}
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// connect safely (re)connects the Modbus client once.
func (c *Client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler != nil {
		_ = c.handler.Close()
	}

	handler := wrapper.NewTCPClientHandler(c.addr)
	handler.SlaveID = c.config.Modbus.SlaveID
	handler.Timeout = time.Second * time.Duration(c.config.Modbus.Timeout)
	handler.ProtocolRecoveryTimeout = 250 * time.Millisecond
	handler.LinkRecoveryTimeout = 2 * time.Second

	c.log.Debug("connecting to %s", c.addr)
	if err := handler.Connect(ctx); err != nil {
		return fmt.Errorf("modbus connect %s: %w", c.addr, err)
	}

	c.handler = handler
	c.client = wrapper.NewClient(handler)
	return nil
}

// retry runs op and, after a connection error, reconnects once and runs it again.
func (c *Client) retry(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !isConnError(err) {
		return err
	}

	c.log.Error("connection error: %v, reconnecting", err)
	if cerr := c.connect(ctx); cerr != nil {
		return errors.Join(err, cerr)
	}
	return op()
}

// ReadRegisters reads holding or input registers, reconnecting once if needed.
func (c *Client) ReadRegisters(ctx context.Context, kind string, addr, quantity uint16) ([]byte, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		c.mu.Lock()
		defer c.mu.Unlock()
		var rerr error
		if kind == "input" {
			data, rerr = c.client.ReadInputRegisters(ctx, addr, quantity)
		} else {
			data, rerr = c.client.ReadHoldingRegisters(ctx, addr, quantity)
		}
		return rerr
	})
	return data, err
}

// Close closes the underlying handler.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler != nil {
		_ = c.handler.Close()
		c.handler = nil
	}
}

func isConnError(err error) bool {
	if err == nil {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "closed by the remote host") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "connection refused")
}

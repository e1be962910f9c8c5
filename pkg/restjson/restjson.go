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

// Package restjson issues the single GET + JSON decode every data source
// performs, with a bounded response document.
package restjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paperdash/pkg/logger"

	"github.com/go-resty/resty/v2"
)

var (
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("unexpected http status")
	ErrDecode    = errors.New("decode failure")
)

// Document capacities of the upstream payloads.
const (
	SmallDoc  = 2 * 1024
	MediumDoc = 5 * 1024
	LargeDoc  = 35 * 1024
)

const DefaultTimeout = 15 * time.Second

type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// New returns a client for one upstream host. A zero timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(log)
	return &Client{http: c, log: log}
}

// Get fetches path (relative to the base URL) and decodes the body into out.
// Bodies larger than limit bytes are rejected the way an undersized parse
// buffer would reject them.
func (c *Client) Get(ctx context.Context, path string, limit int, out any) error {
	full := c.http.BaseURL + path
	c.log.Debug("GET %s", Redact(full))

	resp, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrTransport, Redact(full), err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: GET %s: %d", ErrStatus, Redact(full), resp.StatusCode())
	}

	body := resp.Body()
	if limit > 0 && len(body) > limit {
		return fmt.Errorf("%w: body of %d bytes exceeds %d", ErrDecode, len(body), limit)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Or returns *p, or def when the field was missing from the document.
func Or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Field is Or with the zero value, logging the missing path at debug level.
func Field[T any](log *logger.Logger, path string, p *T) T {
	var zero T
	if p == nil {
		log.Debug("missing field %s", path)
		return zero
	}
	return *p
}

var secretParams = []string{"appid", "key", "apikey", "token"}

// Redact masks api keys in a request URL so it can be logged.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for _, k := range secretParams {
		if q.Has(k) {
			q.Set(k, "xxx")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

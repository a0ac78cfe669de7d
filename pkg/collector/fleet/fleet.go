// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fleet collects fleet-wide system availability from an HPC
// center status page. The page marks each system with a status image
// whose alt text reads like "Narwhal is currently Up."; everything
// else (site, scheduler, login host) is inferred from surrounding
// markup, so every parse is best effort.
package fleet

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/serializer"
)

const (
	// Name identifies this collector in config and logs.
	Name = "fleet"

	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "fleetscope/1.0"
)

// Config tunes the fleet collector.
type Config struct {
	// URL of the status page to scrape.
	URL string

	// Timeout for the page fetch.
	Timeout time.Duration

	// Insecure skips TLS certificate verification. Some center pages
	// sit behind DoD CA chains that public bundles cannot verify.
	Insecure bool

	UserAgent string
}

// Collector scrapes a center status page.
type Collector struct {
	cfg    Config
	reader *serializer.HttpReader
}

// New creates a fleet collector for the configured status page.
func New(cfg Config) *Collector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Collector{
		cfg: cfg,
		reader: serializer.NewHttpReader(
			serializer.WithUserAgent(cfg.UserAgent),
			serializer.WithTotalTimeout(cfg.Timeout),
			serializer.WithInsecureSkipVerify(cfg.Insecure),
		),
	}
}

// Name returns the collector identifier.
func (c *Collector) Name() string {
	return Name
}

// DisplayName returns the human-readable collector name.
func (c *Collector) DisplayName() string {
	return "Fleet Status"
}

// Available reports whether the status page answers at all.
func (c *Collector) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.cfg.URL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	resp, err := c.reader.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Collect fetches and parses the status page. Each parsed system
// becomes a cluster entry carrying only status-level fields.
func (c *Collector) Collect(ctx context.Context) (res *collector.Result, err error) {
	start := time.Now()
	defer func() { collector.ObserveCollect(Name, start, err) }()

	page, err := c.reader.ReadWithContext(ctx, c.cfg.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, collector.TimeoutError(Name, c.cfg.Timeout, ctx.Err())
		}
		return nil, collector.CollectError(Name, err)
	}

	systems, err := ParsePage(bytes.NewReader(page), c.cfg.URL)
	if err != nil {
		return nil, collector.CollectError(Name, err)
	}

	res = collector.NewResult(Name)
	for _, sys := range systems {
		res.Cluster(sys.Slug()).Status = sys
	}
	return res, nil
}

var _ collector.Collector = (*Collector)(nil)

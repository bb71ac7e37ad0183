// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// Package pathfinder queries a remote web-of-trust pathfinder service
// instead of the local signature store. The wire contract is the classic
// one: GET /paths/<top>/to/<bottom>.json returning {error, xpaths}.
package pathfinder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/toeirei/sigpath/internal/export"
)

// DefaultURL is the historical public pathfinder endpoint.
const DefaultURL = "http://pgp.cs.uu.nl"

// Actor is one key on a remote path: the 16-character key ID plus the
// primary uid as the server knows it.
type Actor struct {
	KID string `json:"kid"`
	UID string `json:"uid"`
}

// result is the server's response envelope.
type result struct {
	Error  string    `json:"error"`
	XPaths [][]Actor `json:"xpaths"`
}

// Client talks to one pathfinder service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the given base URL; an empty URL picks the
// default public service.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Paths fetches all known signature paths from the top key to the bottom
// key, both 16-character key IDs. A non-200 response or an error field in
// the payload fails the query.
func (c *Client) Paths(ctx context.Context, topKID, bottomKID string) ([][]Actor, error) {
	u := fmt.Sprintf("%s/paths/%s/to/%s.json",
		c.baseURL, url.PathEscape(topKID), url.PathEscape(bottomKID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pathfinder: query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pathfinder: %s returned %s", u, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pathfinder: failed to read response: %w", err)
	}
	var res result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("pathfinder: malformed response: %w", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("pathfinder: server error: %s", res.Error)
	}
	return res.XPaths, nil
}

// ToEdgeSet converts remote paths into a renderable set. Paths longer than
// maxDepth edges are skipped (zero means no limit). The shared top key of
// the first path gets the top color, the bottom key the bottom color, and
// everything in between the middle color, mirroring the classic pathfinder
// rendering.
func ToEdgeSet(paths [][]Actor, maxDepth int) *export.EdgeSet {
	es := export.NewEdgeSet()
	if len(paths) == 0 || len(paths[0]) == 0 {
		return es
	}

	top := paths[0][0].KID
	bottom := paths[0][len(paths[0])-1].KID

	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		if maxDepth > 0 && len(path)-1 > maxDepth {
			continue
		}
		for i, actor := range path {
			color := "blue"
			switch actor.KID {
			case top:
				color = "purple"
			case bottom:
				color = "orange"
			}
			es.AddNode(export.Node{
				Fingerprint: strings.ToUpper(actor.KID),
				Label:       export.ActorLabel(actor.KID, actor.UID),
				Color:       color,
				Toplevel:    i == 0,
			})
			if i > 0 {
				es.AddEdge(strings.ToUpper(path[i-1].KID), strings.ToUpper(actor.KID))
			}
		}
	}
	return es
}

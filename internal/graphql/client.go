// Package graphql talks to the plezanje.info GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bekirdag/cragbook/internal/ascents"
	"github.com/bekirdag/cragbook/internal/auth"
)

const DefaultEndpoint = "https://plezanje.info/graphql"

const userAgent = "cragbook"

const myCragSummaryQuery = `query MyCragSummary($input: FindActivityRoutesInput) {
  myCragSummary(input: $input) {
    ascentType
    route {
      id
      slug
    }
  }
}`

const profileQuery = `query Profile {
  profile {
    id
    fullName
    firstname
    lastname
  }
}`

type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Error is one entry of a GraphQL errors array.
type Error struct {
	Message string
	Path    []string
}

func (e Error) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, ".") + ": " + e.Message
}

// CragSummary returns the signed-in climber's ascents in the crag.
func (c *Client) CragSummary(ctx context.Context, cragID string) ([]ascents.Record, error) {
	vars := map[string]any{"input": map[string]any{"cragId": cragID}}
	data, err := c.do(ctx, myCragSummaryQuery, vars)
	if err != nil {
		return nil, err
	}

	items := data.Get("myCragSummary").Array()
	records := make([]ascents.Record, 0, len(items))
	for _, item := range items {
		t, ok := ascents.ParseType(item.Get("ascentType").String())
		if !ok {
			continue
		}
		records = append(records, ascents.Record{
			AscentType: t,
			Route: ascents.Route{
				ID:   item.Get("route.id").String(),
				Slug: item.Get("route.slug").String(),
			},
		})
	}
	return records, nil
}

// Status resolves the signed-in user through the profile query. Without a
// token the status is logged out.
func (c *Client) Status(ctx context.Context) (auth.Status, error) {
	if c.token == "" {
		return auth.LoggedOut(), nil
	}
	data, err := c.do(ctx, profileQuery, nil)
	if err != nil {
		return auth.LoggedOut(), err
	}
	p := data.Get("profile")
	if !p.Exists() || p.Type == gjson.Null {
		return auth.LoggedOut(), nil
	}
	return auth.LoggedInAs(auth.User{
		ID:        p.Get("id").String(),
		FullName:  p.Get("fullName").String(),
		Firstname: p.Get("firstname").String(),
		Lastname:  p.Get("lastname").String(),
	}), nil
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any) (gjson.Result, error) {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return gjson.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("graphql request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("graphql read: %w", err)
	}
	if resp.StatusCode != http.StatusOK && !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("graphql: unexpected status %s", resp.Status)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, errors.New("graphql: invalid JSON response")
	}

	res := gjson.ParseBytes(raw)
	if errs := res.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return gjson.Result{}, joinErrors(errs.Array())
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("graphql: unexpected status %s", resp.Status)
	}
	return res.Get("data"), nil
}

func joinErrors(items []gjson.Result) error {
	errs := make([]error, 0, len(items))
	for _, item := range items {
		e := Error{Message: item.Get("message").String()}
		for _, p := range item.Get("path").Array() {
			e.Path = append(e.Path, p.String())
		}
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

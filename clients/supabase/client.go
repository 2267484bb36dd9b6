// Copyright 2025 The TGV Tracker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "supabase")

// Client is a minimal PostgREST client scoped to a Supabase project
type Client struct {
	http *resty.Client
}

// CreateClient creates a client for the project at `projectURL` authenticating
// with `apiKey`. The key claims are introspected upfront, an expired key is
// rejected.
func CreateClient(projectURL string, apiKey string) (*Client, error) {
	if projectURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase credentials not provided")
	}

	claims, err := IntrospectKey(apiKey)
	if err != nil {
		return nil, err
	}
	if claims.Expired() {
		return nil, fmt.Errorf("the Supabase API key expired on [%s]", claims.ExpiresAt)
	}

	log.WithFields(logrus.Fields{
		"project": claims.Ref,
		"role":    claims.Role,
	}).Info("supabase client initialized")

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(projectURL, "/") + "/rest/v1").
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey)

	return &Client{http: httpClient}, nil
}

// HTTPClient exposes the underlying http client, used by the tests to
// intercept the requests
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

// Eq builds a PostgREST equality filter for the given value
func Eq(value string) string {
	return "eq." + value
}

// CountRows retrieves the exact number of rows of the given table without
// transferring any of them
func (c *Client) CountRows(ctx context.Context, table string) (int, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("select", "*").
		SetQueryParam("limit", "0").
		Get("/" + table)
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, parseRequestError(resp)
	}

	// The count is carried by the "Content-Range" header, eg. "*/1234"
	contentRange := resp.Header().Get("Content-Range")
	separatorIdx := strings.LastIndex(contentRange, "/")
	if separatorIdx < 0 {
		return 0, fmt.Errorf("no row count found in content range %q", contentRange)
	}
	count, err := strconv.Atoi(contentRange[separatorIdx+1:])
	if err != nil {
		return 0, fmt.Errorf("unable to parse the row count from content range %q (%w)", contentRange, err)
	}
	return count, nil
}

// Select retrieves the given columns of the given table, optionally filtered,
// and decodes the resulting rows into `dest`
func (c *Client) Select(
	ctx context.Context,
	table string,
	columns []string,
	filters map[string]string,
	dest interface{},
) error {
	request := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", strings.Join(columns, ","))
	for column, filter := range filters {
		request.SetQueryParam(column, filter)
	}

	resp, err := request.Get("/" + table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return parseRequestError(resp)
	}
	return json.Unmarshal(resp.Body(), dest)
}

// Insert appends the given rows to the given table
func (c *Client) Insert(ctx context.Context, table string, rows interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		Post("/" + table)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return parseRequestError(resp)
	}
	return nil
}

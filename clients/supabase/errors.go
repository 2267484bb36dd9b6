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
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// undefinedTableCode is the Postgres error code PostgREST relays when the
// target relation doesn't exist
const undefinedTableCode = "42P01"

// RequestError is an error response from PostgREST
type RequestError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase request failed with status %d: %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("supabase request failed with status %d: %s", e.StatusCode, e.Message)
}

// IsUndefinedTable checks whether the error denotes a missing table
func (e *RequestError) IsUndefinedTable() bool {
	return e.Code == undefinedTableCode
}

func parseRequestError(resp *resty.Response) error {
	requestError := &RequestError{}
	if err := json.Unmarshal(resp.Body(), requestError); err != nil || requestError.Message == "" {
		requestError.Message = string(resp.Body())
	}
	requestError.StatusCode = resp.StatusCode()
	return requestError
}

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
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	supabaseClient "github.com/tgv-tracker/tgv-tracker/clients/supabase"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend/test"
)

const testProjectURL = "https://test-project.supabase.co"

func makeTestKey(t *testing.T) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, supabaseClient.KeyClaims{
		Role: "service_role",
		Ref:  "test-project",
	})
	key, err := token.SignedString([]byte("test_jwt_secret"))
	require.NoError(t, err)
	return key
}

// fakePostgrest emulates the subset of the PostgREST API the backend uses,
// registered on the resty client of the tested backend through httpmock
type fakePostgrest struct {
	tables      map[string][]backend.DelayRecord
	tablesMutex sync.Mutex
}

func (f *fakePostgrest) undefinedTableResponse(table string) (*http.Response, error) {
	return httpmock.NewJsonResponse(http.StatusNotFound, map[string]string{
		"code":    "42P01",
		"message": fmt.Sprintf("relation \"public.%s\" does not exist", table),
	})
}

func (f *fakePostgrest) get(req *http.Request) (*http.Response, error) {
	table := httpmock.MustGetSubmatch(req, 1)

	f.tablesMutex.Lock()
	defer f.tablesMutex.Unlock()

	rows, exists := f.tables[table]
	if !exists {
		return f.undefinedTableResponse(table)
	}

	query := req.URL.Query()

	// Count request: no row transferred, the count rides the Content-Range header
	if strings.Contains(req.Header.Get("Prefer"), "count=exact") && query.Get("limit") == "0" {
		resp := httpmock.NewStringResponse(http.StatusOK, "[]")
		resp.Header.Set("Content-Type", "application/json")
		resp.Header.Set("Content-Range", fmt.Sprintf("*/%d", len(rows)))
		return resp, nil
	}

	filtered := []backend.DelayRecord{}
	serviceFilter := strings.TrimPrefix(query.Get("service"), "eq.")
	for _, row := range rows {
		if query.Get("service") != "" && row.Service != serviceFilter {
			continue
		}
		filtered = append(filtered, row)
	}

	columns := strings.Split(query.Get("select"), ",")
	projected := make([]map[string]interface{}, 0, len(filtered))
	for _, row := range filtered {
		projectedRow := map[string]interface{}{}
		for _, column := range columns {
			switch strings.TrimSpace(column) {
			case "gare_depart":
				projectedRow["gare_depart"] = row.DepartureStation
			case "retard_moyen_depart":
				projectedRow["retard_moyen_depart"] = string(row.AverageDelay)
			case "service":
				projectedRow["service"] = row.Service
			}
		}
		projected = append(projected, projectedRow)
	}
	return httpmock.NewJsonResponse(http.StatusOK, projected)
}

func (f *fakePostgrest) post(req *http.Request) (*http.Response, error) {
	table := httpmock.MustGetSubmatch(req, 1)

	records := []backend.DelayRecord{}
	if err := json.NewDecoder(req.Body).Decode(&records); err != nil {
		return httpmock.NewJsonResponse(http.StatusBadRequest, map[string]string{
			"message": err.Error(),
		})
	}

	f.tablesMutex.Lock()
	defer f.tablesMutex.Unlock()
	f.tables[table] = append(f.tables[table], records...)

	return httpmock.NewStringResponse(http.StatusCreated, ""), nil
}

func createFakeBackend(t *testing.T) backend.Backend {
	client, err := supabaseClient.CreateClient(testProjectURL, makeTestKey(t))
	require.NoError(t, err)

	httpmock.ActivateNonDefault(client.HTTPClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	fake := &fakePostgrest{tables: map[string][]backend.DelayRecord{}}
	tableURLPattern := `=~^` + testProjectURL + `/rest/v1/([^?]+)`
	httpmock.RegisterResponder("GET", tableURLPattern, fake.get)
	httpmock.RegisterResponder("POST", tableURLPattern, fake.post)

	b, err := CreateSupabaseBackend(client)
	require.NoError(t, err)
	return b
}

func TestSuiteSupabaseBackend(t *testing.T) {
	test.RunBackendTestSuite(t, createFakeBackend)
}

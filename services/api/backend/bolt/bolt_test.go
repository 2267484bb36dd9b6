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

package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend/test"
)

func TestSuiteBoltBackend(t *testing.T) {
	test.RunBackendTestSuite(t, func(t *testing.T) backend.Backend {
		b, err := CreateBoltBackend(filepath.Join(t.TempDir(), "tgv_tracker.db"))
		require.NoError(t, err)
		return b
	})
}

func TestReopenFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "tgv_tracker.db")

	b, err := CreateBoltBackend(filePath)
	require.NoError(t, err)
	err = b.StoreDelayRecords(context.Background(), "regularity", []backend.DelayRecord{
		{DepartureStation: "PARIS LYON", Service: backend.ServiceNational, AverageDelay: "3.2"},
		{DepartureStation: "LYON PART DIEU", Service: backend.ServiceNational, AverageDelay: "1.8"},
	})
	require.NoError(t, err)
	b.Destroy()

	// The records survive a restart
	b, err = CreateBoltBackend(filePath)
	require.NoError(t, err)
	defer b.Destroy()

	count, err := b.CountRows(context.Background(), "regularity")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := b.FetchDelayRecords(context.Background(), "regularity", "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "PARIS LYON", records[0].DepartureStation)
	assert.Equal(t, backend.DelayValue("3.2"), records[0].AverageDelay)
}

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

package test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

func generateDelayRecords(stationCount int, recordsPerStation int, service string) []backend.DelayRecord {
	records := make([]backend.DelayRecord, 0, stationCount*recordsPerStation)
	for stationIdx := 0; stationIdx < stationCount; stationIdx++ {
		for recordIdx := 0; recordIdx < recordsPerStation; recordIdx++ {
			records = append(records, backend.DelayRecord{
				DepartureStation: fmt.Sprintf("station-%d", stationIdx),
				Service:          service,
				AverageDelay:     backend.DelayValue(fmt.Sprintf("%d.5", recordIdx)),
			})
		}
	}
	return records
}

// RunBackendTestSuite runs the storage contract tests against the backend
// built by `createBackend`, each subtest receives a fresh backend.
func RunBackendTestSuite(t *testing.T, createBackend func(t *testing.T) backend.Backend) {
	t.Run("TestUnknownTable", func(t *testing.T) {
		b := createBackend(t)
		defer b.Destroy()

		_, err := b.CountRows(context.Background(), "no_such_table")
		require.Error(t, err)
		var unknownTableErr *backend.UnknownTableError
		assert.True(t, errors.As(err, &unknownTableErr))
		assert.Equal(t, "no_such_table", unknownTableErr.Table)

		_, err = b.FetchDelayRecords(context.Background(), "no_such_table", "")
		assert.True(t, errors.As(err, &unknownTableErr))

		_, err = b.FetchDepartureStations(context.Background(), "no_such_table")
		assert.True(t, errors.As(err, &unknownTableErr))
	})

	t.Run("TestStoreAndCount", func(t *testing.T) {
		b := createBackend(t)
		defer b.Destroy()

		records := generateDelayRecords(4, 3, backend.ServiceNational)
		err := b.StoreDelayRecords(context.Background(), "regularity", records)
		require.NoError(t, err)

		count, err := b.CountRows(context.Background(), "regularity")
		require.NoError(t, err)
		assert.Equal(t, 12, count)

		// Appending grows the table
		err = b.StoreDelayRecords(context.Background(), "regularity", records[:2])
		require.NoError(t, err)

		count, err = b.CountRows(context.Background(), "regularity")
		require.NoError(t, err)
		assert.Equal(t, 14, count)
	})

	t.Run("TestFetchDelayRecords", func(t *testing.T) {
		b := createBackend(t)
		defer b.Destroy()

		national := generateDelayRecords(2, 2, backend.ServiceNational)
		international := generateDelayRecords(3, 1, "International")
		err := b.StoreDelayRecords(context.Background(), "regularity", national)
		require.NoError(t, err)
		err = b.StoreDelayRecords(context.Background(), "regularity", international)
		require.NoError(t, err)

		all, err := b.FetchDelayRecords(context.Background(), "regularity", "")
		require.NoError(t, err)
		assert.Len(t, all, 7)

		filtered, err := b.FetchDelayRecords(context.Background(), "regularity", backend.ServiceNational)
		require.NoError(t, err)
		require.Len(t, filtered, 4)
		for _, record := range filtered {
			assert.Equal(t, backend.ServiceNational, record.Service)
		}
	})

	t.Run("TestFetchDepartureStations", func(t *testing.T) {
		b := createBackend(t)
		defer b.Destroy()

		records := generateDelayRecords(3, 2, backend.ServiceNational)
		err := b.StoreDelayRecords(context.Background(), "regularity", records)
		require.NoError(t, err)

		stations, err := b.FetchDepartureStations(context.Background(), "regularity")
		require.NoError(t, err)
		// One entry per row, duplicates included
		assert.Len(t, stations, 6)
		assert.ElementsMatch(t, []string{
			"station-0", "station-0",
			"station-1", "station-1",
			"station-2", "station-2",
		}, stations)
	})

	t.Run("TestTablesAreIsolated", func(t *testing.T) {
		b := createBackend(t)
		defer b.Destroy()

		err := b.StoreDelayRecords(
			context.Background(),
			"regularity_2023",
			generateDelayRecords(1, 1, backend.ServiceNational),
		)
		require.NoError(t, err)
		err = b.StoreDelayRecords(
			context.Background(),
			"regularity_2024",
			generateDelayRecords(2, 1, backend.ServiceNational),
		)
		require.NoError(t, err)

		count, err := b.CountRows(context.Background(), "regularity_2023")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = b.CountRows(context.Background(), "regularity_2024")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

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

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

func record(station string, delay string) backend.DelayRecord {
	return backend.DelayRecord{
		DepartureStation: station,
		Service:          backend.ServiceNational,
		AverageDelay:     backend.DelayValue(delay),
	}
}

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("asc")
	require.NoError(t, err)
	assert.Equal(t, Ascending, order)

	order, err = ParseOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, order)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}

func TestAverageDelayByStation(t *testing.T) {
	records := []backend.DelayRecord{
		record("PARIS LYON", "2.0"),
		record("PARIS LYON", "4.0"),
		record("LYON PART DIEU", "1.5"),
		record("MARSEILLE ST CHARLES", "6.0"),
	}

	ranking := AverageDelayByStation(records, -1, Ascending)
	require.Len(t, ranking, 3)
	assert.Equal(t, StationDelay{Station: "LYON PART DIEU", AverageDelay: 1.5}, ranking[0])
	assert.Equal(t, StationDelay{Station: "PARIS LYON", AverageDelay: 3.0}, ranking[1])
	assert.Equal(t, StationDelay{Station: "MARSEILLE ST CHARLES", AverageDelay: 6.0}, ranking[2])
}

func TestAverageDelayByStationDescending(t *testing.T) {
	records := []backend.DelayRecord{
		record("PARIS LYON", "3.0"),
		record("LYON PART DIEU", "1.5"),
		record("MARSEILLE ST CHARLES", "6.0"),
	}

	ranking := AverageDelayByStation(records, -1, Descending)
	require.Len(t, ranking, 3)
	assert.Equal(t, "MARSEILLE ST CHARLES", ranking[0].Station)
	assert.Equal(t, "LYON PART DIEU", ranking[2].Station)
}

func TestAverageDelayByStationLimit(t *testing.T) {
	records := []backend.DelayRecord{
		record("PARIS LYON", "3.0"),
		record("LYON PART DIEU", "1.5"),
		record("MARSEILLE ST CHARLES", "6.0"),
	}

	ranking := AverageDelayByStation(records, 2, Ascending)
	require.Len(t, ranking, 2)
	assert.Equal(t, "LYON PART DIEU", ranking[0].Station)
	assert.Equal(t, "PARIS LYON", ranking[1].Station)

	// A limit larger than the station count returns everything
	ranking = AverageDelayByStation(records, 10, Ascending)
	assert.Len(t, ranking, 3)
}

func TestAverageDelayByStationUnusableCells(t *testing.T) {
	records := []backend.DelayRecord{
		record("PARIS LYON", "2.0"),
		record("PARIS LYON", "N/A"),
		record("PARIS LYON", ""),
		record("LYON PART DIEU", "not a number"),
	}

	// Unusable cells don't weigh on the mean, stations without any usable
	// cell drop out entirely
	ranking := AverageDelayByStation(records, -1, Ascending)
	require.Len(t, ranking, 1)
	assert.Equal(t, StationDelay{Station: "PARIS LYON", AverageDelay: 2.0}, ranking[0])
}

func TestAverageDelayByStationDecimalComma(t *testing.T) {
	records := []backend.DelayRecord{
		record("PARIS LYON", "2,5"),
		record("PARIS LYON", "3,5"),
	}

	ranking := AverageDelayByStation(records, -1, Ascending)
	require.Len(t, ranking, 1)
	assert.Equal(t, 3.0, ranking[0].AverageDelay)
}

func TestAverageDelayByStationTies(t *testing.T) {
	records := []backend.DelayRecord{
		record("B STATION", "2.0"),
		record("A STATION", "2.0"),
		record("C STATION", "2.0"),
	}

	ranking := AverageDelayByStation(records, -1, Ascending)
	require.Len(t, ranking, 3)
	assert.Equal(t, "A STATION", ranking[0].Station)
	assert.Equal(t, "B STATION", ranking[1].Station)
	assert.Equal(t, "C STATION", ranking[2].Station)
}

func TestAverageDelayByStationEmpty(t *testing.T) {
	ranking := AverageDelayByStation(nil, 10, Ascending)
	assert.Empty(t, ranking)
}

func TestUniqueStationCount(t *testing.T) {
	assert.Equal(t, 0, UniqueStationCount(nil))
	assert.Equal(t, 3, UniqueStationCount([]string{
		"PARIS LYON", "LYON PART DIEU", "PARIS LYON", "MARSEILLE ST CHARLES",
	}))
}

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

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

func TestReadRegularityCSV(t *testing.T) {
	csv := strings.Join([]string{
		"date;service;gare_depart;gare_arrivee;retard_moyen_depart;nb_train_prevu",
		"2024-01;National;PARIS LYON;MARSEILLE ST CHARLES;2,5;420",
		"2024-01;National;LYON PART DIEU;PARIS LYON;1.5;380",
		"2024-01;International;LILLE;BRUXELLES MIDI;4.0;120",
	}, "\n")

	records, err := ReadRegularityCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, backend.DelayRecord{
		DepartureStation: "PARIS LYON",
		Service:          "National",
		AverageDelay:     backend.DelayValue("2,5"),
	}, records[0])
	assert.Equal(t, "International", records[2].Service)
}

func TestReadRegularityCSVHeaderLookup(t *testing.T) {
	// Columns are located by name, order and casing don't matter
	csv := strings.Join([]string{
		"Retard_Moyen_Depart; GARE_DEPART ;service",
		"3.0;PARIS LYON;National",
	}, "\n")

	records, err := ReadRegularityCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "PARIS LYON", records[0].DepartureStation)
	assert.Equal(t, backend.DelayValue("3.0"), records[0].AverageDelay)
}

func TestReadRegularityCSVMissingColumn(t *testing.T) {
	_, err := ReadRegularityCSV(strings.NewReader("date;gare_depart\n2024-01;PARIS LYON"))
	assert.ErrorContains(t, err, "retard_moyen_depart")

	_, err = ReadRegularityCSV(strings.NewReader("date;retard_moyen_depart\n2024-01;2.5"))
	assert.ErrorContains(t, err, "gare_depart")
}

func TestReadRegularityCSVRaggedRows(t *testing.T) {
	csv := strings.Join([]string{
		"gare_depart;retard_moyen_depart;service",
		"PARIS LYON;2.5",
		";3.0;National",
		"LYON PART DIEU;1.5;National",
	}, "\n")

	records, err := ReadRegularityCSV(strings.NewReader(csv))
	require.NoError(t, err)
	// Short rows are kept, rows without a departure station are skipped
	require.Len(t, records, 2)
	assert.Equal(t, "PARIS LYON", records[0].DepartureStation)
	assert.Equal(t, "", records[0].Service)
	assert.Equal(t, "LYON PART DIEU", records[1].DepartureStation)
}

func TestReadRegularityCSVEmpty(t *testing.T) {
	_, err := ReadRegularityCSV(strings.NewReader(""))
	assert.Error(t, err)

	records, err := ReadRegularityCSV(strings.NewReader("gare_depart;retard_moyen_depart"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

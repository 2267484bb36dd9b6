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

// Package ingest parses SNCF regularity exports into punctuality records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

const (
	departureStationColumn = "gare_depart"
	averageDelayColumn     = "retard_moyen_depart"
	serviceColumn          = "service"
)

// ReadRegularityCSV parses a `;` separated SNCF monthly regularity export,
// keeping the columns the tracker uses. Columns are located by header name,
// the many other columns of the export are ignored.
func ReadRegularityCSV(r io.Reader) ([]backend.DelayRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	// The exports are not always rectangular
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read the csv header: %w", err)
	}

	columns := map[string]int{}
	for columnIdx, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = columnIdx
	}
	for _, required := range []string{departureStationColumn, averageDelayColumn} {
		if _, exists := columns[required]; !exists {
			return nil, fmt.Errorf("no column %q found in the csv header", required)
		}
	}

	cell := func(row []string, column string) string {
		columnIdx, exists := columns[column]
		if !exists || columnIdx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[columnIdx])
	}

	records := []backend.DelayRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read a csv row: %w", err)
		}

		station := cell(row, departureStationColumn)
		if station == "" {
			continue
		}

		records = append(records, backend.DelayRecord{
			DepartureStation: station,
			Service:          cell(row, serviceColumn),
			AverageDelay:     backend.DelayValue(cell(row, averageDelayColumn)),
		})
	}
	return records, nil
}

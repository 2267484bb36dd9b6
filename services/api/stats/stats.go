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

// Package stats computes punctuality aggregates over fetched delay records.
package stats

import (
	"fmt"
	"sort"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

// Order is the sort order of a delay ranking, ascending ranks the most
// punctual stations first
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

func ParseOrder(str string) (Order, error) {
	switch Order(str) {
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return "", fmt.Errorf("invalid order %q expecting one of [%s, %s]", str, Ascending, Descending)
}

// StationDelay is the average departure delay of one station
type StationDelay struct {
	Station      string  `json:"gare_depart"`
	AverageDelay float64 `json:"retard_moyen_depart"`
}

// AverageDelayByStation groups the records by departure station and computes
// the mean of their delay values, sorted by the given order and truncated to
// `limit` stations (negative means no truncation).
//
// Cells that don't hold a usable number are excluded from the mean, a station
// without any usable cell is excluded from the ranking.
func AverageDelayByStation(records []backend.DelayRecord, limit int, order Order) []StationDelay {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, record := range records {
		value, usable := record.AverageDelay.Float()
		if !usable {
			continue
		}
		sums[record.DepartureStation] += value
		counts[record.DepartureStation]++
	}

	averages := make([]StationDelay, 0, len(counts))
	for station, count := range counts {
		averages = append(averages, StationDelay{
			Station:      station,
			AverageDelay: sums[station] / float64(count),
		})
	}

	sort.Slice(averages, func(i, j int) bool {
		if averages[i].AverageDelay != averages[j].AverageDelay {
			if order == Descending {
				return averages[i].AverageDelay > averages[j].AverageDelay
			}
			return averages[i].AverageDelay < averages[j].AverageDelay
		}
		// Deterministic ranking of stations with equal delays
		return averages[i].Station < averages[j].Station
	})

	if limit >= 0 && len(averages) > limit {
		averages = averages[:limit]
	}
	return averages
}

// UniqueStationCount counts the distinct departure stations
func UniqueStationCount(stations []string) int {
	unique := map[string]struct{}{}
	for _, station := range stations {
		unique[station] = struct{}{}
	}
	return len(unique)
}

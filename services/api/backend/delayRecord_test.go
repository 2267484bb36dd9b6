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

package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayValueUnmarshal(t *testing.T) {
	// Numeric and text columns both decode to the raw cell value
	record := DelayRecord{}
	err := json.Unmarshal([]byte(`{"gare_depart":"PARIS LYON","retard_moyen_depart":2.5}`), &record)
	require.NoError(t, err)
	assert.Equal(t, DelayValue("2.5"), record.AverageDelay)

	err = json.Unmarshal([]byte(`{"gare_depart":"PARIS LYON","retard_moyen_depart":"2,5"}`), &record)
	require.NoError(t, err)
	assert.Equal(t, DelayValue("2,5"), record.AverageDelay)

	err = json.Unmarshal([]byte(`{"retard_moyen_depart":true}`), &record)
	assert.Error(t, err)
}

func TestDelayValueFloat(t *testing.T) {
	tests := []struct {
		cell   string
		value  float64
		usable bool
	}{
		{"2.5", 2.5, true},
		{"2,5", 2.5, true},
		{" 3.0 ", 3.0, true},
		{"-1.25", -1.25, true},
		{"0", 0, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"not a number", 0, false},
	}
	for _, test := range tests {
		value, usable := DelayValue(test.cell).Float()
		assert.Equal(t, test.usable, usable, test.cell)
		if test.usable {
			assert.Equal(t, test.value, value, test.cell)
		}
	}
}

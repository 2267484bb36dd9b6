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
	"strconv"
	"strings"
)

// DelayRecord is one row of a TGV monthly regularity table. The column names
// follow the SNCF open data export the tables are loaded from.
type DelayRecord struct {
	DepartureStation string     `json:"gare_depart"`
	Service          string     `json:"service,omitempty"`
	AverageDelay     DelayValue `json:"retard_moyen_depart"`
}

// DelayValue holds the raw `retard_moyen_depart` cell. Depending on how the
// dataset was loaded the column is either numeric or text, both are accepted.
type DelayValue string

func (v *DelayValue) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*v = DelayValue(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*v = DelayValue(num.String())
	return nil
}

func (v DelayValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// Float parses the value as a number of minutes. French exports sometimes use
// a decimal comma, it is tolerated. The second return value is false when the
// cell doesn't hold a usable number.
func (v DelayValue) Float() (float64, bool) {
	str := strings.TrimSpace(strings.ReplaceAll(string(v), ",", "."))
	if str == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

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

import "context"

// ServiceNational is the value of the `service` column identifying domestic
// TGV lines, the only ones the delay statistics are computed over.
const ServiceNational = "National"

// Backend defines the interface for the punctuality records storage
type Backend interface {
	// Destroy terminates the underlying storage
	Destroy()

	// CountRows retrieves the exact number of rows in the given table.
	//
	// Returns an error of type `*UnknownTableError` if the table doesn't exist.
	CountRows(ctx context.Context, table string) (int, error)

	// FetchDelayRecords retrieves the delay records of the given table,
	// optionally filtered to a single `service` value (empty means no filter).
	//
	// Returns an error of type `*UnknownTableError` if the table doesn't exist.
	FetchDelayRecords(ctx context.Context, table string, service string) ([]DelayRecord, error)

	// FetchDepartureStations retrieves the `gare_depart` column of the given
	// table, one entry per row, duplicates included.
	//
	// Returns an error of type `*UnknownTableError` if the table doesn't exist.
	FetchDepartureStations(ctx context.Context, table string) ([]string, error)

	// StoreDelayRecords appends the given records to the given table, creating
	// the table if the storage supports it.
	StoreDelayRecords(ctx context.Context, table string, records []DelayRecord) error
}

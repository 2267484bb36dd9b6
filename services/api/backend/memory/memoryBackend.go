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

package memory

import (
	"context"
	"sync"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

type memoryBackend struct {
	tables      map[string][]backend.DelayRecord
	tablesMutex *sync.RWMutex
}

// CreateMemoryBackend creates a Backend that holds every table in memory,
// used by the tests and as an explicit development mode.
func CreateMemoryBackend() (backend.Backend, error) {
	b := &memoryBackend{
		tables:      make(map[string][]backend.DelayRecord),
		tablesMutex: &sync.RWMutex{},
	}
	return b, nil
}

// Destroy terminates the underlying storage
func (b *memoryBackend) Destroy() {
	b.tablesMutex.Lock()
	defer b.tablesMutex.Unlock()
	b.tables = make(map[string][]backend.DelayRecord)
}

func (b *memoryBackend) CountRows(_ctx context.Context, table string) (int, error) {
	b.tablesMutex.RLock()
	defer b.tablesMutex.RUnlock()
	records, exists := b.tables[table]
	if !exists {
		return 0, &backend.UnknownTableError{Table: table}
	}
	return len(records), nil
}

func (b *memoryBackend) FetchDelayRecords(
	_ctx context.Context,
	table string,
	service string,
) ([]backend.DelayRecord, error) {
	b.tablesMutex.RLock()
	defer b.tablesMutex.RUnlock()
	records, exists := b.tables[table]
	if !exists {
		return nil, &backend.UnknownTableError{Table: table}
	}
	filtered := make([]backend.DelayRecord, 0, len(records))
	for _, record := range records {
		if service != "" && record.Service != service {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}

func (b *memoryBackend) FetchDepartureStations(_ctx context.Context, table string) ([]string, error) {
	b.tablesMutex.RLock()
	defer b.tablesMutex.RUnlock()
	records, exists := b.tables[table]
	if !exists {
		return nil, &backend.UnknownTableError{Table: table}
	}
	stations := make([]string, 0, len(records))
	for _, record := range records {
		stations = append(stations, record.DepartureStation)
	}
	return stations, nil
}

func (b *memoryBackend) StoreDelayRecords(
	_ctx context.Context,
	table string,
	records []backend.DelayRecord,
) error {
	b.tablesMutex.Lock()
	defer b.tablesMutex.Unlock()
	b.tables[table] = append(b.tables[table], records...)
	return nil
}

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

package supabase

import (
	"context"
	"errors"

	supabaseClient "github.com/tgv-tracker/tgv-tracker/clients/supabase"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

type supabaseBackend struct {
	client *supabaseClient.Client
}

// CreateSupabaseBackend creates a Backend reading the punctuality records from
// a Supabase project through its PostgREST API
func CreateSupabaseBackend(client *supabaseClient.Client) (backend.Backend, error) {
	b := &supabaseBackend{
		client: client,
	}
	return b, nil
}

// Destroy terminates the underlying storage
func (b *supabaseBackend) Destroy() {}

// mapError translates PostgREST errors to backend errors
func mapError(table string, err error) error {
	var requestError *supabaseClient.RequestError
	if errors.As(err, &requestError) && requestError.IsUndefinedTable() {
		return &backend.UnknownTableError{Table: table}
	}
	return err
}

func (b *supabaseBackend) CountRows(ctx context.Context, table string) (int, error) {
	count, err := b.client.CountRows(ctx, table)
	if err != nil {
		return 0, mapError(table, err)
	}
	return count, nil
}

func (b *supabaseBackend) FetchDelayRecords(
	ctx context.Context,
	table string,
	service string,
) ([]backend.DelayRecord, error) {
	filters := map[string]string{}
	if service != "" {
		filters["service"] = supabaseClient.Eq(service)
	}
	records := []backend.DelayRecord{}
	err := b.client.Select(
		ctx,
		table,
		[]string{"gare_depart", "retard_moyen_depart", "service"},
		filters,
		&records,
	)
	if err != nil {
		return nil, mapError(table, err)
	}
	return records, nil
}

func (b *supabaseBackend) FetchDepartureStations(ctx context.Context, table string) ([]string, error) {
	rows := []struct {
		Station string `json:"gare_depart"`
	}{}
	err := b.client.Select(ctx, table, []string{"gare_depart"}, nil, &rows)
	if err != nil {
		return nil, mapError(table, err)
	}
	stations := make([]string, len(rows))
	for rowIdx, row := range rows {
		stations[rowIdx] = row.Station
	}
	return stations, nil
}

func (b *supabaseBackend) StoreDelayRecords(
	ctx context.Context,
	table string,
	records []backend.DelayRecord,
) error {
	err := b.client.Insert(ctx, table, records)
	if err != nil {
		return mapError(table, err)
	}
	return nil
}

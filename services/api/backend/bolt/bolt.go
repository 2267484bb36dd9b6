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

package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
)

var log = logrus.WithField("component", "bolt_backend")

type boltBackend struct {
	db       *bolt.DB
	filePath string
}

// Bucket structure is
//	tables > {table_name} > {row_idx} > {backend.DelayRecord as JSON}

var tablesBucketName = []byte("tables")

func getTablesBucket(tx *bolt.Tx) *bolt.Bucket {
	tablesBucket := tx.Bucket(tablesBucketName)
	if tablesBucket == nil {
		log.Fatal("tables bucket doesn't exist")
	}
	return tablesBucket
}

func serializeRowID(id uint64) []byte {
	// Format using a hex representation of a fixed length of 16 characters padded with 0
	return []byte(fmt.Sprintf("%016x", id))
}

func serializeRecord(record *backend.DelayRecord) ([]byte, error) {
	v, err := json.Marshal(record)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to serialize delay record (%w)", err)
	}
	return v, nil
}

func deserializeRecord(v []byte) (backend.DelayRecord, error) {
	record := backend.DelayRecord{}
	err := json.Unmarshal(v, &record)
	if err != nil {
		return record, backend.NewUnexpectedError("unable to deserialize delay record (%w)", err)
	}
	return record, nil
}

// CreateBoltBackend creates a Backend that will store the punctuality records
// in the provided file
func CreateBoltBackend(filePath string) (backend.Backend, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, backend.NewUnexpectedError("unable to create the storage directory %q (%w)", dir, err)
		}
	}

	db, err := bolt.Open(filePath, 0600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to open the database file at %q (%w)", filePath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tablesBucketName)
		if err != nil {
			return backend.NewUnexpectedError("unable to create the tables bucket (%w)", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b := &boltBackend{
		db:       db,
		filePath: filePath,
	}
	return b, nil
}

// Destroy terminates the underlying storage
func (b *boltBackend) Destroy() {
	err := b.db.Close()
	if err != nil {
		log.WithField("path", b.filePath).WithField("error", err).Warn("error while closing the database file")
	}
}

func (b *boltBackend) CountRows(_ctx context.Context, table string) (int, error) {
	count := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		tableBucket := getTablesBucket(tx).Bucket([]byte(table))
		if tableBucket == nil {
			return &backend.UnknownTableError{Table: table}
		}
		count = tableBucket.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (b *boltBackend) FetchDelayRecords(
	_ctx context.Context,
	table string,
	service string,
) ([]backend.DelayRecord, error) {
	records := []backend.DelayRecord{}
	err := b.db.View(func(tx *bolt.Tx) error {
		tableBucket := getTablesBucket(tx).Bucket([]byte(table))
		if tableBucket == nil {
			return &backend.UnknownTableError{Table: table}
		}
		return tableBucket.ForEach(func(_k, v []byte) error {
			record, err := deserializeRecord(v)
			if err != nil {
				return err
			}
			if service != "" && record.Service != service {
				return nil
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *boltBackend) FetchDepartureStations(_ctx context.Context, table string) ([]string, error) {
	stations := []string{}
	err := b.db.View(func(tx *bolt.Tx) error {
		tableBucket := getTablesBucket(tx).Bucket([]byte(table))
		if tableBucket == nil {
			return &backend.UnknownTableError{Table: table}
		}
		return tableBucket.ForEach(func(_k, v []byte) error {
			record, err := deserializeRecord(v)
			if err != nil {
				return err
			}
			stations = append(stations, record.DepartureStation)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return stations, nil
}

func (b *boltBackend) StoreDelayRecords(
	_ctx context.Context,
	table string,
	records []backend.DelayRecord,
) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		tableBucket, err := getTablesBucket(tx).CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return backend.NewUnexpectedError("unable to create the bucket for table %q (%w)", table, err)
		}
		for recordIdx := range records {
			rowID, err := tableBucket.NextSequence()
			if err != nil {
				return backend.NewUnexpectedError("unable to allocate a row id (%w)", err)
			}
			v, err := serializeRecord(&records[recordIdx])
			if err != nil {
				return err
			}
			err = tableBucket.Put(serializeRowID(rowID), v)
			if err != nil {
				return backend.NewUnexpectedError("unable to store the delay record (%w)", err)
			}
		}
		return nil
	})
}

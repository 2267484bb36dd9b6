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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tgv-tracker/tgv-tracker/ingest"
	"github.com/tgv-tracker/tgv-tracker/services/api"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend/bolt"
)

// importViper represents the configuration of the import command
var importViper = viper.New()

const importFromKey = "from"
const importFileStorageKey = "file_storage"
const importTableKey = "table"

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an SNCF regularity CSV export into a file storage",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		csvPath := importViper.GetString(importFromKey)
		if csvPath == "" {
			return fmt.Errorf("no csv file provided, use --%s", importFromKey)
		}

		csvFile, err := os.Open(csvPath)
		if err != nil {
			return fmt.Errorf("unable to open %q: %w", csvPath, err)
		}
		defer csvFile.Close()

		records, err := ingest.ReadRegularityCSV(csvFile)
		if err != nil {
			return err
		}

		storageBackend, err := bolt.CreateBoltBackend(importViper.GetString(importFileStorageKey))
		if err != nil {
			return fmt.Errorf("unable to open the file storage: %w", err)
		}
		defer storageBackend.Destroy()

		table := importViper.GetString(importTableKey)
		err = storageBackend.StoreDelayRecords(context.Background(), table, records)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d records from %q into table %q\n", len(records), csvPath, table)
		return nil
	},
}

func init() {
	importCmd.Flags().String(
		importFromKey,
		"",
		"Path of the SNCF regularity CSV export to import",
	)

	importViper.SetDefault(importFileStorageKey, api.DefaultOptions.FileStoragePath)
	_ = importViper.BindEnv(importFileStorageKey, "TGV_TRACKER_FILE_STORAGE")
	importCmd.Flags().String(
		importFileStorageKey,
		importViper.GetString(importFileStorageKey),
		"Path of the file storage to import into",
	)

	importViper.SetDefault(importTableKey, api.DefaultOptions.Table)
	_ = importViper.BindEnv(importTableKey, "TGV_TRACKER_TABLE")
	importCmd.Flags().String(
		importTableKey,
		importViper.GetString(importTableKey),
		"Table the records are imported into",
	)

	// Don't sort alphabetically, keep insertion order
	importCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = importViper.BindPFlags(importCmd.Flags())
}

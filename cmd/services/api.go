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

package services

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/tgv-tracker/tgv-tracker/cmd/services/utils"
	"github.com/tgv-tracker/tgv-tracker/services/api"
	"github.com/tgv-tracker/tgv-tracker/version"
)

// apiViper represents the configuration of the api command
var apiViper = viper.New()

const apiWebPortKey = "web_port"
const apiWebPortEnv = "TGV_TRACKER_WEB_PORT"
const apiSupabaseURLKey = "supabase_url"
const apiSupabaseURLEnv = "SUPABASE_URL"
const apiSupabaseKeyKey = "supabase_key"
const apiSupabaseKeyEnv = "SUPABASE_KEY"
const apiTableKey = "table"
const apiTableEnv = "TGV_TRACKER_TABLE"
const apiCorsOriginsKey = "cors_origins"
const apiCorsOriginsEnv = "TGV_TRACKER_CORS_ORIGINS"
const apiCacheSizeKey = "cache_size"
const apiCacheSizeEnv = "TGV_TRACKER_CACHE_SIZE"
const apiCacheTTLKey = "cache_ttl"
const apiCacheTTLEnv = "TGV_TRACKER_CACHE_TTL"
const apiFileStorageKey = "file_storage"
const apiFileStorageEnv = "TGV_TRACKER_FILE_STORAGE"

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the punctuality api",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		err := configureLog(servicesViper)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"version": version.Version,
			"hash":    version.Hash,
		}).Info("starting the punctuality api service")

		// The Supabase credentials of a local deployment usually live in a
		// `.env` file next to the binary
		if _, err := os.Stat(".env"); err == nil {
			if err := gotenv.Load(); err != nil {
				return err
			}
		}

		options := api.Options{
			Storage:         api.Supabase,
			WebPort:         apiViper.GetUint(apiWebPortKey),
			SupabaseURL:     apiViper.GetString(apiSupabaseURLKey),
			SupabaseKey:     apiViper.GetString(apiSupabaseKeyKey),
			Table:           apiViper.GetString(apiTableKey),
			CorsOrigins:     apiViper.GetStringSlice(apiCorsOriginsKey),
			CacheSize:       apiViper.GetInt(apiCacheSizeKey),
			CacheTTL:        apiViper.GetDuration(apiCacheTTLKey),
			FileStoragePath: apiViper.GetString(apiFileStorageKey),
		}

		if apiViper.IsSet(apiFileStorageKey) {
			options.Storage = api.File
		}

		ctx := utils.ContextWithUserTermination(context.Background())

		err = api.Run(ctx, options)
		if err != nil {
			if err == context.Canceled {
				log.Info("interrupted by user")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	apiViper.SetDefault(apiWebPortKey, api.DefaultOptions.WebPort)
	_ = apiViper.BindEnv(apiWebPortKey, apiWebPortEnv)
	apiCmd.Flags().Uint(
		apiWebPortKey,
		apiViper.GetUint(apiWebPortKey),
		"The http port to listen on",
	)

	_ = apiViper.BindEnv(apiSupabaseURLKey, apiSupabaseURLEnv)
	apiCmd.Flags().String(
		apiSupabaseURLKey,
		apiViper.GetString(apiSupabaseURLKey),
		"URL of the Supabase project holding the punctuality tables",
	)

	_ = apiViper.BindEnv(apiSupabaseKeyKey, apiSupabaseKeyEnv)
	apiCmd.Flags().String(
		apiSupabaseKeyKey,
		apiViper.GetString(apiSupabaseKeyKey),
		"API key of the Supabase project",
	)

	apiViper.SetDefault(apiTableKey, api.DefaultOptions.Table)
	_ = apiViper.BindEnv(apiTableKey, apiTableEnv)
	apiCmd.Flags().String(
		apiTableKey,
		apiViper.GetString(apiTableKey),
		"Default punctuality table served by the api",
	)

	apiViper.SetDefault(apiCorsOriginsKey, api.DefaultOptions.CorsOrigins)
	_ = apiViper.BindEnv(apiCorsOriginsKey, apiCorsOriginsEnv)
	apiCmd.Flags().StringSlice(
		apiCorsOriginsKey,
		apiViper.GetStringSlice(apiCorsOriginsKey),
		"Origins allowed by the CORS policy",
	)

	apiViper.SetDefault(apiCacheSizeKey, api.DefaultOptions.CacheSize)
	_ = apiViper.BindEnv(apiCacheSizeKey, apiCacheSizeEnv)
	apiCmd.Flags().Int(
		apiCacheSizeKey,
		apiViper.GetInt(apiCacheSizeKey),
		"Maximum number of delay rankings kept in the result cache",
	)

	apiViper.SetDefault(apiCacheTTLKey, api.DefaultOptions.CacheTTL)
	_ = apiViper.BindEnv(apiCacheTTLKey, apiCacheTTLEnv)
	apiCmd.Flags().Duration(
		apiCacheTTLKey,
		apiViper.GetDuration(apiCacheTTLKey),
		"Time a cached delay ranking stays valid",
	)

	_ = apiViper.BindEnv(apiFileStorageKey, apiFileStorageEnv)
	apiCmd.Flags().String(
		apiFileStorageKey,
		apiViper.GetString(apiFileStorageKey),
		"If provided, the api serves from a local file storage instead of "+
			"Supabase with the provided file path as its location",
	)
	if !apiViper.IsSet(apiFileStorageKey) {
		apiCmd.Flags().Lookup(apiFileStorageKey).NoOptDefVal = api.DefaultOptions.FileStoragePath
	}

	// Don't sort alphabetically, keep insertion order
	apiCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = apiViper.BindPFlags(apiCmd.Flags())
}

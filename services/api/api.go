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

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/imdario/mergo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	supabaseClient "github.com/tgv-tracker/tgv-tracker/clients/supabase"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend/bolt"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend/memory"
	"github.com/tgv-tracker/tgv-tracker/services/api/backend/supabase"
	"github.com/tgv-tracker/tgv-tracker/services/api/cache"
	"github.com/tgv-tracker/tgv-tracker/services/api/httpserver"
)

var log = logrus.WithField("component", "api")

type StorageType int

const (
	Supabase StorageType = iota
	File
	Memory
)

type Options struct {
	Storage         StorageType
	WebPort         uint
	SupabaseURL     string
	SupabaseKey     string
	Table           string
	CorsOrigins     []string
	CacheSize       int
	CacheTTL        time.Duration
	FileStoragePath string
}

var DefaultOptions = Options{
	Storage: Supabase,
	WebPort: 8002,
	Table:   "tgv-data",
	CorsOrigins: []string{
		"http://localhost:8002",
		"http://localhost:5173",
		"http://localhost:8080",
		"http://172.19.0.3:8002",
		"http://172.19.0.3:5173",
		"http://172.19.0.3:8080",
	},
	CacheSize:       128,
	CacheTTL:        30 * time.Second,
	FileStoragePath: ".tgv-tracker/tgv_tracker.db",
}

func Run(ctx context.Context, options Options) error {
	// Backfill unset options from the defaults
	if err := mergo.Merge(&options, DefaultOptions); err != nil {
		return err
	}

	var storageBackend backend.Backend
	switch options.Storage {
	case File:
		log.WithField("path", options.FileStoragePath).Info("using a file storage backend")
		var err error
		storageBackend, err = bolt.CreateBoltBackend(options.FileStoragePath)
		if err != nil {
			return fmt.Errorf("unable to create the bolt backend: %w", err)
		}
	case Memory:
		log.Info("using an in-memory storage")
		var err error
		storageBackend, err = memory.CreateMemoryBackend()
		if err != nil {
			return fmt.Errorf("unable to create the memory backend: %w", err)
		}
	case Supabase:
		client, err := supabaseClient.CreateClient(options.SupabaseURL, options.SupabaseKey)
		if err != nil {
			return fmt.Errorf("unable to create the supabase client: %w", err)
		}
		storageBackend, err = supabase.CreateSupabaseBackend(client)
		if err != nil {
			return fmt.Errorf("unable to create the supabase backend: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage type [%d]", options.Storage)
	}
	defer storageBackend.Destroy()

	checkTable(ctx, storageBackend, options.Table)

	delaysCache, err := cache.CreateCache(options.CacheSize, options.CacheTTL)
	if err != nil {
		return fmt.Errorf("unable to create the result cache: %w", err)
	}

	httpServer, err := httpserver.New(
		options.WebPort,
		storageBackend,
		delaysCache,
		options.Table,
		options.CorsOrigins,
	)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.WithField("web_port", options.WebPort).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("unexpected error while serving http routes: %v", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("gracefully stopping the server")
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(stopCtx); err != nil {
			log.WithField("error", err).Warning("error while stopping the http server")
		}
		return ctx.Err()
	})

	return group.Wait()
}

// checkTable probes the configured table at startup, a missing or unreachable
// table is reported but doesn't prevent the service from starting
func checkTable(ctx context.Context, storageBackend backend.Backend, table string) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := storageBackend.CountRows(probeCtx, table)
	if err != nil {
		log.WithFields(logrus.Fields{
			"table": table,
			"error": err,
		}).Warning("table doesn't exist or is not reachable")
		return
	}
	log.WithFields(logrus.Fields{
		"table": table,
		"rows":  count,
	}).Info("table found")
}

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

package httpserver

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"

	"github.com/tgv-tracker/tgv-tracker/services/api/backend"
	"github.com/tgv-tracker/tgv-tracker/services/api/cache"
	"github.com/tgv-tracker/tgv-tracker/services/api/stats"
	"github.com/tgv-tracker/tgv-tracker/version"
)

var log = logrus.WithFields(logrus.Fields{
	"component":     "api",
	"sub_component": "http",
})

var infos = openapi.Info{
	Title:       "TGV Tracker API",
	Description: "A minimal API for TGV tracking",
	Version:     version.Version,
}

type Server struct {
	http.Server
	backend      backend.Backend
	delaysCache  *cache.Cache
	defaultTable string

	gin  *gin.Engine
	fizz *fizz.Fizz
}

func New(
	port uint,
	storageBackend backend.Backend,
	delaysCache *cache.Cache,
	defaultTable string,
	corsOrigins []string,
) (*Server, error) {
	// Debug mode can be helpful during development
	gin.SetMode(gin.ReleaseMode)
	//gin.SetMode(gin.DebugMode)

	tonic.SetErrorHook(tonicErrorHook)

	ginEngine := gin.New()
	fizzEngine := fizz.NewFromEngine(ginEngine)

	server := &Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: fizzEngine,
		},
		backend:      storageBackend,
		delaysCache:  delaysCache,
		defaultTable: defaultTable,
		gin:          ginEngine,
		fizz:         fizzEngine,
	}

	server.gin.HandleMethodNotAllowed = true

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE"}
	// All request headers are allowed. With credentials the wildcard has no
	// effect in browsers, the preflight's requested headers are echoed
	// instead, so the config itself carries no header list.
	corsConfig.AllowHeaders = nil
	corsHandler := cors.New(corsConfig)

	server.fizz.Use(func(c *gin.Context) {
		requestedHeaders := c.Request.Header.Get("Access-Control-Request-Headers")
		if requestedHeaders != "" {
			c.Header("Access-Control-Allow-Headers", requestedHeaders)
		}
		corsHandler(c)
	})

	// Use a custom error handler
	server.fizz.Use(ginErrorHandlerMiddleware)

	// Use the custom logger middleware
	server.fizz.Use(ginLoggerMiddleware)

	// Recovery middleware recovers from any panics and writes a 500 if there was one.
	server.fizz.Use(gin.Recovery())

	server.fizz.GET("/", []fizz.OperationOption{
		fizz.Summary("Retrieve information about this API"),
	}, tonic.Handler(server.getInfo, http.StatusOK))

	server.fizz.GET("/health", []fizz.OperationOption{
		fizz.Summary("Check the health of the service"),
	}, tonic.Handler(server.getHealth, http.StatusOK))

	server.fizz.GET("/openapi.json", []fizz.OperationOption{
		fizz.Summary("Retrieve the open api specification"),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, server.fizz.OpenAPI(&infos, "json"))

	apiGroup := server.fizz.Group(
		"/api",
		"Punctuality",
		"Query the TGV punctuality statistics.",
	)
	apiGroup.GET("/count_rows", []fizz.OperationOption{
		fizz.Summary("Count the rows of a punctuality table"),
		fizz.Response("404", "Unknown table", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.countRows, http.StatusOK))

	apiGroup.GET("/delays", []fizz.OperationOption{
		fizz.Summary("Rank departure stations by average delay"),
		fizz.Description("Group the National service records by departure station and rank the stations " +
			"by their average departure delay in minutes.\n" +
			"\n" +
			"`order=asc` ranks the most punctual stations first, `order=desc` the least punctual ones."),
		fizz.Response("400", "Invalid query parameters", httpError{}, nil, nil),
		fizz.Response("404", "Unknown table", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.getDelays, http.StatusOK))

	apiGroup.GET("/stations/count", []fizz.OperationOption{
		fizz.Summary("Count the distinct departure stations of a punctuality table"),
		fizz.Response("404", "Unknown table", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.countStations, http.StatusOK))

	ginEngine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	ginEngine.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
	})

	return server, nil
}

func (server *Server) tableOrDefault(tableName string) string {
	if tableName == "" {
		return server.defaultTable
	}
	return tableName
}

type response struct {
	Message string `json:"message" description:"Human-readable response description"`
}

type infoResponse struct {
	response
	Version     string `json:"version" description:"TGV Tracker version"`
	VersionHash string `json:"version_hash"`
}

func (server *Server) getInfo(*gin.Context) (infoResponse, error) {
	return infoResponse{
		response: response{
			Message: "Welcome to the TGV Tracker API",
		},
		Version:     version.Version,
		VersionHash: version.Hash,
	}, nil
}

type healthResponse struct {
	Status string `json:"status" description:"Health status of the service"`
}

func (server *Server) getHealth(*gin.Context) (healthResponse, error) {
	return healthResponse{
		Status: "healthy",
	}, nil
}

type countRowsRequest struct {
	TableName string `query:"table_name" description:"Table name to query, defaults to the configured table"`
}

type countRowsResponse struct {
	RowCount int `json:"row_count" description:"Exact number of rows in the table"`
}

func (server *Server) countRows(c *gin.Context, request *countRowsRequest) (*countRowsResponse, error) {
	table := server.tableOrDefault(request.TableName)
	count, err := server.backend.CountRows(c, table)
	if err != nil {
		return nil, wrapBackendError(err)
	}
	return &countRowsResponse{
		RowCount: count,
	}, nil
}

//nolint:lll
type delaysRequest struct {
	TableName string `query:"table_name" description:"Table name to query, defaults to the configured table"`
	Limit     int    `query:"limit" default:"10" validate:"gte=1,lte=100" description:"Number of results to return"`
	Order     string `query:"order" default:"asc" enum:"asc,desc" validate:"omitempty,oneof=asc desc" description:"Sort order: 'asc' for best (lowest delays), 'desc' for worst (highest delays)"`
}

//nolint:lll
type delaysResult struct {
	Data          []stats.StationDelay `json:"data" description:"Ranked stations with their average departure delay in minutes"`
	Count         int                  `json:"count" description:"Number of ranked stations"`
	TableName     string               `json:"table_name"`
	Order         string               `json:"order"`
	ServiceFilter string               `json:"service_filter"`
	Description   string               `json:"description"`
	Message       string               `json:"message,omitempty" description:"Present when the table holds no National service record"`
}

type delaysResponse struct {
	ExecutionTimeMs float64      `json:"execution_time_ms" description:"Time spent querying and aggregating, in milliseconds"`
	TableName       string       `json:"table_name"`
	Limit           int          `json:"limit"`
	Order           string       `json:"order"`
	Description     string       `json:"description"`
	Result          delaysResult `json:"result"`
}

func (server *Server) getDelays(c *gin.Context, request *delaysRequest) (*delaysResponse, error) {
	table := server.tableOrDefault(request.TableName)
	order, err := stats.ParseOrder(request.Order)
	if err != nil {
		return nil, wrapError(http.StatusBadRequest, err)
	}

	log.WithFields(logrus.Fields{
		"table": table,
		"limit": request.Limit,
		"order": order,
	}).Info("ranking stations by average delay")

	start := time.Now()
	result, err := server.delaysResult(c, table, request.Limit, order)
	if err != nil {
		return nil, wrapBackendError(err)
	}
	executionTimeMs := math.Round(float64(time.Since(start).Nanoseconds())/10000.0) / 100.0

	orderDescription := "best (lowest delays)"
	if order == stats.Descending {
		orderDescription = "worst (highest delays)"
	}

	return &delaysResponse{
		ExecutionTimeMs: executionTimeMs,
		TableName:       table,
		Limit:           request.Limit,
		Order:           string(order),
		Description:     fmt.Sprintf("Top %d %s stations", request.Limit, orderDescription),
		Result:          *result,
	}, nil
}

func (server *Server) delaysResult(
	ctx context.Context,
	table string,
	limit int,
	order stats.Order,
) (*delaysResult, error) {
	key := cache.Key(table, backend.ServiceNational, strconv.Itoa(limit), string(order))
	if cached, exists := server.delaysCache.Get(key); exists {
		log.WithField("key", key).Debug("ranking served from cache")
		result := cached.(delaysResult)
		return &result, nil
	}

	records, err := server.backend.FetchDelayRecords(ctx, table, backend.ServiceNational)
	if err != nil {
		return nil, err
	}

	result := delaysResult{
		TableName:     table,
		Order:         string(order),
		ServiceFilter: backend.ServiceNational,
	}
	if len(records) == 0 {
		result.Data = []stats.StationDelay{}
		result.Message = "No National service data found"
		log.WithField("table", table).Warn("no National service data found")
	} else {
		result.Data = stats.AverageDelayByStation(records, limit, order)
		result.Count = len(result.Data)
		orderDescription := "lowest"
		if order == stats.Descending {
			orderDescription = "highest"
		}
		result.Description = fmt.Sprintf(
			"Top %d National service stations with %s average delays",
			limit,
			orderDescription,
		)
	}

	server.delaysCache.Put(key, result)
	return &result, nil
}

type countStationsRequest struct {
	TableName string `query:"table_name" description:"Table name to query, defaults to the configured table"`
}

//nolint:lll
type countStationsResponse struct {
	UniqueStationsCount int    `json:"unique_stations_count" description:"Number of distinct departure stations"`
	TotalRecords        int    `json:"total_records" description:"Number of rows the count was computed over"`
	TableName           string `json:"table_name"`
	ServiceFilter       string `json:"service_filter"`
}

func (server *Server) countStations(
	c *gin.Context,
	request *countStationsRequest,
) (*countStationsResponse, error) {
	table := server.tableOrDefault(request.TableName)
	stations, err := server.backend.FetchDepartureStations(c, table)
	if err != nil {
		return nil, wrapBackendError(err)
	}
	return &countStationsResponse{
		UniqueStationsCount: stats.UniqueStationCount(stations),
		TotalRecords:        len(stations),
		TableName:           table,
		ServiceFilter:       backend.ServiceNational,
	}, nil
}

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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statusViper represents the configuration of the status command
var statusViper = viper.New()

const statusURLKey = "url"
const statusURLEnv = "TGV_TRACKER_URL"

const statusProbeTimeout = 10 * time.Second

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of a running tgv-tracker instance",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		client := resty.New().
			SetBaseURL(statusViper.GetString(statusURLKey)).
			SetTimeout(statusProbeTimeout)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Endpoint", "Status", "Detail"})

		failures := 0
		for _, probe := range statusProbes {
			status, detail, err := probe.run(client)
			if err != nil {
				failures++
				table.Append([]string{probe.endpoint, "unreachable", err.Error()})
				continue
			}
			table.Append([]string{probe.endpoint, status, detail})
		}
		table.Render()

		if failures > 0 {
			return fmt.Errorf("%d endpoint(s) out of %d failed", failures, len(statusProbes))
		}
		return nil
	},
}

type statusProbe struct {
	endpoint string
	run      func(client *resty.Client) (string, string, error)
}

func getJSON(client *resty.Client, endpoint string, dest interface{}) error {
	resp, err := client.R().Get(endpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %s", resp.Status())
	}
	return json.Unmarshal(resp.Body(), dest)
}

var statusProbes = []statusProbe{
	{
		endpoint: "/",
		run: func(client *resty.Client) (string, string, error) {
			info := struct {
				Version     string `json:"version"`
				VersionHash string `json:"version_hash"`
			}{}
			if err := getJSON(client, "/", &info); err != nil {
				return "", "", err
			}
			return "up", fmt.Sprintf("version %s (%s)", info.Version, info.VersionHash), nil
		},
	},
	{
		endpoint: "/health",
		run: func(client *resty.Client) (string, string, error) {
			health := struct {
				Status string `json:"status"`
			}{}
			if err := getJSON(client, "/health", &health); err != nil {
				return "", "", err
			}
			return health.Status, "", nil
		},
	},
	{
		endpoint: "/api/count_rows",
		run: func(client *resty.Client) (string, string, error) {
			count := struct {
				RowCount int `json:"row_count"`
			}{}
			if err := getJSON(client, "/api/count_rows", &count); err != nil {
				return "", "", err
			}
			return "up", fmt.Sprintf("%d rows", count.RowCount), nil
		},
	},
}

func init() {
	statusViper.SetDefault(statusURLKey, "http://localhost:8002")
	_ = statusViper.BindEnv(statusURLKey, statusURLEnv)
	statusCmd.Flags().String(
		statusURLKey,
		statusViper.GetString(statusURLKey),
		"Base URL of the tgv-tracker instance to check",
	)

	// Don't sort alphabetically, keep insertion order
	statusCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = statusViper.BindPFlags(statusCmd.Flags())
}

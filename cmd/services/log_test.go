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
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configureLog mutates the global logrus configuration, restore it after each
// test
func snapshotLogger(t *testing.T) {
	logger := logrus.StandardLogger()
	level := logger.GetLevel()
	formatter := logger.Formatter
	out := logger.Out
	t.Cleanup(func() {
		logrus.SetLevel(level)
		logrus.SetFormatter(formatter)
		logrus.SetOutput(out)
	})
}

func TestConfigureLogLevel(t *testing.T) {
	snapshotLogger(t)

	cfg := viper.New()
	cfg.Set(servicesLogLevelKey, "debug")
	require.NoError(t, configureLog(cfg))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	cfg.Set(servicesLogLevelKey, LogLevelOff)
	require.NoError(t, configureLog(cfg))
	assert.Equal(t, logrus.PanicLevel, logrus.GetLevel())

	cfg.Set(servicesLogLevelKey, "verbose")
	assert.Error(t, configureLog(cfg))
}

func TestConfigureLogFileKeepsLevel(t *testing.T) {
	snapshotLogger(t)

	cfg := viper.New()
	cfg.Set(servicesLogLevelKey, "error")
	cfg.Set(servicesLogFileKey, filepath.Join(t.TempDir(), "tgv_tracker.log"))
	require.NoError(t, configureLog(cfg))

	// The level applies to the file output too
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}

func TestConfigureLogFormat(t *testing.T) {
	snapshotLogger(t)

	cfg := viper.New()
	cfg.Set(servicesLogLevelKey, "info")
	cfg.Set(servicesLogFormatKey, "json")
	require.NoError(t, configureLog(cfg))
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	cfg.Set(servicesLogFormatKey, "xml")
	assert.Error(t, configureLog(cfg))
}

// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/algorand/go-storagemeter/logging"
)

// ConfigFilename is the name of the config.json file where we store per-node
// meter settings
const ConfigFilename = "config.json"

// Local holds the per-node settings that control how storage meters are
// instrumented. Protocol-level pricing lives in StorageParams.
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new
	Version uint32

	// LogLevel is the name of the level the meter logs at ("debug", "info", "warn", ...)
	LogLevel string

	// MeterMaxCallDepth bounds how deeply nested meters may be opened below a
	// root meter. Zero means the protocol default.
	MeterMaxCallDepth uint32

	// DepositPerByte and DepositPerItem override the protocol pricing when
	// non-zero; used by local simulation setups.
	DepositPerByte uint64
	DepositPerItem uint64

	// EnableMeterMetrics registers meter counters with the metrics registry.
	EnableMeterMetrics bool

	// EnableMeterTracing attaches a tracer to every root meter.
	EnableMeterTracing bool
}

var defaultLocal = Local{
	Version:            1,
	LogLevel:           "warn",
	MeterMaxCallDepth:  0,
	EnableMeterMetrics: true,
	EnableMeterTracing: false,
}

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

// LoadConfigFromDisk returns a Local config structure based on merging the defaults
// with settings loaded from the config file from the custom dir.  If the custom file
// cannot be loaded, the default config is returned (with the error from loading the
// custom file).
func LoadConfigFromDisk(custom string) (c Local, err error) {
	return loadConfigFromFile(filepath.Join(custom, ConfigFilename))
}

func loadConfigFromFile(configFile string) (c Local, err error) {
	return mergeConfigFromFile(configFile, defaultLocal)
}

func mergeConfigFromFile(configpath string, source Local) (Local, error) {
	f, err := os.Open(configpath)
	if err != nil {
		return source, err
	}
	defer f.Close()

	err = loadConfig(f, &source)
	return source, err
}

func loadConfig(reader io.Reader, config *Local) error {
	dec := json.NewDecoder(reader)
	return dec.Decode(config)
}

// SaveToDisk writes the Local settings into a root/ConfigFilename file
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveToFile saves the config to a specific filename, allowing overriding the default name
func (cfg Local) SaveToFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	return enc.Encode(cfg)
}

// LoggingLevel returns the configured level, falling back to Warn for
// unknown names.
func (cfg Local) LoggingLevel() logging.Level {
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logging.Warn
	}
	return lvl
}

// StorageParams applies the local overrides on top of the protocol params.
func (cfg Local) StorageParams(proto StorageParams) StorageParams {
	if cfg.MeterMaxCallDepth != 0 {
		proto.MaxCallDepth = cfg.MeterMaxCallDepth
	}
	if cfg.DepositPerByte != 0 {
		proto.DepositPerByte = cfg.DepositPerByte
	}
	if cfg.DepositPerItem != 0 {
		proto.DepositPerItem = cfg.DepositPerItem
	}
	return proto
}

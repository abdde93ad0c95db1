// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for option files that are neither TOML nor
// YAML.
var ErrUnknownFormat = errors.New("gfx: unknown options file format")

type fileFormat uint8

const (
	formatTOML fileFormat = iota
	formatYAML
)

func formatOf(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// LoadOptions reads options from a .toml, .yaml or .yml file and validates
// them. Missing keys keep their zero value.
func LoadOptions(path string) (Options, error) {
	var opts Options
	format, err := formatOf(path)
	if err != nil {
		return opts, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("gfx: read options: %w", err)
	}
	switch format {
	case formatTOML:
		_, err = toml.Decode(string(data), &opts)
	case formatYAML:
		err = yaml.Unmarshal(data, &opts)
	}
	if err != nil {
		return opts, fmt.Errorf("gfx: parse options %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// SaveOptions writes opts to path in the format selected by its extension.
// Native handles are not saved.
func SaveOptions(path string, opts Options) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	switch format {
	case formatTOML:
		err = toml.NewEncoder(&buf).Encode(&opts)
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(&opts)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("gfx: encode options: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("gfx: write options: %w", err)
	}
	return nil
}

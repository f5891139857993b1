/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package settingsfile reads and edits single settings in coffeeshop.yaml (or
// its JSON form) without rewriting the rest of the file.
package settingsfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IsJSONFile reports whether the settings file at filePath is in JSON format,
// decided by the extension.
func IsJSONFile(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".json")
}

// ToJSON converts YAML settings file content to indented JSON. Comments are dropped.
func ToJSON(content []byte) ([]byte, error) {
	compact, err := yaml.YAMLToJSON(content)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format JSON: %w", err)
	}
	indented.WriteString("\n")
	return indented.Bytes(), nil
}

// Key returns the dotted key of a setting within the settings file,
// eg, 'environments.production.auth0.clientId'.
func Key(mode environment.Mode, fieldPath string) string {
	return fmt.Sprintf("environments.%s.%s", mode, fieldPath)
}

// Check that fieldPath names a setting and convert value to its type.
func typedValue(fieldPath string, value string) (any, error) {
	if _, err := (environment.Environment{}).With(fieldPath, value); err != nil {
		return nil, err
	}
	if fieldPath == environment.PathProduction {
		return strconv.ParseBool(value)
	}
	return value, nil
}

// GetValue returns the value of a setting from settings file content.
func GetValue(content []byte, isJSON bool, mode environment.Mode, fieldPath string) (string, error) {
	if _, known := (environment.Environment{}).Lookup(fieldPath); !known {
		return "", fmt.Errorf("unknown setting '%s', expecting one of: %s", fieldPath, strings.Join(environment.FieldPaths, ", "))
	}
	key := Key(mode, fieldPath)

	if isJSON {
		result := gjson.GetBytes(content, key)
		if !result.Exists() {
			return "", fmt.Errorf("setting '%s' not found", key)
		}
		return result.String(), nil
	}

	path, err := yaml.PathString("$." + key)
	if err != nil {
		return "", fmt.Errorf("invalid setting path '%s': %w", key, err)
	}
	var value any
	if err := path.Read(bytes.NewReader(content), &value); err != nil {
		return "", fmt.Errorf("setting '%s' not found: %w", key, err)
	}
	if value == nil {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

// SetValue returns settings file content with one setting replaced. If the
// file has no entry for the mode yet, one is added with the built-in defaults.
// The result must still be a valid settings file.
func SetValue(content []byte, isJSON bool, mode environment.Mode, fieldPath string, value string) ([]byte, error) {
	typed, err := typedValue(fieldPath, value)
	if err != nil {
		return nil, err
	}

	var updated []byte
	if isJSON {
		updated, err = setJSONValue(content, mode, fieldPath, typed)
	} else {
		updated, err = setYAMLValue(content, mode, fieldPath, typed)
	}
	if err != nil {
		return nil, err
	}

	// Never produce a file that fails to load.
	if _, err := environment.ParseSettingsFile(updated); err != nil {
		return nil, fmt.Errorf("updated settings file would be invalid: %w", err)
	}

	return updated, nil
}

// Default settings for mode with one setting replaced.
func seedEnvironment(mode environment.Mode, fieldPath string, value any) (environment.Environment, error) {
	return environment.Defaults(mode).With(fieldPath, fmt.Sprint(value))
}

func setJSONValue(content []byte, mode environment.Mode, fieldPath string, value any) ([]byte, error) {
	variantKey := fmt.Sprintf("environments.%s", mode)
	if !gjson.GetBytes(content, variantKey).Exists() {
		seed, err := seedEnvironment(mode, fieldPath, value)
		if err != nil {
			return nil, err
		}
		log.Debug().Msgf("Adding %s environment to settings file", mode)
		return sjson.SetBytes(content, variantKey, seed)
	}

	updated, err := sjson.SetBytes(content, Key(mode, fieldPath), value)
	if err != nil {
		return nil, fmt.Errorf("failed to update '%s': %w", Key(mode, fieldPath), err)
	}
	return updated, nil
}

// Edit the YAML AST in place so that ordering, comments and whitespace of the
// untouched parts of the file are retained.
func setYAMLValue(content []byte, mode environment.Mode, fieldPath string, value any) ([]byte, error) {
	root, err := parser.ParseBytes(content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	variantPath, err := yaml.PathString(fmt.Sprintf("$.environments.%s", mode))
	if err != nil {
		return nil, fmt.Errorf("failed to create environment path: %w", err)
	}

	// Add the whole variant if the file does not have it yet.
	if node, err := variantPath.FilterFile(root); err != nil || node == nil {
		seed, err := seedEnvironment(mode, fieldPath, value)
		if err != nil {
			return nil, err
		}
		seedYAML, err := yaml.Marshal(map[string]environment.Environment{string(mode): seed})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s environment: %w", mode, err)
		}

		envsPath, err := yaml.PathString("$.environments")
		if err != nil {
			return nil, fmt.Errorf("failed to create environments path: %w", err)
		}
		log.Debug().Msgf("Adding %s environment to settings file", mode)
		if err := envsPath.MergeFromReader(root, bytes.NewReader(seedYAML)); err != nil {
			return nil, fmt.Errorf("failed to add %s environment: %w", mode, err)
		}
		return []byte(root.String() + "\n"), nil
	}

	settingPath, err := yaml.PathString("$." + Key(mode, fieldPath))
	if err != nil {
		return nil, fmt.Errorf("invalid setting path '%s': %w", Key(mode, fieldPath), err)
	}

	valueYAML, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := settingPath.ReplaceWithReader(root, bytes.NewReader(valueYAML)); err != nil {
		return nil, fmt.Errorf("failed to update '%s': %w", Key(mode, fieldPath), err)
	}

	return []byte(root.String() + "\n"), nil
}

// Get reads a setting from the settings file at filePath.
func Get(filePath string, mode environment.Mode, fieldPath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read settings file: %w", err)
	}
	return GetValue(content, IsJSONFile(filePath), mode, fieldPath)
}

// Set updates a setting in the settings file at filePath. The file is replaced atomically.
func Set(filePath string, mode environment.Mode, fieldPath string, value string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	updated, err := SetValue(content, IsJSONFile(filePath), mode, fieldPath, value)
	if err != nil {
		return err
	}

	return WriteFileAtomic(filePath, updated)
}

// WriteFileAtomic replaces the file at filePath with content. An existing
// file keeps its permissions, new files are created with 0644.
func WriteFileAtomic(filePath string, content []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(filePath); err == nil {
		perm = info.Mode().Perm()
	}

	if err := renameio.WriteFile(filePath, content, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	log.Debug().Msgf("Wrote %d bytes to %s", len(content), filePath)
	return nil
}

// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example configuration files for tscat from the
// defaults in package config.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/tscat/tscat/config"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/tscat.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# tscat configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# tscat configuration (via configuration file)
#
# Copy this file to tscat.yaml and customize the values below.
# A TOML file (tscat.toml) with the same keys is also accepted.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

func main() {
	config.SetDefaultLogger()

	if err := os.WriteFile(envOutputFile, []byte(envFile()), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", envOutputFile).Msg("Failed to write .env.example file")
	}

	log.Info().Str("path", envOutputFile).Msg("Successfully generated .env.example")

	content, err := yamlFile()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	if err := os.WriteFile(yamlOutputFile, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", yamlOutputFile).Msg("Failed to write config file")
	}

	log.Info().Str("path", yamlOutputFile).Msg("Successfully generated tscat.yaml.example")
}

// envFile renders every env-tagged field of the default configuration as a
// commented-out assignment, grouped by section.
func envFile() string {
	cfg := &config.Config{}
	cfg.SetDefaults()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	fmt.Fprintf(&sb, "# %s=\n\n", config.ConfigFileEnv)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			field := innerTyp.Field(j)
			value := structValue.Field(j)

			tag, ok := field.Tag.Lookup("env")
			if !ok {
				continue
			}

			envVarName := strings.Split(tag, ",")[0]

			switch value.Kind() {
			case reflect.Slice:
				parts := make([]string, value.Len())
				for k := range value.Len() {
					parts[k] = fmt.Sprint(value.Index(k).Interface())
				}

				fmt.Fprintf(&sb, "# %s=%s\n", envVarName, strings.Join(parts, ","))
			case reflect.String:
				if value.Len() == 0 {
					fmt.Fprintf(&sb, "# %s=\n", envVarName)
				} else {
					fmt.Fprintf(&sb, "# %s=%q\n", envVarName, value.String())
				}
			default:
				fmt.Fprintf(&sb, "# %s=%v\n", envVarName, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// yamlFile renders the default configuration as YAML with every value
// commented out and top-level keys kept as section headers.
func yamlFile() (string, error) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	out, err := cfg.YAML()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}

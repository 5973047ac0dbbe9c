// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Command gen-schema writes the SignPlot configuration JSON Schema to
// schemas/config.schema.json. Editors that understand the $schema key can
// use the generated document to validate and complete config files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/signplot/signplot/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gen-schema: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generating schema: %w", err)
	}

	outPath := filepath.Join("schemas", "config.schema.json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, schema, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("Wrote %s (%d bytes, $id %s)\n", outPath, len(schema), config.SchemaID)
	return nil
}

//go:build ignore

// gen_schema.go writes the JSON schema of the gcping configuration file to
// gcping-config.schema.json so editors can validate gcping.yaml.
//
// Usage:
//
//	go run gen_schema.go [output-path]
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/devantler-tech/gcping/pkg/io/configmanager"
)

const (
	dirPermissions  = 0o750
	filePermissions = 0o600
)

func main() {
	if err := run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	schemaJSON, err := configmanager.SchemaJSON()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}

	outputPath := "gcping-config.schema.json"
	if len(args) > 1 {
		outputPath = args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), dirPermissions); err != nil {
		return fmt.Errorf("create directory for %s: %w", outputPath, err)
	}

	if err := os.WriteFile(outputPath, schemaJSON, filePermissions); err != nil {
		return fmt.Errorf("write schema to %s: %w", outputPath, err)
	}

	fmt.Printf("gen_schema: wrote %s (%d bytes)\n", outputPath, len(schemaJSON))

	return nil
}

// Schema Generator
//
// Generates JSON Schema files for the HTTP API request and response types so
// clients can validate payloads without reading Go source.
//
// Usage:
//
//	go run ./cmd/schema-gen [output-dir]
//
// Output (default directory ./schemas):
//
//	distance.json
//	invites.json
//	compare.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/kosarica/invite-service/internal/handlers"
	"github.com/kosarica/invite-service/internal/invite"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "./schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, group := range schemaGroups() {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// schemaGroups lists the API types per endpoint
func schemaGroups() []SchemaGroup {
	return []SchemaGroup{
		{
			Name: "distance",
			Types: []any{
				handlers.Location{},
				handlers.DistanceRequest{},
				invite.Measurement{},
			},
			Output: "distance.json",
		},
		{
			Name: "invites",
			Types: []any{
				handlers.CustomerInput{},
				handlers.InvitesRequest{},
				invite.Invitee{},
				invite.Result{},
			},
			Output: "invites.json",
		},
		{
			Name: "compare",
			Types: []any{
				handlers.CompareRequest{},
				invite.ComparisonRow{},
				invite.Comparison{},
				handlers.ErrorResponse{},
			},
			Output: "compare.json",
		},
	}
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		// $ref looks like "#/$defs/Location"
		typeName := ""
		if schema.Ref != "" {
			typeName = filepath.Base(schema.Ref)
		}

		for name, def := range schema.Definitions {
			definitions[name] = def
		}

		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://kosarica.hr/schemas/invite/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

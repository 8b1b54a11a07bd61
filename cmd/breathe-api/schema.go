package main

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

var schemaCmd = &cobra.Command{
	Use:       "schema [result|request]",
	Short:     "Print the JSON Schema of the analysis result or request",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"result", "request"},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "result"
		if len(args) == 1 {
			name = args[0]
		}

		schema, err := generateSchema(name)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var logTimeType = reflect.TypeOf(models.LogTime{})

// generateSchema reflects the named document type
func generateSchema(name string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		// LogTime marshals as a plain string
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == logTimeType {
				return &jsonschema.Schema{
					Type:        "string",
					Description: "timestamp, RFC 3339 or YYYY-MM-DD[THH:MM:SS]",
				}
			}
			return nil
		},
	}

	switch name {
	case "result":
		return reflector.Reflect(&models.AnalysisResult{}), nil
	case "request":
		return reflector.Reflect(&models.AnalyzeLogsRequest{}), nil
	default:
		return nil, fmt.Errorf("unknown schema %q", name)
	}
}

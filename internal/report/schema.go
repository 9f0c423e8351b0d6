package report

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of report.json.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Document{})
	s.ID = "https://github.com/bartekus/conform/schemas/report-v1.json"
	s.Title = "conform run report v1"
	s.Description = "Schema for the report.json file written by conform --export"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report schema: %w", err)
	}
	return data, nil
}

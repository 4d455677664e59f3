// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#TestConfig: {
	name!:        string
	count:        int
	enabled:      bool
	tags?:        [...string]
	description?: string
}
`

type TestConfig struct {
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	Enabled     bool     `json:"enabled"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid config parses successfully", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "test"
count: 42
enabled: true
description: "A test config"
`)
		result, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Name != "test" {
			t.Errorf("expected name='test', got %q", result.Value.Name)
		}
		if result.Value.Count != 42 {
			t.Errorf("expected count=42, got %d", result.Value.Count)
		}
		if !result.Value.Enabled {
			t.Error("expected enabled=true")
		}
	})

	t.Run("JSON input is accepted as CUE", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"name": "json", "count": 1, "enabled": false}`)
		result, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig",
			WithFilename("test.json"))
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Name != "json" {
			t.Errorf("expected name='json', got %q", result.Value.Name)
		}
	})

	t.Run("YAML input is extracted", func(t *testing.T) {
		t.Parallel()

		data := []byte("name: yaml\ncount: 7\nenabled: true\ntags:\n  - a\n  - b\n")
		result, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig",
			WithFilename("test.yaml"), WithFormat(FormatYAML))
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Count != 7 {
			t.Errorf("expected count=7, got %d", result.Value.Count)
		}
		if len(result.Value.Tags) != 2 || result.Value.Tags[1] != "b" {
			t.Errorf("expected tags [a b], got %v", result.Value.Tags)
		}
	})

	t.Run("invalid type reports the field path", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "test"
count: "not a number"
enabled: true
`)
		_, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig",
			WithFilename("test.cue"))
		if err == nil {
			t.Fatal("expected error for invalid type")
		}
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected *SchemaError, got %T: %v", err, err)
		}
		if schemaErr.Issues[0].Path != "count" {
			t.Errorf("expected path 'count', got %q", schemaErr.Issues[0].Path)
		}
		if schemaErr.Issues[0].Value != `"not a number"` {
			t.Errorf("expected the offending value, got %q", schemaErr.Issues[0].Value)
		}
	})

	t.Run("missing required field returns error", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
count: 1
enabled: true
`)
		_, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig")
		if err == nil {
			t.Fatal("expected error for missing required field")
		}
		if !strings.Contains(err.Error(), "name") {
			t.Errorf("error should mention the missing field, got: %v", err)
		}
	})

	t.Run("unknown field is rejected by closed definition", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "test"
count: 1
enabled: true
bogus: 1
`)
		_, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig")
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.Contains(err.Error(), "bogus") {
			t.Errorf("error should mention the unknown field, got: %v", err)
		}
	})

	t.Run("syntax error is reported with filename", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[TestConfig]([]byte(testSchema), []byte(`{"name": `), "#TestConfig",
			WithFilename("broken.json"))
		if err == nil {
			t.Fatal("expected syntax error")
		}
		if !strings.Contains(err.Error(), "broken.json") {
			t.Errorf("error should mention filename, got: %v", err)
		}
	})

	t.Run("file size limit is enforced", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "test", count: 1, enabled: true`)
		_, err := ParseAndDecode[TestConfig]([]byte(testSchema), data, "#TestConfig", WithMaxFileSize(4))
		if err == nil {
			t.Fatal("expected size limit error")
		}
		if !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing schema definition is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[TestConfig]([]byte(testSchema), []byte(`name: "x"`), "#Nope")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Errorf("expected internal error, got %v", err)
		}
	})
}

func TestValidate_SourceKeepsFieldOrder(t *testing.T) {
	t.Parallel()

	schema := []byte(`#M: {[string]: int}`)
	data := []byte(`{"zeta": 1, "alpha": 2, "mid": 3}`)

	validated, err := Validate(schema, data, "#M")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out, err := validated.Source.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, out); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if got, want := compact.String(), `{"zeta":1,"alpha":2,"mid":3}`; got != want {
		t.Errorf("Source JSON = %s, want %s", got, want)
	}
}

func TestValidate_NonConcrete(t *testing.T) {
	t.Parallel()

	schema := []byte(`#C: {name?: string, level?: int & >=1}`)

	if _, err := Validate(schema, []byte(`level: int`), "#C", WithConcrete(false)); err != nil {
		t.Errorf("non-concrete validation should accept incomplete values, got %v", err)
	}
	if _, err := Validate(schema, []byte(`level: int`), "#C"); err == nil {
		t.Error("concrete validation should reject incomplete values")
	}
}

func TestValidate_DisjunctionIsOneIssue(t *testing.T) {
	t.Parallel()

	schema := []byte(`
#Kind: "alpha" | "beta" | "gamma"
#D: {kinds: [...#Kind]}
`)
	_, err := Validate(schema, []byte(`{"kinds": ["alpha", "delta"]}`), "#D", WithFilename("d.json"))

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	if len(schemaErr.Issues) != 1 {
		t.Fatalf("expected one issue, got %d: %v", len(schemaErr.Issues), schemaErr)
	}

	issue := schemaErr.Issues[0]
	if issue.Path != "kinds[1]" {
		t.Errorf("Path = %q, want %q", issue.Path, "kinds[1]")
	}
	if issue.Value != `"delta"` {
		t.Errorf("Value = %q, want %q", issue.Value, `"delta"`)
	}
	if strings.HasSuffix(issue.Message, ":") {
		t.Errorf("Message should stand alone, got %q", issue.Message)
	}
	if !strings.Contains(err.Error(), `d.json: kinds[1]: `) || !strings.Contains(err.Error(), `(got "delta")`) {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidate_MissingFieldHasNoValue(t *testing.T) {
	t.Parallel()

	_, err := Validate([]byte(testSchema), []byte(`count: 1, enabled: true`), "#TestConfig")

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T: %v", err, err)
	}
	for _, issue := range schemaErr.Issues {
		if strings.HasPrefix(issue.Path, "#") {
			t.Errorf("path should not name the schema definition: %q", issue.Path)
		}
		if issue.Path == "name" && issue.Value != "" {
			t.Errorf("absent field should carry no value, got %q", issue.Value)
		}
	}
}

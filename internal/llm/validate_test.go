package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var verdictTestSchema = &Schema{
	Name:        "verdict_test",
	Description: "test verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"understanding": map[string]any{"type": "boolean"},
			"confidence":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"action": map[string]any{
				"type": "string",
				"enum": []string{"simplify", "continue", "provide_examples"},
			},
		},
		"required":             []string{"understanding", "confidence"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "conforming document",
			raw:  `{"understanding": true, "confidence": 0.8, "action": "continue"}`,
		},
		{
			name:    "missing required field",
			raw:     `{"understanding": true}`,
			wantErr: true,
		},
		{
			name:    "out of range confidence",
			raw:     `{"understanding": true, "confidence": 1.5}`,
			wantErr: true,
		},
		{
			name:    "unknown enum value",
			raw:     `{"understanding": true, "confidence": 0.5, "action": "escalate"}`,
			wantErr: true,
		},
		{
			name:    "extra property rejected",
			raw:     `{"understanding": true, "confidence": 0.5, "extra": 1}`,
			wantErr: true,
		},
		{
			name:    "not JSON at all",
			raw:     `the model said words`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(verdictTestSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				var mal *MalformedOutputError
				if !errors.As(err, &mal) {
					t.Errorf("err = %T, want *MalformedOutputError", err)
				}
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything goes`)); err != nil {
		t.Errorf("nil schema should skip validation: %v", err)
	}
}

func TestCompiledSchemaCached(t *testing.T) {
	raw := json.RawMessage(`{"understanding": false, "confidence": 0.1}`)
	if err := validateResponse(verdictTestSchema, raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := schemaCache.Load(verdictTestSchema.Name); !ok {
		t.Error("schema not cached after validation")
	}
	// Second validation hits the cache.
	if err := validateResponse(verdictTestSchema, raw); err != nil {
		t.Fatal(err)
	}
}

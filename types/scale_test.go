package types

import (
	"encoding/json"
	"math"
	"testing"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleConfig_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		scale ScaleConfig
		json  string
	}{
		{"numeric", NewNumericScale(1, 5), `{"type":"numeric","min":1,"max":5}`},
		{"enum", NewEnumScale("bad", "ok", "great"), `{"type":"enum","values":["bad","ok","great"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.scale)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(b))

			var decoded ScaleConfig
			require.NoError(t, json.Unmarshal([]byte(tt.json), &decoded))
			assert.Equal(t, tt.scale, decoded)
		})
	}
}

func TestScaleConfig_MarshalNil(t *testing.T) {
	b, err := json.Marshal(ScaleConfig{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestScaleConfig_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField string
	}{
		{"not an object", `"numeric"`, "scale"},
		{"missing type", `{"min":1,"max":2}`, "scale.type"},
		{"unknown type", `{"type":"stars"}`, "scale.type"},
		{"numeric missing min", `{"type":"numeric","max":2}`, "scale.min"},
		{"numeric missing max", `{"type":"numeric","min":0}`, "scale.max"},
		{"numeric wrong type", `{"type":"numeric","min":"low","max":2}`, "scale.min"},
		{"enum missing values", `{"type":"enum"}`, "scale.values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sc ScaleConfig
			err := json.Unmarshal([]byte(tt.input), &sc)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Issues, tt.wantField)
		})
	}
}

func TestScaleConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		scale      ScaleConfig
		wantFields []string
	}{
		{"valid numeric", NewNumericScale(0, 10), nil},
		{"valid enum", NewEnumScale("yes", "no"), nil},
		{"min equals max", NewNumericScale(3, 3), []string{"scale.max"}},
		{"min above max", NewNumericScale(5, 1), []string{"scale.max"}},
		{"infinite min", NewNumericScale(math.Inf(-1), 1), []string{"scale.min"}},
		{"empty enum", NewEnumScale(), []string{"scale.values"}},
		{"blank enum value", NewEnumScale("ok", " "), []string{"scale.values[1]"}},
		{"missing scale", ScaleConfig{}, []string{"scale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := apperrors.Issues{}
			tt.scale.Validate(issues)

			if tt.wantFields == nil {
				assert.Empty(t, issues)
				return
			}
			for _, f := range tt.wantFields {
				assert.Contains(t, issues, f)
			}
		})
	}
}

func TestScaleConfig_CheckScore(t *testing.T) {
	numeric := NewNumericScale(1, 5)
	enum := NewEnumScale("bad", "good")

	tests := []struct {
		name  string
		scale ScaleConfig
		score string
		want  string
	}{
		{"numeric in range", numeric, `3`, ""},
		{"numeric lower bound", numeric, `1`, ""},
		{"numeric fractional", numeric, `4.5`, ""},
		{"numeric below", numeric, `0`, "must be between 1 and 5"},
		{"numeric above", numeric, `6`, "must be between 1 and 5"},
		{"numeric as string", numeric, `"3"`, "must be a number"},
		{"enum member", enum, `"good"`, ""},
		{"enum unknown", enum, `"meh"`, "must be one of: bad, good"},
		{"enum as number", enum, `1`, "must be a string"},
		{"null", numeric, `null`, "is required"},
		{"empty", enum, ``, "is required"},
		{"no scale", ScaleConfig{}, `1`, "cannot be scored: collection has no valid scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scale.CheckScore(json.RawMessage(tt.score)))
		})
	}
}

func TestScaleConfig_Kind(t *testing.T) {
	assert.Equal(t, ScaleTypeNumeric, NewNumericScale(0, 1).Kind())
	assert.Equal(t, ScaleTypeEnum, NewEnumScale("a").Kind())
	assert.Equal(t, ScaleType(""), ScaleConfig{}.Kind())
}

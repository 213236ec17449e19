package types

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"slices"
	"strings"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
)

// ScaleType discriminates the variants of a scoring scale.
type ScaleType string

const (
	ScaleTypeNumeric ScaleType = "numeric"
	ScaleTypeEnum    ScaleType = "enum"
)

// Scale is a scoring scale. NumericScale and EnumScale are the only
// implementations; code interpreting a scale switches over both.
type Scale interface {
	Type() ScaleType
	isScale()
}

// NumericScale accepts any number in the inclusive range [Min, Max].
type NumericScale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (NumericScale) Type() ScaleType { return ScaleTypeNumeric }
func (NumericScale) isScale()        {}

// EnumScale accepts one of a fixed list of labels.
type EnumScale struct {
	Values []string `json:"values"`
}

func (EnumScale) Type() ScaleType { return ScaleTypeEnum }
func (EnumScale) isScale()        {}

// ScaleConfig carries a Scale and (un)marshals it as a JSON object tagged
// with "type". It is stored as-is in a jsonb column.
type ScaleConfig struct {
	Scale Scale
}

// Kind returns the type of the carried scale, or "" when there is none.
func (c ScaleConfig) Kind() ScaleType {
	if c.Scale == nil {
		return ""
	}
	return c.Scale.Type()
}

func NewNumericScale(min, max float64) ScaleConfig {
	return ScaleConfig{Scale: NumericScale{Min: min, Max: max}}
}

func NewEnumScale(values ...string) ScaleConfig {
	return ScaleConfig{Scale: EnumScale{Values: values}}
}

type numericScaleJSON struct {
	Type ScaleType `json:"type"`
	Min  float64   `json:"min"`
	Max  float64   `json:"max"`
}

type enumScaleJSON struct {
	Type   ScaleType `json:"type"`
	Values []string  `json:"values"`
}

// scaleProbe decodes every field any variant may carry so that a missing
// field can be told apart from a zero value.
type scaleProbe struct {
	Type   *ScaleType `json:"type"`
	Min    *float64   `json:"min"`
	Max    *float64   `json:"max"`
	Values []string   `json:"values"`
}

func (c ScaleConfig) MarshalJSON() ([]byte, error) {
	switch s := c.Scale.(type) {
	case NumericScale:
		return json.Marshal(numericScaleJSON{Type: ScaleTypeNumeric, Min: s.Min, Max: s.Max})
	case EnumScale:
		return json.Marshal(enumScaleJSON{Type: ScaleTypeEnum, Values: s.Values})
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unsupported scale %T", c.Scale)
	}
}

// UnmarshalJSON decodes a tagged scale. Structural problems (not an object,
// unknown type, missing or mistyped fields) come back as a validation
// AppError keyed by "scale" or "scale.<field>".
func (c *ScaleConfig) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		c.Scale = nil
		return nil
	}

	var probe scaleProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.ValidationFailed(map[string]string{
				"scale." + typeErr.Field: "has the wrong type",
			})
		}
		return apperrors.ValidationFailed(map[string]string{"scale": "must be an object"})
	}

	if probe.Type == nil {
		return apperrors.ValidationFailed(map[string]string{"scale.type": "is required"})
	}

	switch *probe.Type {
	case ScaleTypeNumeric:
		issues := apperrors.Issues{}
		if probe.Min == nil {
			issues.Add("scale.min", "is required")
		}
		if probe.Max == nil {
			issues.Add("scale.max", "is required")
		}
		if len(issues) > 0 {
			return apperrors.InvalidFields(issues)
		}
		c.Scale = NumericScale{Min: *probe.Min, Max: *probe.Max}
	case ScaleTypeEnum:
		if probe.Values == nil {
			return apperrors.ValidationFailed(map[string]string{"scale.values": "is required"})
		}
		c.Scale = EnumScale{Values: probe.Values}
	default:
		return apperrors.ValidationFailed(map[string]string{
			"scale.type": fmt.Sprintf("must be one of: %s, %s", ScaleTypeNumeric, ScaleTypeEnum),
		})
	}
	return nil
}

// Validate checks the semantic constraints of the scale and records problems
// in issues under the "scale" prefix.
func (c ScaleConfig) Validate(issues apperrors.Issues) {
	switch s := c.Scale.(type) {
	case NumericScale:
		if math.IsNaN(s.Min) || math.IsInf(s.Min, 0) {
			issues.Add("scale.min", "must be a finite number")
		}
		if math.IsNaN(s.Max) || math.IsInf(s.Max, 0) {
			issues.Add("scale.max", "must be a finite number")
		}
		if s.Min >= s.Max {
			issues.Add("scale.max", "must be greater than min")
		}
	case EnumScale:
		if len(s.Values) == 0 {
			issues.Add("scale.values", "must contain at least one value")
		}
		for i, v := range s.Values {
			if strings.TrimSpace(v) == "" {
				issues.Add(fmt.Sprintf("scale.values[%d]", i), "must not be blank")
			}
		}
	case nil:
		issues.Add("scale", "is required")
	default:
		issues.Add("scale", "is not a supported scale")
	}
}

// CheckScore decodes raw as a score for this scale. A numeric scale wants a
// JSON number in range, an enum scale one of its labels as a JSON string.
// The returned message is empty when the score is acceptable.
func (c ScaleConfig) CheckScore(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "is required"
	}

	switch s := c.Scale.(type) {
	case NumericScale:
		var v float64
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return "must be a number"
		}
		if v < s.Min || v > s.Max {
			return fmt.Sprintf("must be between %g and %g", s.Min, s.Max)
		}
	case EnumScale:
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return "must be a string"
		}
		if !slices.Contains(s.Values, v) {
			return "must be one of: " + strings.Join(s.Values, ", ")
		}
	default:
		return "cannot be scored: collection has no valid scale"
	}
	return ""
}

package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iliyamo/smart-medicine-box/internal/model"
)

// Input is a validated /predict payload.
type Input struct {
	Period model.TimePeriod
	Fields map[string]float64
}

// Validate checks a raw request body against the fixed schema. Checks run
// in a fixed order: body present, time_period known, then each feature in
// model.FeatureNames order; the first failure is returned.
func Validate(body []byte, known []model.TimePeriod) (Input, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Input{}, validationf("No JSON data provided")
	}
	if trimmed[0] != '{' {
		return Input{}, validationf("Request body must be a JSON object")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Input{}, validationf("Invalid JSON body: %v", err)
	}
	if len(raw) == 0 {
		return Input{}, validationf("No JSON data provided")
	}

	period, err := parsePeriod(raw["time_period"], known)
	if err != nil {
		return Input{}, err
	}

	fields := make(map[string]float64, len(model.FeatureNames()))
	for _, name := range model.FeatureNames() {
		value, ok := raw[name]
		if !ok {
			return Input{}, validationf("Missing field: '%s'", name)
		}
		f, err := numeric(name, value)
		if err != nil {
			return Input{}, err
		}
		fields[name] = f
	}
	return Input{Period: period, Fields: fields}, nil
}

func parsePeriod(raw json.RawMessage, known []model.TimePeriod) (model.TimePeriod, error) {
	var s string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
	}
	period, _ := model.ParseTimePeriod(s)
	for _, k := range known {
		if k == period {
			return period, nil
		}
	}
	names := make([]string, len(known))
	for i, k := range known {
		names[i] = string(k)
	}
	return "", validationf("Invalid time_period '%s'. Use: %s", period, strings.Join(names, ", "))
}

// numeric accepts JSON numbers and booleans (true=1, false=0), matching
// what the trained models were fed.
func numeric(name string, raw json.RawMessage) (float64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, validationf("Invalid value for field '%s': %v", name, err)
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, validationf("Invalid value for field '%s': expected number", name)
}

package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/iliyamo/smart-medicine-box/internal/model"
)

const defaultLogisticThreshold = 0.5

// Artifact is the on-disk JSON envelope of a trained model.
type Artifact struct {
	Type      string     `json:"type"`
	Features  []string   `json:"features"`
	Nodes     []TreeNode `json:"nodes,omitempty"`
	Weights   []float64  `json:"weights,omitempty"`
	Intercept float64    `json:"intercept,omitempty"`
	Threshold float64    `json:"threshold,omitempty"`
}

// ErrFeatureSchema is returned when an artifact was trained on a different
// column layout than model.FeatureNames.
var ErrFeatureSchema = errors.New("feature schema mismatch")

// Load reads the artifact at path and returns a ready Predictor.
func Load(path string) (Predictor, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return a.Build()
}

// Build turns a decoded artifact into a Predictor.
func (a Artifact) Build() (Predictor, error) {
	if err := checkSchema(a.Features); err != nil {
		return nil, err
	}
	switch a.Type {
	case TypeDecisionTree:
		if len(a.Nodes) == 0 {
			return nil, errors.New("decision tree has no nodes")
		}
		return NewDecisionTree(a.Nodes), nil
	case TypeRegressionTree:
		if len(a.Nodes) == 0 {
			return nil, errors.New("regression tree has no nodes")
		}
		return NewRegressionTree(a.Nodes), nil
	case TypeLinear:
		if len(a.Weights) != len(model.FeatureNames()) {
			return nil, fmt.Errorf("linear model needs %d weights, got %d", len(model.FeatureNames()), len(a.Weights))
		}
		return &LinearModel{Weights: a.Weights, Intercept: a.Intercept}, nil
	case TypeLogistic:
		if len(a.Weights) != len(model.FeatureNames()) {
			return nil, fmt.Errorf("logistic model needs %d weights, got %d", len(model.FeatureNames()), len(a.Weights))
		}
		threshold := a.Threshold
		if threshold <= 0 {
			threshold = defaultLogisticThreshold
		}
		return &LogisticModel{Weights: a.Weights, Intercept: a.Intercept, Threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", a.Type)
	}
}

// Save writes the artifact as JSON.
func (a Artifact) Save(path string) error {
	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func checkSchema(features []string) error {
	want := model.FeatureNames()
	if len(features) != len(want) {
		return fmt.Errorf("%w: expected %d features, got %d", ErrFeatureSchema, len(want), len(features))
	}
	for i, name := range want {
		if features[i] != name {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrFeatureSchema, i, features[i], name)
		}
	}
	return nil
}

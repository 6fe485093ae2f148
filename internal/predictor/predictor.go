// Package predictor loads trained model artifacts and evaluates them
// against a single feature record.
package predictor

import (
	"github.com/iliyamo/smart-medicine-box/internal/model"
)

// Predictor is the capability every loaded artifact exposes. Classifiers
// return a class label, regressors a continuous value.
type Predictor interface {
	Predict(record model.FeatureRecord) (float64, error)
}

// Artifact types understood by Load.
const (
	TypeDecisionTree   = "decision_tree"
	TypeRegressionTree = "regression_tree"
	TypeLinear         = "linear"
	TypeLogistic       = "logistic"
)

// Func adapts a plain function to Predictor.
type Func func(record model.FeatureRecord) (float64, error)

func (f Func) Predict(record model.FeatureRecord) (float64, error) { return f(record) }

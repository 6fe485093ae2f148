package predictor

import (
	"fmt"
	"math"

	"github.com/iliyamo/smart-medicine-box/internal/model"
)

// LinearModel predicts w·x + b.
type LinearModel struct {
	Weights   []float64
	Intercept float64
}

func (lm *LinearModel) Predict(record model.FeatureRecord) (float64, error) {
	return dot(lm.Weights, lm.Intercept, record.Vector())
}

// LogisticModel is a binary classifier over a linear score. Predict
// returns 1 when sigmoid(w·x + b) reaches Threshold, otherwise 0.
type LogisticModel struct {
	Weights   []float64
	Intercept float64
	Threshold float64
}

func (lm *LogisticModel) Predict(record model.FeatureRecord) (float64, error) {
	score, err := dot(lm.Weights, lm.Intercept, record.Vector())
	if err != nil {
		return 0, err
	}
	if sigmoid(score) >= lm.Threshold {
		return 1, nil
	}
	return 0, nil
}

func dot(weights []float64, intercept float64, x []float64) (float64, error) {
	if len(weights) != len(x) {
		return 0, fmt.Errorf("expected %d weights, got %d", len(x), len(weights))
	}
	sum := intercept
	for i, w := range weights {
		sum += w * x[i]
	}
	return sum, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

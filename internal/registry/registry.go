package registry

import (
	"fmt"
	"path/filepath"

	"github.com/iliyamo/smart-medicine-box/internal/model"
	"github.com/iliyamo/smart-medicine-box/internal/predictor"
)

// Kind distinguishes the two artifacts of a pair.
type Kind string

const (
	KindClassifier Kind = "clf"
	KindRegressor  Kind = "reg"
)

// PredictorPair is the classifier/regressor pair of one time period.
type PredictorPair struct {
	Classifier predictor.Predictor
	Regressor  predictor.Predictor
}

// Registry maps every known time period to its pair.
type Registry struct {
	pairs map[model.TimePeriod]PredictorPair
}

// Empty returns a registry with no models. The service stays up but
// refuses predictions.
func Empty() *Registry {
	return &Registry{pairs: map[model.TimePeriod]PredictorPair{}}
}

// New builds a registry from explicit pairs. Every period in
// model.TimePeriods must be present.
func New(pairs map[model.TimePeriod]PredictorPair) (*Registry, error) {
	out := make(map[model.TimePeriod]PredictorPair, len(pairs))
	for _, p := range model.TimePeriods() {
		pair, ok := pairs[p]
		if !ok || pair.Classifier == nil || pair.Regressor == nil {
			return nil, fmt.Errorf("missing predictor pair for %s", p)
		}
		out[p] = pair
	}
	return &Registry{pairs: out}, nil
}

// ArtifactPath returns the conventional file for a period and kind,
// e.g. model/model_clf_evening.json for the night classifier.
func ArtifactPath(dir string, period model.TimePeriod, kind Kind) string {
	return filepath.Join(dir, fmt.Sprintf("model_%s_%s.json", kind, period.ArtifactSuffix()))
}

// Load reads all six artifacts from dir. The first failure aborts the
// load with a *LoadError; no partial registry is returned.
func Load(dir string) (*Registry, error) {
	pairs := make(map[model.TimePeriod]PredictorPair, len(model.TimePeriods()))
	for _, period := range model.TimePeriods() {
		clf, err := loadOne(dir, period, KindClassifier)
		if err != nil {
			return nil, err
		}
		reg, err := loadOne(dir, period, KindRegressor)
		if err != nil {
			return nil, err
		}
		pairs[period] = PredictorPair{Classifier: clf, Regressor: reg}
	}
	return &Registry{pairs: pairs}, nil
}

func loadOne(dir string, period model.TimePeriod, kind Kind) (predictor.Predictor, error) {
	path := ArtifactPath(dir, period, kind)
	p, err := predictor.Load(path)
	if err != nil {
		return nil, &LoadError{Period: period, Kind: kind, Path: path, Err: err}
	}
	return p, nil
}

// Pair returns the predictors for period.
func (r *Registry) Pair(period model.TimePeriod) (PredictorPair, bool) {
	pair, ok := r.pairs[period]
	return pair, ok
}

// Loaded reports whether models are available.
func (r *Registry) Loaded() bool { return len(r.pairs) > 0 }

// Periods lists the registered periods in canonical order.
func (r *Registry) Periods() []model.TimePeriod {
	out := make([]model.TimePeriod, 0, len(r.pairs))
	for _, p := range model.TimePeriods() {
		if _, ok := r.pairs[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

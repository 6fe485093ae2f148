package model

// Feature column names. The order is shared with the training pipeline and
// must not change.
const (
	FeatureMorningTime    = "morning_time"
	FeatureAfternoonTime  = "afternoon_time"
	FeatureEveningTime    = "evening_time"
	FeatureTakenMorning   = "takenMorning"
	FeatureTakenAfternoon = "takenAfternoon"
	FeatureTakenEvening   = "takenEvening"
	FeatureDayOfWeek      = "day_of_week"
)

// FeatureNames returns the fixed feature schema in column order.
func FeatureNames() []string {
	return []string{
		FeatureMorningTime,
		FeatureAfternoonTime,
		FeatureEveningTime,
		FeatureTakenMorning,
		FeatureTakenAfternoon,
		FeatureTakenEvening,
		FeatureDayOfWeek,
	}
}

// FeatureRecord is the single-row input consumed by both predictors of a
// pair. It lives for one request.
//
// Fields:
//  MorningTime, AfternoonTime, EveningTime – scheduled dose times.
//  TakenMorning, TakenAfternoon, TakenEvening – 1 when the dose was taken.
//  DayOfWeek – day index as produced by the training data.
type FeatureRecord struct {
	MorningTime    float64 `json:"morning_time"`
	AfternoonTime  float64 `json:"afternoon_time"`
	EveningTime    float64 `json:"evening_time"`
	TakenMorning   float64 `json:"takenMorning"`
	TakenAfternoon float64 `json:"takenAfternoon"`
	TakenEvening   float64 `json:"takenEvening"`
	DayOfWeek      float64 `json:"day_of_week"`
}

// Vector returns the record values in FeatureNames order.
func (r FeatureRecord) Vector() []float64 {
	return []float64{
		r.MorningTime,
		r.AfternoonTime,
		r.EveningTime,
		r.TakenMorning,
		r.TakenAfternoon,
		r.TakenEvening,
		r.DayOfWeek,
	}
}

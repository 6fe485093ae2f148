package model

// PredictionResult is returned by POST /predict. It is produced once per
// request and never stored.
type PredictionResult struct {
	TimePeriod             TimePeriod `json:"time_period"`              // normalized bucket
	WillTakeMedicine       bool       `json:"will_take_medicine"`       // classifier outcome
	PredictedTimeMinutes   float64    `json:"predicted_time_minutes"`   // regressor outcome, minutes since midnight
	PredictedTimeFormatted string     `json:"predicted_time_formatted"` // HH:MM rendering of the minutes
}

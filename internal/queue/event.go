// Package queue defines message payloads exchanged over the message broker
// and the consumer that drains them.
package queue

// PredictionServedEvent is published after a successful /predict call so
// that reminder services can react to the forecast. It carries the
// outcome only; the feature values are not forwarded.
type PredictionServedEvent struct {
	EventID                string  `json:"event_id"`
	RequestID              string  `json:"request_id,omitempty"`
	DeviceID               string  `json:"device_id,omitempty"`
	TimePeriod             string  `json:"time_period"`
	WillTakeMedicine       bool    `json:"will_take_medicine"`
	PredictedTimeMinutes   float64 `json:"predicted_time_minutes"`
	PredictedTimeFormatted string  `json:"predicted_time_formatted"`
	ServedAt               string  `json:"served_at"`
}

// PredictionQueueName is the default queue for PredictionServedEvent.
const PredictionQueueName = "prediction.served"

package service

import "github.com/iliyamo/smart-medicine-box/internal/model"

// AssembleFeatures maps validated field values onto the fixed record. No
// derived features, normalization or imputation happen here.
func AssembleFeatures(fields map[string]float64) model.FeatureRecord {
	return model.FeatureRecord{
		MorningTime:    fields[model.FeatureMorningTime],
		AfternoonTime:  fields[model.FeatureAfternoonTime],
		EveningTime:    fields[model.FeatureEveningTime],
		TakenMorning:   fields[model.FeatureTakenMorning],
		TakenAfternoon: fields[model.FeatureTakenAfternoon],
		TakenEvening:   fields[model.FeatureTakenEvening],
		DayOfWeek:      fields[model.FeatureDayOfWeek],
	}
}

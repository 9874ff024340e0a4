package models

import "time"

type Forecast struct {
	TS           time.Time `gorm:"column:ts;primaryKey" json:"ts"`
	ModelVersion string    `gorm:"column:model_version;primaryKey" json:"model_version"`
	PredictedMW  float64   `gorm:"column:predicted_mw" json:"predicted_mw"`
	BatchID      string    `gorm:"column:batch_id" json:"batch_id"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Forecast) TableName() string { return "forecasts" }

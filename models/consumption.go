package models

import "time"

type ConsumptionReading struct {
	TS      time.Time `gorm:"column:ts;primaryKey" json:"ts"`
	MeterID string    `gorm:"column:meter_id;primaryKey" json:"meter_id"`
	Region  string    `gorm:"column:region" json:"region"`
	LoadMW  float64   `gorm:"column:load_mw" json:"load_mw"`
}

func (ConsumptionReading) TableName() string { return "consumption_raw" }

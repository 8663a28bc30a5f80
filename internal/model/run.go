package model

import "time"

// Run is a persisted summary of one classification pass.
type Run struct {
	StartedAt   time.Time          `json:"started_at"`
	Counts      map[ScaleLevel]int `json:"counts"`
	InputPath   string             `json:"input_path"`
	OutputPath  string             `json:"output_path"`
	RulesPath   string             `json:"rules_path"`
	Unit        Unit               `json:"unit"`
	ID          int64              `json:"id"`
	Duration    time.Duration      `json:"duration"`
	RecordCount int                `json:"record_count"`
	RuleCount   int                `json:"rule_count"`
	Skipped     int                `json:"skipped_sections"`
	EvalErrors  int                `json:"eval_errors"`
}

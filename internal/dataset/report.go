package dataset

import "time"

// Report summarizes a completed generation run.
type Report struct {
	RunID string `json:"run_id"`
	Seed  int64  `json:"seed"`

	Customers int `json:"customers"`
	Products  int `json:"products"`
	Orders    int `json:"orders"`
	Events    int `json:"events"`

	// Batches is the number of InsertMany calls issued.
	Batches int `json:"batches"`

	Duration  time.Duration `json:"duration"`
	InsertP50 time.Duration `json:"insert_p50"`
	InsertP95 time.Duration `json:"insert_p95"`
	InsertP99 time.Duration `json:"insert_p99"`
}

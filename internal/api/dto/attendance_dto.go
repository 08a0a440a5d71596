package dto

import "time"

// StatusResponse describes the reconciled attendance status.
type StatusResponse struct {
	Status      string     `json:"status"`
	EntryCount  int        `json:"entry_count"`
	LastKind    *string    `json:"last_kind,omitempty"`
	LastStamped *time.Time `json:"last_stamped_at,omitempty"`
}

// ActionResponse describes the outcome of a stamp or clock-out.
type ActionResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// SummaryBucket is one aggregated total. Milliseconds keeps parity with
// the worked-duration unit the engine accumulates in.
type SummaryBucket struct {
	Key          string `json:"key"`
	Milliseconds int64  `json:"ms"`
	Pretty       string `json:"pretty"`
}

// SummaryResponse carries daily, weekly and monthly worked totals.
type SummaryResponse struct {
	Daily     []SummaryBucket `json:"daily"`
	Weekly    []SummaryBucket `json:"weekly"`
	Monthly   []SummaryBucket `json:"monthly"`
	TotalMs   int64           `json:"total_ms"`
	Anomalies int             `json:"anomalies,omitempty"`
}

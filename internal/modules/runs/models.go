// Package runs persists completed simulations so results can be listed,
// re-inspected and exported after the fact.
package runs

import (
	"encoding/json"
	"time"

	"github.com/openquantum/nanocell/internal/modules/nanobot"
	"github.com/openquantum/nanocell/internal/modules/reprogramming"
)

// Kind identifies which model produced a run.
type Kind string

const (
	KindReprogramming Kind = "reprogramming"
	KindDelivery      Kind = "delivery"
)

// Run is one persisted simulation run. Samples holds the delivery
// trajectory and is empty for reprogramming runs.
type Run struct {
	ID        string           `json:"id"`
	Kind      Kind             `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
	Params    json.RawMessage  `json:"params"`
	Summary   json.RawMessage  `json:"summary"`
	Samples   []nanobot.Sample `json:"samples,omitempty"`
}

// Info is the listing view of a run, without the trajectory payload.
type Info struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Summary   json.RawMessage `json:"summary"`
}

// ReprogrammingParams are the persisted inputs of a reprogramming run.
type ReprogrammingParams struct {
	Factors reprogramming.Factors `json:"factors"`
	Seed    int64                 `json:"seed"`
	Shots   int                   `json:"shots"`
}

// ReprogrammingSummary is the persisted outcome of a reprogramming run.
type ReprogrammingSummary struct {
	SuccessProbability float64                    `json:"success_probability"`
	Shots              int                        `json:"shots"`
	Seed               int64                      `json:"seed"`
	Histogram          []reprogramming.StateCount `json:"histogram"`
}

// DeliveryParams are the persisted inputs of a delivery run.
type DeliveryParams struct {
	SizeNm  float64             `json:"size_nm"`
	Payload nanobot.PayloadType `json:"payload"`
	Target  [3]float64          `json:"target"`
	Seed    int64               `json:"seed"`
}

// DeliverySummary is the persisted outcome of a delivery run.
type DeliverySummary struct {
	Mechanism         nanobot.Mechanism          `json:"delivery_mechanism"`
	OverallEfficiency float64                    `json:"overall_efficiency"`
	Steps             int                        `json:"steps"`
	TargetReached     bool                       `json:"target_reached"`
	FinalDistance     float64                    `json:"final_distance"`
	SuccessRate       float64                    `json:"success_rate"`
	Analysis          nanobot.TrajectoryAnalysis `json:"trajectory_analysis"`
}

// Package nanobot implements the nanobot delivery model: design of a
// delivery agent from size and payload parameters, and simulation of its
// transport through a cellular environment toward a target.
package nanobot

import (
	"fmt"
	"math"
)

// Size bounds in nanometers.
const (
	MinSize = 5.0
	MaxSize = 100.0
)

// Dimensions of the simulated environment.
const Dimensions = 3

// PayloadType enumerates the supported therapeutic payloads.
type PayloadType string

const (
	PayloadMRNA           PayloadType = "mRNA"
	PayloadProteins       PayloadType = "proteins"
	PayloadPlasmids       PayloadType = "plasmids"
	PayloadSmallMolecules PayloadType = "small_molecules"
)

// PayloadTypes lists all supported payload types in display order.
func PayloadTypes() []PayloadType {
	return []PayloadType{PayloadMRNA, PayloadProteins, PayloadPlasmids, PayloadSmallMolecules}
}

// Mechanism is the delivery mechanism selected for a nanobot size.
type Mechanism string

const (
	MechanismPassiveDiffusion Mechanism = "passive_diffusion"
	MechanismActiveTransport  Mechanism = "active_transport"
	MechanismGuidedPropulsion Mechanism = "guided_propulsion"
)

// Config holds the parameters of one design/delivery run.
type Config struct {
	Size     float64     `json:"size_nm"`
	Payload  PayloadType `json:"payload"`
	Target   *[3]float64 `json:"target,omitempty"`    // delivery target; derived from the seed when absent
	Seed     *int64      `json:"seed,omitempty"`      // RNG seed; time-derived when absent
	MaxSteps int         `json:"max_steps,omitempty"` // integration step cap; service default when zero
}

// Validate checks size bounds and payload type.
func (c Config) Validate() error {
	if math.IsNaN(c.Size) || math.IsInf(c.Size, 0) {
		return fmt.Errorf("size must be finite")
	}
	if c.Size < MinSize || c.Size > MaxSize {
		return fmt.Errorf("size must be between %g and %g nm, got %g", MinSize, MaxSize, c.Size)
	}
	if c.Payload == "" {
		return fmt.Errorf("payload type is required")
	}
	return nil
}

// PayloadFactors describe how a payload type affects delivery.
type PayloadFactors struct {
	Weight    float64 `json:"weight"`
	Stability float64 `json:"stability"`
	Diffusion float64 `json:"diffusion"`
}

// EfficiencyBreakdown decomposes the overall efficiency into its factors.
// All scores are in [0,1].
type EfficiencyBreakdown struct {
	Base                  float64            `json:"base_efficiency"`
	SizeFactor            float64            `json:"size_factor"`
	PayloadFactors        PayloadFactors     `json:"payload_factors"`
	PayloadEfficiency     float64            `json:"payload_efficiency"`
	EnvironmentalFactors  map[string]float64 `json:"environmental_factors"`
	EnvironmentEfficiency float64            `json:"environment_efficiency"`
	Overall               float64            `json:"overall_efficiency"`
}

// SurfaceChemistry describes the payload-dependent surface properties.
type SurfaceChemistry struct {
	Charge         string `json:"charge"`
	Hydrophobicity string `json:"hydrophobicity"`
}

// Coating describes the protective coating applied to the nanobot.
type Coating struct {
	Material        string  `json:"material"`
	ThicknessNm     float64 `json:"thickness_nm"`
	DegradationRate string  `json:"degradation_rate"`
}

// StabilityParameters are the storage and handling constraints.
type StabilityParameters struct {
	TemperatureMinC int     `json:"temperature_min_c"`
	TemperatureMaxC int     `json:"temperature_max_c"`
	PHMin           float64 `json:"ph_min"`
	PHMax           float64 `json:"ph_max"`
	ShelfLifeDays   int     `json:"shelf_life_days"`
	ZetaPotentialMV int     `json:"zeta_potential_mv"`
}

// DesignSpecs bundles manufacturing-facing design output.
type DesignSpecs struct {
	SurfaceChemistry      SurfaceChemistry    `json:"surface_chemistry"`
	Coating               Coating             `json:"coating_requirements"`
	Stability             StabilityParameters `json:"stability_parameters"`
	ManufacturingProtocol []string            `json:"manufacturing_protocol"`
}

// Design is a fully specified nanobot.
type Design struct {
	Size       float64             `json:"size_nm"`
	Payload    PayloadType         `json:"payload"`
	Mechanism  Mechanism           `json:"delivery_mechanism"`
	Efficiency EfficiencyBreakdown `json:"efficiency"`
	Specs      DesignSpecs         `json:"design_specs"`
}

// Sample is one trajectory point: position after the step and the scalar
// velocity the step was taken with.
type Sample struct {
	Step     int        `json:"step"`
	Position [3]float64 `json:"position"`
	Velocity float64    `json:"velocity"`
}

// EnvironmentalImpact summarizes the per-step environmental effects.
type EnvironmentalImpact struct {
	BrownianIntensity           float64 `json:"brownian_intensity"`
	ResistanceImpact            float64 `json:"resistance_impact"`
	CellularInteractionStrength float64 `json:"cellular_interaction_strength"`
}

// TrajectoryAnalysis carries derived statistics for a completed trajectory.
type TrajectoryAnalysis struct {
	TotalDistance       float64             `json:"total_distance"`
	AverageVelocity     float64             `json:"average_velocity"`
	VelocityVariance    float64             `json:"velocity_variance"`
	PathLinearity       float64             `json:"path_linearity"`
	EnvironmentalImpact EnvironmentalImpact `json:"environmental_impact"`
}

// DeliveryResult is the outcome of one delivery simulation.
type DeliveryResult struct {
	Design        *Design            `json:"design"`
	Target        [3]float64         `json:"target"`
	Seed          int64              `json:"seed"`
	Steps         int                `json:"steps"`
	TargetReached bool               `json:"target_reached"`
	FinalDistance float64            `json:"final_distance"`
	SuccessRate   float64            `json:"success_rate"`
	Samples       []Sample           `json:"samples"`
	Analysis      TrajectoryAnalysis `json:"trajectory_analysis"`
}

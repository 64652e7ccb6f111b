package nanobot

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/openquantum/nanocell/pkg/formulas"
)

const baseEfficiency = 0.9

// payloadTable maps payload types to their delivery factors. Heavier,
// less stable payloads lower the efficiency score.
var payloadTable = map[PayloadType]PayloadFactors{
	PayloadSmallMolecules: {Weight: 0.1, Stability: 0.95, Diffusion: 0.9},
	PayloadMRNA:           {Weight: 0.3, Stability: 0.7, Diffusion: 0.8},
	PayloadProteins:       {Weight: 0.5, Stability: 0.8, Diffusion: 0.7},
	PayloadPlasmids:       {Weight: 0.7, Stability: 0.6, Diffusion: 0.5},
}

// environmentalFactors are the fixed environment attenuation scores.
var environmentalFactors = map[string]float64{
	"ph_sensitivity":         0.95,
	"temperature_stability":  0.90,
	"cellular_barriers":      0.85,
	"degradation_resistance": 0.88,
}

// Designer produces nanobot designs from size and payload parameters.
type Designer struct {
	log zerolog.Logger
}

// NewDesigner creates a new designer.
func NewDesigner(log zerolog.Logger) *Designer {
	return &Designer{log: log.With().Str("service", "nanobot_designer").Logger()}
}

// FactorsFor returns the delivery factors for a payload type. Unknown
// payloads fall back to mRNA, the reference payload.
func FactorsFor(payload PayloadType) PayloadFactors {
	if f, ok := payloadTable[payload]; ok {
		return f
	}
	return payloadTable[PayloadMRNA]
}

// Design assembles a complete nanobot design for the config.
func (d *Designer) Design(cfg Config) (*Design, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	efficiency := calculateEfficiency(cfg.Size, cfg.Payload)
	mechanism := selectMechanism(cfg.Size)

	design := &Design{
		Size:       cfg.Size,
		Payload:    cfg.Payload,
		Mechanism:  mechanism,
		Efficiency: efficiency,
		Specs:      buildDesignSpecs(cfg.Size, cfg.Payload),
	}

	d.log.Debug().
		Float64("size_nm", cfg.Size).
		Str("payload", string(cfg.Payload)).
		Str("mechanism", string(mechanism)).
		Float64("efficiency", efficiency.Overall).
		Msg("Nanobot design completed")

	return design, nil
}

// calculateEfficiency computes the per-factor breakdown and overall score.
// The size factor is a Gaussian peaking at 30 nm with width 800 nm².
func calculateEfficiency(size float64, payload PayloadType) EfficiencyBreakdown {
	sizeFactor := math.Exp(-(size - 30) * (size - 30) / 800)

	pf := FactorsFor(payload)
	payloadEfficiency := (1.0 - pf.Weight) * pf.Stability * pf.Diffusion

	envValues := make([]float64, 0, len(environmentalFactors))
	for _, v := range environmentalFactors {
		envValues = append(envValues, v)
	}
	envEfficiency := formulas.Mean(envValues)

	// Copy so callers can't mutate the shared table
	envCopy := make(map[string]float64, len(environmentalFactors))
	for k, v := range environmentalFactors {
		envCopy[k] = v
	}

	return EfficiencyBreakdown{
		Base:                  baseEfficiency,
		SizeFactor:            sizeFactor,
		PayloadFactors:        pf,
		PayloadEfficiency:     payloadEfficiency,
		EnvironmentalFactors:  envCopy,
		EnvironmentEfficiency: envEfficiency,
		Overall:               baseEfficiency * sizeFactor * payloadEfficiency * envEfficiency,
	}
}

// selectMechanism picks the delivery mechanism appropriate for the size.
func selectMechanism(size float64) Mechanism {
	switch {
	case size < 10:
		return MechanismPassiveDiffusion
	case size < 50:
		return MechanismActiveTransport
	default:
		return MechanismGuidedPropulsion
	}
}

// surfaceTable maps payload types to surface chemistry requirements.
var surfaceTable = map[PayloadType]SurfaceChemistry{
	PayloadSmallMolecules: {Charge: "neutral", Hydrophobicity: "moderate"},
	PayloadMRNA:           {Charge: "positive", Hydrophobicity: "low"},
	PayloadProteins:       {Charge: "variable", Hydrophobicity: "moderate"},
	PayloadPlasmids:       {Charge: "positive", Hydrophobicity: "low"},
}

func buildDesignSpecs(size float64, payload PayloadType) DesignSpecs {
	surface, ok := surfaceTable[payload]
	if !ok {
		surface = surfaceTable[PayloadMRNA]
	}

	return DesignSpecs{
		SurfaceChemistry: surface,
		Coating: Coating{
			Material:        "PEG",
			ThicknessNm:     size * 0.1,
			DegradationRate: "0.1nm/hour",
		},
		Stability: StabilityParameters{
			TemperatureMinC: 4,
			TemperatureMaxC: 40,
			PHMin:           6.5,
			PHMax:           7.5,
			ShelfLifeDays:   30,
			ZetaPotentialMV: -30,
		},
		ManufacturingProtocol: []string{
			"Prepare biocompatible polymer solution",
			"Add payload under controlled conditions",
			"Perform nanoprecipitation",
			"Apply surface coating",
			"Purify using tangential flow filtration",
			"Perform quality control",
		},
	}
}

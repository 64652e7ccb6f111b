package nanobot

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid mid-range", Config{Size: 30, Payload: PayloadMRNA}, false},
		{"minimum size", Config{Size: MinSize, Payload: PayloadProteins}, false},
		{"maximum size", Config{Size: MaxSize, Payload: PayloadPlasmids}, false},
		{"below minimum", Config{Size: 4.9, Payload: PayloadMRNA}, true},
		{"above maximum", Config{Size: 100.1, Payload: PayloadMRNA}, true},
		{"missing payload", Config{Size: 30}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDesign_EfficiencyBreakdown(t *testing.T) {
	d := NewDesigner(testLogger())

	design, err := d.Design(Config{Size: 30, Payload: PayloadSmallMolecules})
	require.NoError(t, err)

	// At 30 nm the Gaussian size factor peaks at exactly 1.
	assert.InDelta(t, 1.0, design.Efficiency.SizeFactor, 1e-12)

	// (1 - 0.1) * 0.95 * 0.9
	assert.InDelta(t, 0.7695, design.Efficiency.PayloadEfficiency, 1e-12)

	// mean of 0.95, 0.90, 0.85, 0.88
	assert.InDelta(t, 0.895, design.Efficiency.EnvironmentEfficiency, 1e-12)

	expected := 0.9 * 1.0 * 0.7695 * 0.895
	assert.InDelta(t, expected, design.Efficiency.Overall, 1e-12)
}

func TestDesign_EfficiencyDeterministic(t *testing.T) {
	d := NewDesigner(testLogger())

	for _, payload := range PayloadTypes() {
		first, err := d.Design(Config{Size: 42, Payload: payload})
		require.NoError(t, err)
		second, err := d.Design(Config{Size: 42, Payload: payload})
		require.NoError(t, err)

		assert.Equal(t, first.Efficiency, second.Efficiency, "payload %s", payload)
	}
}

func TestDesign_EfficiencyBounds(t *testing.T) {
	d := NewDesigner(testLogger())

	for size := MinSize; size <= MaxSize; size += 5 {
		for _, payload := range PayloadTypes() {
			design, err := d.Design(Config{Size: size, Payload: payload})
			require.NoError(t, err)

			assert.GreaterOrEqual(t, design.Efficiency.Overall, 0.0)
			assert.LessOrEqual(t, design.Efficiency.Overall, 1.0)
		}
	}
}

func TestSelectMechanism(t *testing.T) {
	tests := []struct {
		size float64
		want Mechanism
	}{
		{5, MechanismPassiveDiffusion},
		{9.9, MechanismPassiveDiffusion},
		{10, MechanismActiveTransport},
		{49.9, MechanismActiveTransport},
		{50, MechanismGuidedPropulsion},
		{100, MechanismGuidedPropulsion},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, selectMechanism(tt.size), "size %g", tt.size)
	}
}

func TestFactorsFor_UnknownPayloadFallsBack(t *testing.T) {
	assert.Equal(t, payloadTable[PayloadMRNA], FactorsFor(PayloadType("exosomes")))
}

func TestDesign_Specs(t *testing.T) {
	d := NewDesigner(testLogger())

	design, err := d.Design(Config{Size: 50, Payload: PayloadMRNA})
	require.NoError(t, err)

	assert.Equal(t, "PEG", design.Specs.Coating.Material)
	assert.InDelta(t, 5.0, design.Specs.Coating.ThicknessNm, 1e-12)
	assert.Equal(t, "positive", design.Specs.SurfaceChemistry.Charge)
	assert.NotEmpty(t, design.Specs.ManufacturingProtocol)
}

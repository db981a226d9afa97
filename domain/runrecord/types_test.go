package runrecord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nomengine/domain/core"
	"nomengine/domain/encoding"
)

func validConfig() RunConfig {
	cfg := Preset(ModeDaily)
	cfg.Domains = []core.DomainKey{"alpha"}
	return cfg
}

func TestPresetShapes(t *testing.T) {
	daily := Preset(ModeDaily)
	assert.Equal(t, ModeDaily, daily.Mode)
	assert.Equal(t, 60, daily.Generations)
	assert.Equal(t, 150, daily.DefaultSampleSize)
	assert.Equal(t, 90*time.Minute, daily.WallClockBudget)

	weekly := Preset(ModeWeekly)
	assert.Equal(t, ModeWeekly, weekly.Mode)
	assert.Equal(t, 200, weekly.Generations)
	assert.Equal(t, 500, weekly.DefaultSampleSize)
	assert.Equal(t, 10*time.Hour, weekly.WallClockBudget)

	// modes differ only in the growth knobs
	assert.Equal(t, daily.PopulationSize, weekly.PopulationSize)
	assert.Equal(t, daily.EliteFraction, weekly.EliteFraction)
	assert.Equal(t, daily.MutationRate, weekly.MutationRate)
	assert.Equal(t, encoding.AllSchemes(), daily.Schemes)

	// an unknown mode falls back to daily
	fallback := Preset(Mode("hourly"))
	assert.Equal(t, ModeDaily, fallback.Mode)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"no domains", func(c *RunConfig) { c.Domains = nil }},
		{"no schemes", func(c *RunConfig) { c.Schemes = nil }},
		{"unknown scheme", func(c *RunConfig) { c.Schemes = []encoding.Scheme{"astral"} }},
		{"zero generations", func(c *RunConfig) { c.Generations = 0 }},
		{"population of one", func(c *RunConfig) { c.PopulationSize = 1 }},
		{"elite fraction one", func(c *RunConfig) { c.EliteFraction = 1.0 }},
		{"zero sample", func(c *RunConfig) { c.DefaultSampleSize = 0 }},
		{"zero workers", func(c *RunConfig) { c.Workers = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.True(t, core.IsConfigInvalid(err))
		})
	}
}

func TestSampleSizeResolution(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultSampleSize = 150
	cfg.SampleSizePerDomain = map[core.DomainKey]int{"big": 500}

	assert.Equal(t, 500, cfg.SampleSize("big"))
	assert.Equal(t, 150, cfg.SampleSize("other"))
}

func TestRunRecordWarnings(t *testing.T) {
	var r RunRecord
	r.AddWarning("first")
	r.AddWarning("second")
	assert.Equal(t, []string{"first", "second"}, r.Warnings)
}

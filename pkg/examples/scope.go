package examples

import (
	"fmt"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
	"github.com/lynq-instruments/lynq-go/pkg/provider/sim"
)

// ScopeConfig sizes an oscilloscope profile.
type ScopeConfig struct {
	Serial string

	ChannelCount int

	// SampleCount is the length of the initial wave on each channel.
	SampleCount int
}

// DefaultScopeConfig returns the configuration of a two-channel scope.
func DefaultScopeConfig(serial string) ScopeConfig {
	return ScopeConfig{Serial: serial, ChannelCount: 2, SampleCount: 16}
}

// NewScope builds a simulated oscilloscope with vector wave nodes. Each
// channel carries a CBOR-encoded wave, an enable switch and a sampling
// rate setting.
func NewScope(cfg ScopeConfig) (*sim.Instrument, error) {
	dev := "/" + cfg.Serial
	f := sim.Fixture{Serial: cfg.Serial}

	f.Nodes = append(f.Nodes, sim.FixtureNode{
		Path: dev + "/features/serial", Description: "Device serial number.",
		Type: provider.TypeString, Properties: "Read", Default: cfg.Serial,
	})

	wave := make([]float64, cfg.SampleCount)
	for i := range wave {
		wave[i] = float64(i) / float64(cfg.SampleCount)
	}

	for i := 0; i < cfg.ChannelCount; i++ {
		base := fmt.Sprintf("%s/scopes/%d", dev, i)
		f.Nodes = append(f.Nodes,
			sim.FixtureNode{
				Path: base + "/enable", Description: "Enables the channel.",
				Type: provider.TypeInteger, Properties: "Read, Write, Setting",
				Options: map[int]string{
					0: `"off": Channel disabled.`,
					1: `"on": Channel enabled.`,
				},
			},
			sim.FixtureNode{
				Path: base + "/rate", Description: "Sampling rate.",
				Type: provider.TypeDouble, Properties: "Read, Write, Setting",
				Unit: "1/s", Default: 6e7,
			},
			sim.FixtureNode{
				Path: base + "/wave", Description: "Acquired waveform.",
				Type: provider.TypeVector, Properties: "Read, Write",
				Vector: wave,
			},
		)
	}

	return sim.FromFixture(f)
}

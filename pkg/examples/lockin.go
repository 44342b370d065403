package examples

import (
	"fmt"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
	"github.com/lynq-instruments/lynq-go/pkg/provider/sim"
)

// LockInConfig sizes a lock-in amplifier profile.
type LockInConfig struct {
	Serial string

	DemodCount      int
	OscillatorCount int
	SignalInputs    int

	// DefaultRate is the initial demodulator sampling rate in 1/s.
	DefaultRate float64
}

// DefaultLockInConfig returns the configuration of a typical two-channel
// lock-in amplifier.
func DefaultLockInConfig(serial string) LockInConfig {
	return LockInConfig{
		Serial:          serial,
		DemodCount:      2,
		OscillatorCount: 2,
		SignalInputs:    1,
		DefaultRate:     1674.0,
	}
}

// NewLockInAmplifier builds a simulated lock-in amplifier. The node layout
// follows the usual device convention: repeated channel groups indexed
// from zero, persistent settings marked as such, and one streaming sample
// node per demodulator.
func NewLockInAmplifier(cfg LockInConfig) (*sim.Instrument, error) {
	dev := "/" + cfg.Serial
	f := sim.Fixture{Serial: cfg.Serial}

	f.Nodes = append(f.Nodes,
		sim.FixtureNode{
			Path: dev + "/features/serial", Description: "Device serial number.",
			Type: provider.TypeString, Properties: "Read", Default: cfg.Serial,
		},
		sim.FixtureNode{
			Path: dev + "/features/devtype", Description: "Device type identifier.",
			Type: provider.TypeString, Properties: "Read", Default: "lockin",
		},
		sim.FixtureNode{
			Path: dev + "/status/time", Description: "Instrument clock ticks.",
			Type: provider.TypeInteger, Properties: "Read",
		},
	)

	for i := 0; i < cfg.DemodCount; i++ {
		base := fmt.Sprintf("%s/demods/%d", dev, i)
		f.Nodes = append(f.Nodes,
			sim.FixtureNode{
				Path: base + "/enable", Description: "Enables the demodulator data stream.",
				Type: provider.TypeInteger, Properties: "Read, Write, Setting",
				Options: map[int]string{
					0: `"off": Data stream disabled.`,
					1: `"on": Data stream enabled.`,
				},
			},
			sim.FixtureNode{
				Path: base + "/rate", Description: "Demodulator sampling rate.",
				Type: provider.TypeDouble, Properties: "Read, Write, Setting",
				Unit: "1/s", Default: cfg.DefaultRate,
			},
			sim.FixtureNode{
				Path: base + "/order", Description: "Low-pass filter order.",
				Type: provider.TypeInteger, Properties: "Read, Write, Setting", Default: 3,
			},
			sim.FixtureNode{
				Path: base + "/timeconstant", Description: "Low-pass filter time constant.",
				Type: provider.TypeDouble, Properties: "Read, Write, Setting",
				Unit: "s", Default: 0.001,
			},
			sim.FixtureNode{
				Path: base + "/trigger", Description: "Demodulator trigger mode.",
				Type: provider.TypeInteger, Properties: "Read, Write, Setting",
				Options: map[int]string{
					0: `"continuous": Continuous triggering.`,
					1: `"edge", "edge_rising": Rising edge triggering.`,
					2: `"edge_falling": Falling edge triggering.`,
				},
			},
			sim.FixtureNode{
				Path: base + "/sample", Description: "Demodulator output sample.",
				Type: provider.TypeDemodSample, Properties: "Read",
			},
		)
	}

	for i := 0; i < cfg.OscillatorCount; i++ {
		f.Nodes = append(f.Nodes, sim.FixtureNode{
			Path: fmt.Sprintf("%s/oscs/%d/freq", dev, i), Description: "Oscillator frequency.",
			Type: provider.TypeDouble, Properties: "Read, Write, Setting",
			Unit: "Hz", Default: 1e5,
		})
	}

	for i := 0; i < cfg.SignalInputs; i++ {
		base := fmt.Sprintf("%s/sigins/%d", dev, i)
		f.Nodes = append(f.Nodes,
			sim.FixtureNode{
				// The trailing path segment collides with a reserved
				// identifier; node handles may address it either way.
				Path: base + "/range", Description: "Input voltage range.",
				Type: provider.TypeDouble, Properties: "Read, Write, Setting",
				Unit: "V", Default: 1.0,
			},
			sim.FixtureNode{
				Path: base + "/ac", Description: "AC coupling.",
				Type: provider.TypeInteger, Properties: "Read, Write, Setting",
				Options: map[int]string{
					0: `"dc": DC coupling.`,
					1: `"ac": AC coupling.`,
				},
			},
		)
	}

	return sim.FromFixture(f)
}

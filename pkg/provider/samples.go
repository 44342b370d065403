package provider

// DemodSample is one demodulator output sample.
type DemodSample struct {
	// Timestamp is the instrument clock tick of the sample.
	Timestamp uint64

	// X and Y are the demodulated quadrature components.
	X float64
	Y float64

	// Frequency is the oscillator frequency at sample time (Hz).
	Frequency float64

	// Phase is the oscillator phase at sample time (rad).
	Phase float64

	// DIOBits is the state of the digital I/O lines.
	DIOBits uint32

	// Trigger is the trigger input state.
	Trigger uint32

	// AuxIn0 and AuxIn1 are the auxiliary analog inputs (V).
	AuxIn0 float64
	AuxIn1 float64
}

// DIOSample is one digital I/O snapshot.
type DIOSample struct {
	// Timestamp is the instrument clock tick of the sample.
	Timestamp uint64

	// Bits is the state of the digital I/O lines.
	Bits uint32
}

// AdvisorWave is a simulated transfer-function wave produced by the
// instrument's advisor.
type AdvisorWave struct {
	// Grid holds the frequency grid points (Hz).
	Grid []float64

	// X and Y are the response values per grid point.
	X []float64
	Y []float64
}

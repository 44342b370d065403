package sim

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	vectorEncMode cbor.EncMode
	vectorDecMode cbor.DecMode
)

func init() {
	var err error
	vectorEncMode, err = cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("sim: creating vector encode mode: %v", err))
	}
	vectorDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("sim: creating vector decode mode: %v", err))
	}
}

// EncodeVector encodes samples as a CBOR array, the payload format vector
// nodes carry on the wire.
func EncodeVector(samples []float64) ([]byte, error) {
	data, err := vectorEncMode.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("encoding vector of %d samples: %w", len(samples), err)
	}
	return data, nil
}

// DecodeVector decodes a CBOR array payload back into samples.
func DecodeVector(data []byte) ([]float64, error) {
	var samples []float64
	if err := vectorDecMode.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("decoding vector payload: %w", err)
	}
	return samples, nil
}

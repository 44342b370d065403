package provider

// Type tag strings reported in metadata listings. Each leaf node declares
// exactly one of these.
const (
	TypeInteger       = "Integer"
	TypeDouble        = "Double"
	TypeString        = "String"
	TypeVector        = "Vector"
	TypeComplexDouble = "ComplexDouble"
	TypeDemodSample   = "DemodSample"
	TypeDIOSample     = "DIOSample"
	TypeAdvisorWave   = "AdvisorWave"
)

// Metadata is the JSON document the instrument reports for one leaf node.
//
// Properties is a comma-separated subset of {Read, Write, Setting}.
// Options maps the decimal string of an enum value to its description in
// the form `"keyword"[, "alias"]: description`.
type Metadata struct {
	Node        string            `json:"Node"`
	Description string            `json:"Description"`
	Type        string            `json:"Type"`
	Properties  string            `json:"Properties"`
	Unit        string            `json:"Unit"`
	Options     map[string]string `json:"Options,omitempty"`
}

package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lynq-instruments/lynq-go/pkg/provider"
)

// TypeTag identifies the wire encoding of a node's value.
type TypeTag uint8

const (
	TypeUnknown TypeTag = iota
	TypeInteger
	TypeDouble
	TypeString
	TypeVector
	TypeComplexDouble
	TypeDemodSample
	TypeDIOSample
	TypeAdvisorWave
)

// String returns the metadata tag string for t.
func (t TypeTag) String() string {
	switch t {
	case TypeInteger:
		return provider.TypeInteger
	case TypeDouble:
		return provider.TypeDouble
	case TypeString:
		return provider.TypeString
	case TypeVector:
		return provider.TypeVector
	case TypeComplexDouble:
		return provider.TypeComplexDouble
	case TypeDemodSample:
		return provider.TypeDemodSample
	case TypeDIOSample:
		return provider.TypeDIOSample
	case TypeAdvisorWave:
		return provider.TypeAdvisorWave
	default:
		return "Unknown"
	}
}

// ParseTypeTag maps a metadata tag string to its TypeTag.
func ParseTypeTag(s string) (TypeTag, error) {
	switch s {
	case provider.TypeInteger:
		return TypeInteger, nil
	case provider.TypeDouble:
		return TypeDouble, nil
	case provider.TypeString:
		return TypeString, nil
	case provider.TypeVector:
		return TypeVector, nil
	case provider.TypeComplexDouble:
		return TypeComplexDouble, nil
	case provider.TypeDemodSample:
		return TypeDemodSample, nil
	case provider.TypeDIOSample:
		return TypeDIOSample, nil
	case provider.TypeAdvisorWave:
		return TypeAdvisorWave, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown type tag %q", s)
	}
}

// Properties is the access flag set of a node.
type Properties uint8

const (
	// PropRead allows reading the node.
	PropRead Properties = 1 << iota

	// PropWrite allows writing the node.
	PropWrite

	// PropSetting marks the node as a persistent device setting.
	PropSetting
)

// CanRead returns true if reading is allowed.
func (p Properties) CanRead() bool { return p&PropRead != 0 }

// CanWrite returns true if writing is allowed.
func (p Properties) CanWrite() bool { return p&PropWrite != 0 }

// IsSetting returns true if the node is a device setting.
func (p Properties) IsSetting() bool { return p&PropSetting != 0 }

// String returns the comma-separated metadata form, e.g. "Read, Write".
func (p Properties) String() string {
	var parts []string
	if p.CanRead() {
		parts = append(parts, "Read")
	}
	if p.CanWrite() {
		parts = append(parts, "Write")
	}
	if p.IsSetting() {
		parts = append(parts, "Setting")
	}
	return strings.Join(parts, ", ")
}

// ParseProperties parses the comma-separated metadata form. Unknown flags
// are ignored for forward compatibility.
func ParseProperties(s string) Properties {
	var p Properties
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "Read":
			p |= PropRead
		case "Write":
			p |= PropWrite
		case "Setting":
			p |= PropSetting
		}
	}
	return p
}

// Parser transforms a raw node value on the read path, e.g. scaling a
// count into a physical unit. Attached via Update fields.
type Parser func(value any) any

// Entry is the metadata record of one leaf node.
type Entry struct {
	// Path is the normalized absolute path (lowercase, escaped).
	Path string

	// Description is the human-readable node description.
	Description string

	// Type is the wire encoding of the node's value.
	Type TypeTag

	// Properties are the access flags.
	Properties Properties

	// Unit is the unit of measurement (e.g. "Hz", "V").
	Unit string

	// Options maps enum values to their declared descriptions in the
	// form `"keyword"[, "alias"]: description`.
	Options map[int64]string

	// Parser is an optional read-path value transformation.
	Parser Parser

	// Lazily derived keyword mapping; reset when Options change.
	enumMu  sync.Mutex
	enum    *EnumMap
	enumSet bool
}

// Enum returns the keyword mapping derived from Options. The mapping is
// computed once and cached; it is nil for entries without options.
func (e *Entry) Enum() *EnumMap {
	e.enumMu.Lock()
	defer e.enumMu.Unlock()
	if !e.enumSet {
		e.enum = newEnumMap(e.Options)
		e.enumSet = true
	}
	return e.enum
}

// resetEnum discards the cached keyword mapping after an Options update.
func (e *Entry) resetEnum() {
	e.enumMu.Lock()
	defer e.enumMu.Unlock()
	e.enum = nil
	e.enumSet = false
}

// entryFromMetadata converts a provider metadata document into an Entry.
// The path must already be normalized.
func entryFromMetadata(path string, meta provider.Metadata) (*Entry, error) {
	tag, err := ParseTypeTag(meta.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var options map[int64]string
	if len(meta.Options) > 0 {
		options = make(map[int64]string, len(meta.Options))
		for k, v := range meta.Options {
			n, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: option key %q is not an integer", path, k)
			}
			options[n] = v
		}
	}

	return &Entry{
		Path:        path,
		Description: meta.Description,
		Type:        tag,
		Properties:  ParseProperties(meta.Properties),
		Unit:        meta.Unit,
		Options:     options,
	}, nil
}

package catalog

import (
	"sort"
	"strings"
)

// EnumMap is the bidirectional integer/keyword mapping derived from an
// entry's declared options. Decoding an integer with no declared keyword
// is left to the caller; the map itself only answers what is declared.
type EnumMap struct {
	byValue   map[int64]string
	byKeyword map[string]int64
	keywords  []string
}

// newEnumMap derives the mapping from raw option descriptions. Returns nil
// when options is empty.
func newEnumMap(options map[int64]string) *EnumMap {
	if len(options) == 0 {
		return nil
	}

	m := &EnumMap{
		byValue:   make(map[int64]string, len(options)),
		byKeyword: make(map[string]int64),
	}
	for value, desc := range options {
		keywords := parseOptionKeywords(desc)
		if len(keywords) == 0 {
			continue
		}
		// The first keyword is the canonical decode target; aliases
		// only participate in encoding.
		m.byValue[value] = keywords[0]
		for _, kw := range keywords {
			m.byKeyword[kw] = value
			m.keywords = append(m.keywords, kw)
		}
	}
	sort.Strings(m.keywords)
	return m
}

// parseOptionKeywords extracts the quoted keyword list from an option
// description of the form `"keyword"[, "alias"]: description`. A
// description without quotes or colon is treated as a bare keyword.
func parseOptionKeywords(desc string) []string {
	head := desc
	if i := strings.Index(desc, ":"); i >= 0 {
		head = desc[:i]
	}

	var keywords []string
	for _, part := range strings.Split(head, ",") {
		kw := strings.Trim(strings.TrimSpace(part), `"`)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Keyword returns the canonical keyword for value.
func (m *EnumMap) Keyword(value int64) (string, bool) {
	if m == nil {
		return "", false
	}
	kw, ok := m.byValue[value]
	return kw, ok
}

// Value returns the integer value for a keyword or alias.
func (m *EnumMap) Value(keyword string) (int64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.byKeyword[keyword]
	return v, ok
}

// Keywords returns all declared keywords and aliases, sorted. Used to name
// the allowed set in error messages.
func (m *EnumMap) Keywords() []string {
	if m == nil {
		return nil
	}
	return m.keywords
}

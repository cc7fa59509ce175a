package params

import (
	"fmt"
	"strings"

	"github.com/achilleasa/stereocam/transform"
	"gopkg.in/yaml.v3"
)

// FilterMode selects one of the mutually exclusive visual filters.
type FilterMode string

// Supported filter modes.
const (
	FilterNone     FilterMode = "none"
	FilterAmber    FilterMode = "amber"
	FilterDeepBlue FilterMode = "deepblue"
	FilterEdges    FilterMode = "edges"
)

// All filter modes in cycling order.
var FilterModes = []FilterMode{FilterNone, FilterAmber, FilterDeepBlue, FilterEdges}

// Code returns the integer the shaders switch on. Unknown values map to the
// code for FilterNone.
func (m FilterMode) Code() int32 {
	switch m {
	case FilterAmber:
		return transform.FilterCodeAmber
	case FilterDeepBlue:
		return transform.FilterCodeDeepBlue
	case FilterEdges:
		return transform.FilterCodeEdges
	default:
		return transform.FilterCodeNone
	}
}

// Next returns the filter that follows m in FilterModes.
func (m FilterMode) Next() FilterMode {
	for i, mode := range FilterModes {
		if mode == m {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterNone
}

// ParseFilterMode maps a user supplied name (including the aliases used by
// older presets) to a FilterMode.
func ParseFilterMode(name string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "off":
		return FilterNone, nil
	case "amber", "amber-duotone":
		return FilterAmber, nil
	case "deepblue", "deep-blue", "deepblue-duotone":
		return FilterDeepBlue, nil
	case "edges", "edge", "edge-emphasis":
		return FilterEdges, nil
	}
	return FilterNone, fmt.Errorf("params: unknown filter mode %q", name)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *FilterMode) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	mode, err := ParseFilterMode(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = mode
	return nil
}

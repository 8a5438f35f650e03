// Package tools defines the openFDA tool catalog and turns tool invocations
// into throttled upstream queries.
package tools

import (
	"github.com/petrefiedthunder/mcp-fda/internal/openfda"
)

// Kind distinguishes record search tools from the aggregation tool.
type Kind string

const (
	KindSearch Kind = "search"
	KindCount  Kind = "count"
)

// Bounds is the inclusive range and default of an integer argument.
type Bounds struct {
	Min     int `json:"min" yaml:"min"`
	Max     int `json:"max" yaml:"max"`
	Default int `json:"default" yaml:"default"`
}

// Contains reports whether value lies within the bounds.
func (b Bounds) Contains(value int) bool {
	return value >= b.Min && value <= b.Max
}

// Spec describes one tool. Search tools query a fixed endpoint; the count
// tool takes the endpoint as an argument.
type Spec struct {
	Name        string           `json:"name" yaml:"name"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Kind        Kind             `json:"kind" yaml:"kind"`
	Endpoint    openfda.Endpoint `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Limit       Bounds           `json:"limit" yaml:"limit"`
	AcceptsSkip bool             `json:"accepts_skip" yaml:"accepts_skip"`
	QueryHelp   string           `json:"query_help" yaml:"query_help"`
}

const (
	NameSearchDrugEvents   = "search_drug_events"
	NameSearchDrugLabels   = "search_drug_labels"
	NameSearchDrugRecalls  = "search_drug_recalls"
	NameSearchDeviceEvents = "search_device_events"
	NameSearchFoodEvents   = "search_food_events"
	NameSearchFoodRecalls  = "search_food_recalls"
	NameCountField         = "count_field"
)

var searchLimit = Bounds{Min: 1, Max: 100, Default: 10}

var catalog = []Spec{
	{
		Name:        NameSearchDrugEvents,
		Title:       "Drug adverse events",
		Description: "Search FDA drug adverse event reports (FAERS). Find reports of side effects and safety issues.",
		Kind:        KindSearch,
		Endpoint:    openfda.EndpointDrugEvent,
		Limit:       searchLimit,
		AcceptsSkip: true,
		QueryHelp:   `OpenFDA search query, e.g. 'patient.drug.openfda.brand_name:"aspirin"' or 'serious:1'`,
	},
	{
		Name:        NameSearchDrugLabels,
		Title:       "Drug labeling",
		Description: "Search FDA drug labeling/package inserts. Find dosage, warnings, indications, contraindications.",
		Kind:        KindSearch,
		Endpoint:    openfda.EndpointDrugLabel,
		Limit:       Bounds{Min: 1, Max: 100, Default: 5},
		QueryHelp:   `Search query, e.g. 'openfda.brand_name:"lipitor"' or 'indications_and_usage:"diabetes"'`,
	},
	{
		Name:        NameSearchDrugRecalls,
		Title:       "Drug recalls",
		Description: "Search FDA drug recall enforcement reports.",
		Kind:        KindSearch,
		Endpoint:    openfda.EndpointDrugEnforcement,
		Limit:       searchLimit,
		QueryHelp:   `Search query, e.g. 'reason_for_recall:"contamination"' or 'openfda.brand_name:"metformin"'`,
	},
	{
		Name:        NameSearchDeviceEvents,
		Title:       "Device adverse events",
		Description: "Search FDA medical device adverse event reports (MAUDE).",
		Kind:        KindSearch,
		Endpoint:    openfda.EndpointDeviceEvent,
		Limit:       searchLimit,
		QueryHelp:   `Search query, e.g. 'device.generic_name:"pacemaker"' or 'mdr_text.text:"malfunction"'`,
	},
	{
		Name:        NameSearchFoodEvents,
		Title:       "Food adverse events",
		Description: "Search FDA food adverse event reports (CAERS).",
		Kind:        KindSearch,
		Endpoint:    openfda.EndpointFoodEvent,
		Limit:       searchLimit,
		QueryHelp:   `Search query, e.g. 'products.name_brand:"monster energy"' or 'reactions:"nausea"'`,
	},
	{
		Name:        NameSearchFoodRecalls,
		Title:       "Food recalls",
		Description: "Search FDA food recall enforcement reports.",
		Kind:        KindSearch,
		Endpoint:    openfda.EndpointFoodEnforcement,
		Limit:       searchLimit,
		QueryHelp:   `Search query, e.g. 'reason_for_recall:"salmonella"' or 'city:"los angeles"'`,
	},
	{
		Name:        NameCountField,
		Title:       "Field counts",
		Description: "Get counts/aggregations for a field in any openFDA endpoint. Useful for top drugs, common side effects, etc.",
		Kind:        KindCount,
		Limit:       Bounds{Min: 1, Max: 1000, Default: 10},
		QueryHelp:   "Optional search filter",
	},
}

// Catalog returns every tool in registration order.
func Catalog() []Spec {
	specs := make([]Spec, len(catalog))
	copy(specs, catalog)
	return specs
}

// Lookup finds a tool by name.
func Lookup(name string) (Spec, bool) {
	for _, spec := range catalog {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// Names returns the tool names in registration order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, spec := range catalog {
		names = append(names, spec.Name)
	}
	return names
}

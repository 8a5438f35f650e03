package openfda

import (
	"strings"
)

// Endpoint is an openFDA dataset path without the ".json" extension.
type Endpoint string

const (
	EndpointDrugEvent         Endpoint = "/drug/event"
	EndpointDrugLabel         Endpoint = "/drug/label"
	EndpointDrugEnforcement   Endpoint = "/drug/enforcement"
	EndpointDeviceEvent       Endpoint = "/device/event"
	EndpointDeviceEnforcement Endpoint = "/device/enforcement"
	EndpointFoodEvent         Endpoint = "/food/event"
	EndpointFoodEnforcement   Endpoint = "/food/enforcement"
)

// Endpoints lists every supported dataset in a stable order.
var Endpoints = []Endpoint{
	EndpointDrugEvent,
	EndpointDrugLabel,
	EndpointDrugEnforcement,
	EndpointDeviceEvent,
	EndpointDeviceEnforcement,
	EndpointFoodEvent,
	EndpointFoodEnforcement,
}

// ParseEndpoint accepts either the path form ("/drug/event") or the
// identifier form ("drug-event").
func ParseEndpoint(value string) (Endpoint, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimSuffix(normalized, ".json")
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + strings.Replace(normalized, "-", "/", 1)
	}

	for _, endpoint := range Endpoints {
		if string(endpoint) == normalized {
			return endpoint, nil
		}
	}

	return "", &ValidationError{Field: "endpoint", Reason: "unknown endpoint " + quote(value)}
}

// Valid reports whether e is one of the supported datasets.
func (e Endpoint) Valid() bool {
	for _, endpoint := range Endpoints {
		if endpoint == e {
			return true
		}
	}
	return false
}

// ID returns the identifier form, e.g. "drug-event".
func (e Endpoint) ID() string {
	return strings.Replace(strings.TrimPrefix(string(e), "/"), "/", "-", 1)
}

// Path returns the URL path of the dataset including the extension.
func (e Endpoint) Path() string {
	return string(e) + pathExtension
}

// EndpointStrings returns every endpoint in path form, for schema enums.
func EndpointStrings() []string {
	values := make([]string, 0, len(Endpoints))
	for _, endpoint := range Endpoints {
		values = append(values, string(endpoint))
	}
	return values
}

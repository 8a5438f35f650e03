package openfda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	cases := map[string]Endpoint{
		"/drug/event":          EndpointDrugEvent,
		"drug-event":           EndpointDrugEvent,
		"/drug/label.json":     EndpointDrugLabel,
		" DEVICE-ENFORCEMENT ": EndpointDeviceEnforcement,
		"/food/enforcement":    EndpointFoodEnforcement,
		"device/event":         EndpointDeviceEvent,
		"drug-enforcement":     EndpointDrugEnforcement,
		"/food/event":          EndpointFoodEvent,
	}

	for input, want := range cases {
		got, err := ParseEndpoint(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseEndpoint("/tobacco/problem")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Error(), "/tobacco/problem")
}

func TestEndpointForms(t *testing.T) {
	assert.Len(t, Endpoints, 7)
	assert.Equal(t, "drug-event", EndpointDrugEvent.ID())
	assert.Equal(t, "device-enforcement", EndpointDeviceEnforcement.ID())
	assert.Equal(t, "/food/event.json", EndpointFoodEvent.Path())
	assert.False(t, Endpoint("/drug/ndc").Valid())

	values := EndpointStrings()
	require.Len(t, values, len(Endpoints))
	assert.Equal(t, "/drug/event", values[0])
	assert.Equal(t, "/food/enforcement", values[len(values)-1])
}

package openfda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	t.Run("search with paging", func(t *testing.T) {
		got, err := BuildURL(DefaultBaseURL, Request{
			Endpoint: EndpointDrugEvent,
			Params: []Param{
				String("search", "serious:1"),
				Int("limit", 10),
				Int("skip", 0),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/drug/event.json?search=serious%3A1&limit=10&skip=0", got)
	})

	t.Run("api key first", func(t *testing.T) {
		got, err := BuildURL(DefaultBaseURL, Request{
			Endpoint: EndpointFoodEnforcement,
			APIKey:   "abc123",
			Params:   []Param{Int("limit", 5)},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/food/enforcement.json?api_key=abc123&limit=5", got)
	})

	t.Run("absent optional omitted", func(t *testing.T) {
		got, err := BuildURL(DefaultBaseURL, Request{
			Endpoint: EndpointDeviceEvent,
			Params: []Param{
				Optional("search", nil),
				String("count", "event_type.exact"),
				Int("limit", 10),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/device/event.json?count=event_type.exact&limit=10", got)
		assert.NotContains(t, got, "search")
	})

	t.Run("empty optional still sent", func(t *testing.T) {
		empty := ""
		got, err := BuildURL(DefaultBaseURL, Request{
			Endpoint: EndpointDrugLabel,
			Params:   []Param{Optional("search", &empty), Int("limit", 5)},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/drug/label.json?search=&limit=5", got)
	})

	t.Run("repeated name replaces in place", func(t *testing.T) {
		got, err := BuildURL(DefaultBaseURL, Request{
			Endpoint: EndpointDrugEvent,
			Params: []Param{
				Int("limit", 1),
				Int("skip", 2),
				Int("limit", 3),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/drug/event.json?limit=3&skip=2", got)
	})

	t.Run("reserved characters escaped", func(t *testing.T) {
		got, err := BuildURL(DefaultBaseURL, Request{
			Endpoint: EndpointDrugEvent,
			Params:   []Param{String("search", `patient.drug.openfda.brand_name:"aspirin" AND serious:1`)},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/drug/event.json?search=patient.drug.openfda.brand_name%3A%22aspirin%22+AND+serious%3A1", got)
	})

	t.Run("base url with path and trailing slash", func(t *testing.T) {
		got, err := BuildURL("http://127.0.0.1:8089/proxy/", Request{
			Endpoint: EndpointDrugEnforcement,
			Params:   []Param{Int("limit", 10)},
		})
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8089/proxy/drug/enforcement.json?limit=10", got)
	})

	t.Run("empty base url uses default", func(t *testing.T) {
		got, err := BuildURL("", Request{Endpoint: EndpointFoodEvent})
		require.NoError(t, err)
		assert.Equal(t, "https://api.fda.gov/food/event.json", got)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		_, err := BuildURL(DefaultBaseURL, Request{Endpoint: "/animal/event"})
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "endpoint", validation.Field)
	})

	t.Run("relative base url", func(t *testing.T) {
		_, err := BuildURL("api.fda.gov", Request{Endpoint: EndpointDrugEvent})
		require.Error(t, err)
	})
}

func TestRedactURL(t *testing.T) {
	raw := "https://api.fda.gov/drug/event.json?api_key=secret&search=serious%3A1"
	assert.Equal(t, "https://api.fda.gov/drug/event.json?api_key=REDACTED&search=serious%3A1", RedactURL(raw))

	unkeyed := "https://api.fda.gov/drug/event.json?limit=1"
	assert.Equal(t, unkeyed, RedactURL(unkeyed))
}

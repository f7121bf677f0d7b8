package httpcg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func erbType(t ERBType) *ERBType { return &t }

type recordingTransport struct {
	gotURL    string
	gotMethod string
	gotBody   []byte
}

func (rt *recordingTransport) Dispatch(httpcgURL, method string, body []byte) (HttpcgResponse, error) {
	rt.gotURL = httpcgURL
	rt.gotMethod = method
	rt.gotBody = body
	return HttpcgResponse{Status: 200, Body: []byte("ok")}, nil
}

func TestScenarioE_GoogleSearchFromIntlWallet(t *testing.T) {
	transport := &recordingTransport{}
	client := NewClient(transport)

	resp, err := client.RequestCrossDomain("https://google.com/search", "GET", nil, "did:pravyom:loc:INTL:wallet1", erbType(ERBApi))
	require.NoError(t, err)

	require.Equal(t, "httpcg://google.pravyom.com/search", transport.gotURL)
	require.True(t, resp.Metadata.JurisdictionValidated)
	require.Equal(t, "US", resp.Jurisdiction.CountryCode)
	require.Equal(t, LocationINTL, resp.WalletLocation)
	require.NotNil(t, resp.ERBSession)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(transport.gotBody, &body))
	require.Equal(t, true, body["cross_domain_request"])
}

func TestRequestCrossDomain_RejectsIncompatibleJurisdiction(t *testing.T) {
	client := NewClient(&recordingTransport{})
	_, err := client.RequestCrossDomain("https://example.eu/data", "GET", nil, "did:pravyom:loc:US:wallet1", erbType(ERBApi))
	require.Error(t, err)
}

func TestRequestCrossDomain_RejectsEuDomainEvenForCompatibleWallet(t *testing.T) {
	// example.eu is GDPR-strict (CrossBorderAllowed == false), so even an
	// otherwise-compatible EU wallet must be rejected.
	client := NewClient(&recordingTransport{})
	_, err := client.RequestCrossDomain("https://example.eu/data", "GET", nil, "did:pravyom:loc:EU:wallet1", erbType(ERBApi))
	require.Error(t, err)
}

func TestRequestCrossDomain_PassesThroughExplicitBody(t *testing.T) {
	transport := &recordingTransport{}
	client := NewClient(transport)
	explicitBody := []byte(`{"hello":"world"}`)

	_, err := client.RequestCrossDomain("https://google.com/search", "POST", explicitBody, "did:pravyom:loc:INTL:wallet1", erbType(ERBApi))
	require.NoError(t, err)
	require.Equal(t, explicitBody, transport.gotBody)
}

func TestRequestCrossDomain_MetersERBSession(t *testing.T) {
	transport := &recordingTransport{}
	client := NewClient(transport)

	resp, err := client.RequestCrossDomain("https://google.com/search", "GET", nil, "did:pravyom:loc:INTL:wallet1", erbType(ERBApi))
	require.NoError(t, err)
	require.NotNil(t, resp.ERBSession)
	require.Equal(t, uint64(1), resp.ERBSession.Usage.ApiCalls)

	var found bool
	for _, s := range client.ERB.sessions {
		if s.Domain == "google.com" {
			found = true
			require.Equal(t, uint64(1), s.Usage.ApiCalls)
		}
	}
	require.True(t, found)
}

func TestRequestCrossDomain_NilErbTypeSkipsMetering(t *testing.T) {
	transport := &recordingTransport{}
	client := NewClient(transport)

	resp, err := client.RequestCrossDomain("https://google.com/search", "GET", nil, "did:pravyom:loc:INTL:wallet1", nil)
	require.NoError(t, err)
	require.Nil(t, resp.ERBSession)
	require.Empty(t, client.ERB.sessions)
}

func TestRequestCrossDomain_RejectsUnparsableURL(t *testing.T) {
	client := NewClient(&recordingTransport{})
	_, err := client.RequestCrossDomain("://bad-url", "GET", nil, "did:pravyom:loc:INTL:wallet1", erbType(ERBApi))
	require.Error(t, err)
}

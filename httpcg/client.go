package httpcg

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/GlobalSushrut/metanode/errors"
)

// Transport dispatches an already-resolved httpcg:// request. The real
// network implementation lives outside this package; tests and the
// default client use a stub.
type Transport interface {
	Dispatch(httpcgURL, method string, body []byte) (HttpcgResponse, error)
}

// NopTransport is a deterministic stand-in transport used when no real
// httpcg gateway is wired in.
type NopTransport struct{}

func (NopTransport) Dispatch(httpcgURL, method string, body []byte) (HttpcgResponse, error) {
	return HttpcgResponse{Status: 200, Headers: map[string]string{}, Body: body}, nil
}

// Client resolves, jurisdiction-checks, meters, and dispatches a wallet's
// cross-domain requests (spec §4.11's RequestCrossDomain algorithm).
type Client struct {
	Domains      *DomainRegistry
	Jurisdiction *JurisdictionManager
	ERB          *ERBCoordinator
	Transport    Transport
	now          func() time.Time
}

func NewClient(transport Transport) *Client {
	if transport == nil {
		transport = NopTransport{}
	}
	return &Client{
		Domains:      NewDomainRegistry(),
		Jurisdiction: NewJurisdictionManager(),
		ERB:          NewERBCoordinator(),
		Transport:    transport,
		now:          time.Now,
	}
}

// deriveWalletLocation reads a "loc:<XX>" segment out of a wallet DID
// (e.g. "did:pravyom:loc:EU:abc123"), defaulting to INTL when absent or
// unrecognized.
func deriveWalletLocation(walletDID string) WalletLocation {
	parts := strings.Split(walletDID, ":")
	for i, p := range parts {
		if p == "loc" && i+1 < len(parts) {
			switch strings.ToUpper(parts[i+1]) {
			case "US":
				return LocationUS
			case "EU":
				return LocationEU
			case "CA":
				return LocationCA
			}
			return LocationINTL
		}
	}
	return LocationINTL
}

type crossDomainMetadataBody struct {
	CrossDomainRequest bool   `json:"cross_domain_request"`
	OriginalDomain     string `json:"original_domain"`
	WalletDID          string `json:"wallet_did"`
}

// RequestCrossDomain implements the external-domain request pipeline:
// parse the URL, validate the wallet's jurisdiction against the target
// domain, resolve the domain to its httpcg endpoint, meter the request
// through an ERB session when erbType is non-nil (spec §4.11 step 5: "if
// erb_type given, start_erb_session(...)"), dispatch it, and return the
// response wrapped in cross-domain provenance metadata.
func (c *Client) RequestCrossDomain(externalURL, method string, body []byte, walletDID string, erbType *ERBType) (CrossDomainResponse, error) {
	parsed, err := url.Parse(externalURL)
	if err != nil {
		return CrossDomainResponse{}, errors.NewInvalidArgumentError("httpcg: failed to parse external URL: %v", err)
	}
	domain := parsed.Hostname()
	if domain == "" {
		return CrossDomainResponse{}, errors.NewInvalidArgumentError("httpcg: external URL %q has no host", externalURL)
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}

	jurisdiction := c.Jurisdiction.Get(domain)
	location := deriveWalletLocation(walletDID)
	if !IsJurisdictionCompatible(location, jurisdiction) {
		return CrossDomainResponse{}, errors.NewPermissionDeniedError(
			"httpcg: wallet location %v is not compatible with jurisdiction %v for domain %s", location, jurisdiction.CountryCode, domain)
	}

	httpcgURL := c.Domains.ResolveDomainToHttpcg(domain, path)

	var session *ERBSession
	if erbType != nil {
		session = c.ERB.StartERBSession(domain, walletDID, *erbType)
	}

	if body == nil {
		body, err = json.Marshal(crossDomainMetadataBody{
			CrossDomainRequest: true,
			OriginalDomain:     domain,
			WalletDID:          walletDID,
		})
		if err != nil {
			return CrossDomainResponse{}, errors.NewInternalError("httpcg: failed to build metadata body: %v", err)
		}
	}

	resp, err := c.Transport.Dispatch(httpcgURL, method, body)
	if err != nil {
		return CrossDomainResponse{}, errors.NewInternalError("httpcg: transport dispatch failed: %v", err)
	}

	if session != nil {
		c.ERB.UpdateResourceUsage(session.SessionID, method, len(body))
		updated, _ := c.ERB.Get(session.SessionID)
		session = &updated
	}

	meta := CrossDomainMetadata{
		OriginalDomain:        domain,
		WalletDID:             walletDID,
		RequestTimestampMs:    c.now().UnixMilli(),
		SecurityLevel:         SecurityEnhanced,
		JurisdictionValidated: true,
	}

	return CrossDomainResponse{
		Response:       resp,
		Metadata:       meta,
		ERBSession:     session,
		Jurisdiction:   jurisdiction,
		WalletLocation: location,
	}, nil
}

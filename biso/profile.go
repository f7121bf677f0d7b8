// Package biso implements C10: the BISO agreement stamp gate that decides
// whether a wallet may call a given API endpoint, and the gin HTTP surface
// over it. Grounded on spec §4.10 and
// original_source/bpci-enterprise/src/stamped_wallet_api_access.rs (the
// stamp-type/endpoint-classification shape), rebuilt over gin's routing
// instead of axum since this module's teacher-adjacent example
// (leanlp-BTC-coinjoin) routes with gin.
package biso

import "strings"

// StampKind enumerates the five concrete BISO agreement profiles (spec
// §4.10).
type StampKind int

const (
	StampGovernment StampKind = iota
	StampBank
	StampEnterprise
	StampIndividual
	StampUnstamped
)

func (k StampKind) String() string {
	switch k {
	case StampGovernment:
		return "Government"
	case StampBank:
		return "Bank"
	case StampEnterprise:
		return "Enterprise"
	case StampIndividual:
		return "Individual"
	default:
		return "Unstamped"
	}
}

// AccessLevel is the capability level a request is granted at.
type AccessLevel int

const (
	AccessPoeOnly AccessLevel = iota
	AccessIndividual
	AccessEnterprise
	AccessBank
	AccessGovernment
)

func (a AccessLevel) String() string {
	switch a {
	case AccessPoeOnly:
		return "PoeOnly"
	case AccessIndividual:
		return "Individual"
	case AccessEnterprise:
		return "Enterprise"
	case AccessBank:
		return "Bank"
	case AccessGovernment:
		return "Government"
	default:
		return "Unknown"
	}
}

// Restrictions is a profile's restriction set (spec §4.10).
type Restrictions struct {
	CanSharePoE                bool
	RequiresBisoAgreement      bool
	ComplianceReportingRequired bool
	AllowedEndpoints            []string
	BlockedEndpoints            []string
}

// Profile is one concrete BISO agreement profile.
type Profile struct {
	Kind               StampKind
	DefaultAccessLevel AccessLevel
	Restrictions       Restrictions
}

func hasPrefixAny(endpoint string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(endpoint, p) {
			return true
		}
	}
	return false
}

// Blocked reports whether endpoint is explicitly listed in the profile's
// blocked set.
func (p Profile) Blocked(endpoint string) bool {
	return hasPrefixAny(endpoint, p.Restrictions.BlockedEndpoints)
}

const (
	govEndpointPrefix  = "/api/stamped-bpi/government/"
	bankEndpointPrefix = "/api/stamped-bpi/bank/"
	poeEndpointPrefix  = "/api/stamped-bpi/poe/"
)

// IsGovernmentEndpoint reports whether endpoint requires a Government stamp.
func IsGovernmentEndpoint(endpoint string) bool { return strings.HasPrefix(endpoint, govEndpointPrefix) }

// IsBankEndpoint reports whether endpoint requires a Bank-or-above stamp.
func IsBankEndpoint(endpoint string) bool { return strings.HasPrefix(endpoint, bankEndpointPrefix) }

// IsPoESharingEndpoint reports whether endpoint is a PoE-sharing endpoint,
// open to every profile including Unstamped.
func IsPoESharingEndpoint(endpoint string) bool { return strings.HasPrefix(endpoint, poeEndpointPrefix) }

// Profiles is the fixed table of the five concrete BISO profiles (spec
// §4.10).
var Profiles = map[StampKind]Profile{
	StampGovernment: {
		Kind:               StampGovernment,
		DefaultAccessLevel: AccessGovernment,
		Restrictions: Restrictions{
			CanSharePoE:                 true,
			RequiresBisoAgreement:       true,
			ComplianceReportingRequired: false,
		},
	},
	StampBank: {
		Kind:               StampBank,
		DefaultAccessLevel: AccessBank,
		Restrictions: Restrictions{
			CanSharePoE:                 true,
			RequiresBisoAgreement:       true,
			ComplianceReportingRequired: false,
		},
	},
	StampEnterprise: {
		Kind:               StampEnterprise,
		DefaultAccessLevel: AccessEnterprise,
		Restrictions: Restrictions{
			CanSharePoE:                 true,
			RequiresBisoAgreement:       true,
			ComplianceReportingRequired: true,
		},
	},
	StampIndividual: {
		Kind:               StampIndividual,
		DefaultAccessLevel: AccessIndividual,
		Restrictions: Restrictions{
			CanSharePoE:                 true,
			RequiresBisoAgreement:       false,
			ComplianceReportingRequired: true,
		},
	},
	StampUnstamped: {
		Kind:               StampUnstamped,
		DefaultAccessLevel: AccessPoeOnly,
		Restrictions: Restrictions{
			CanSharePoE:                 true,
			RequiresBisoAgreement:       false,
			ComplianceReportingRequired: true,
			BlockedEndpoints:            []string{govEndpointPrefix, bankEndpointPrefix},
		},
	},
}

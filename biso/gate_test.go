package biso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarioD_UnstampedWalletPoEThenBank(t *testing.T) {
	stamps := NewStampRegistry()
	stamps.Register("wallet-unstamped", StampUnstamped)
	gate := NewGate(stamps, nil)

	poeResp := gate.EvaluateCommunicationPermission("wallet-unstamped", "/api/stamped-bpi/poe/share", "share")
	require.True(t, poeResp.Success)
	require.Equal(t, AccessPoeOnly, poeResp.AccessLevel)
	require.True(t, poeResp.ComplianceRequired)

	bankResp := gate.EvaluateCommunicationPermission("wallet-unstamped", "/api/stamped-bpi/bank/transfer", "transfer")
	require.False(t, bankResp.Success)
	require.Contains(t, bankResp.Error, "Bank API access denied")
}

func TestEvaluate_MissingStampDenied(t *testing.T) {
	gate := NewGate(nil, nil)
	resp := gate.EvaluateCommunicationPermission("unknown", "/api/stamped-bpi/poe/share", "share")
	require.False(t, resp.Success)
}

func TestEvaluate_GovernmentEndpointRequiresGovernmentStamp(t *testing.T) {
	stamps := NewStampRegistry()
	stamps.Register("bank-wallet", StampBank)
	stamps.Register("gov-wallet", StampGovernment)
	gate := NewGate(stamps, nil)

	denied := gate.EvaluateCommunicationPermission("bank-wallet", "/api/stamped-bpi/government/report", "report")
	require.False(t, denied.Success)

	allowed := gate.EvaluateCommunicationPermission("gov-wallet", "/api/stamped-bpi/government/report", "report")
	require.True(t, allowed.Success)
	require.Equal(t, AccessGovernment, allowed.AccessLevel)
}

func TestEvaluate_BankEndpointAllowsGovernmentOrBank(t *testing.T) {
	stamps := NewStampRegistry()
	stamps.Register("gov-wallet", StampGovernment)
	stamps.Register("bank-wallet", StampBank)
	stamps.Register("enterprise-wallet", StampEnterprise)
	gate := NewGate(stamps, nil)

	require.True(t, gate.EvaluateCommunicationPermission("gov-wallet", "/api/stamped-bpi/bank/transfer", "transfer").Success)
	require.True(t, gate.EvaluateCommunicationPermission("bank-wallet", "/api/stamped-bpi/bank/transfer", "transfer").Success)
	require.False(t, gate.EvaluateCommunicationPermission("enterprise-wallet", "/api/stamped-bpi/bank/transfer", "transfer").Success)
}

func TestEvaluate_PoESharingOpenToEveryProfile(t *testing.T) {
	stamps := NewStampRegistry()
	kinds := []StampKind{StampGovernment, StampBank, StampEnterprise, StampIndividual, StampUnstamped}
	for i, k := range kinds {
		stamps.Register(kindWalletID(i), k)
	}
	gate := NewGate(stamps, nil)

	for i, k := range kinds {
		resp := gate.EvaluateCommunicationPermission(kindWalletID(i), "/api/stamped-bpi/poe/share", "share")
		require.True(t, resp.Success, "kind %v should be allowed to share poe", k)
		switch k {
		case StampGovernment, StampBank:
			require.False(t, resp.ComplianceRequired, "kind %v should not require a compliance report", k)
		default:
			require.True(t, resp.ComplianceRequired, "kind %v should require a compliance report", k)
		}
	}
}

func kindWalletID(i int) string {
	return "wallet-" + string(rune('a'+i))
}

func TestEvaluate_AppendsAuditLogEntryWithID(t *testing.T) {
	stamps := NewStampRegistry()
	stamps.Register("w", StampIndividual)
	gate := NewGate(stamps, nil)

	resp := gate.EvaluateCommunicationPermission("w", "/api/stamped-bpi/poe/share", "share")
	require.NotEmpty(t, resp.AuditTrailID)

	logs := gate.AccessLogs()
	require.Len(t, logs, 1)
	require.Equal(t, resp.AuditTrailID, logs[0].LogID)
	require.Equal(t, "w", logs[0].WalletID)
}

func TestMetrics_AlwaysIncrementedIncludingOnDenial(t *testing.T) {
	stamps := NewStampRegistry()
	stamps.Register("w", StampUnstamped)
	gate := NewGate(stamps, nil)

	gate.EvaluateCommunicationPermission("w", "/api/stamped-bpi/poe/share", "share")
	gate.EvaluateCommunicationPermission("w", "/api/stamped-bpi/bank/transfer", "transfer")

	m := gate.Metrics()
	require.Equal(t, uint64(2), m.TotalRequests)
	require.Equal(t, uint64(1), m.DeniedCount)
	require.Equal(t, uint64(1), m.ComplianceReports)
}

// Package settings defines the shape and defaults of every component's
// configuration, read through ordishs/gocore's Config() store the same way
// the teacher's services do (gocore.Config().GetInt(key, default)). Loading
// a config file or parsing CLI flags is explicitly out of scope (spec §1
// non-goals); this package only assembles the defaulted, overridable
// in-memory struct.
package settings

import (
	"strconv"

	"github.com/ordishs/gocore"
)

type MiningSettings struct {
	TargetBlockTimeMs      int64
	DifficultyAdjustWindow uint64
	MaxDifficultyChange    float64
	InitialDifficulty      uint64
	BaseReward             uint64
	HalvingInterval        uint64
	SupplyCap              uint64
	MaxNonce               uint64
}

type BlockAssemblySettings struct {
	MaxTransactionsPerBlock int
	KWindow                 float64
	FeeSplitLocked          float64
	FeeSplitSpendable       float64
	FeeSplitOwner           float64
	FeeSplitTreasury        float64
}

type HeaderVerifierSettings struct {
	MaxCacheSize int
}

type TreasurySettings struct {
	MinimumInflow               float64
	PerSourceCeiling            float64
	CoinSharePct                float64
	InfraSharePct               float64
	CompanyAPIPct               float64
	OwnerSalaryPct              float64
	CommunityPct                float64
	AutoDistributeToMaintainers bool
	MaintainerPoolPct           float64
	Epsilon                     float64
}

type BISOSettings struct {
	DefaultComplianceLevel int
}

type HttpcgSettings struct {
	JurisdictionCacheTTLSeconds int
	ERBRateDefault              float64
	RequestDeadlineSeconds      int
}

type CoordinatorSettings struct {
	HeartbeatIntervalSeconds int
	OracleUpdateFreqMs       int64
}

type ZJLSettings struct {
	MinQualityThreshold float64
	WindowMinutes       float64
	ComplianceThreshold float64
	IncidentThreshold   float64
}

type Settings struct {
	Mining        MiningSettings
	BlockAssembly BlockAssemblySettings
	Header        HeaderVerifierSettings
	Treasury      TreasurySettings
	BISO          BISOSettings
	Httpcg        HttpcgSettings
	Coordinator   CoordinatorSettings
	ZJL           ZJLSettings
}

// getFloat64 and getInt64 round-trip through gocore's string-valued Get
// since gocore.Config() (per the teacher's call sites) only exposes typed
// accessors for string/int/bool, not float64/int64.
func getFloat64(key string, def float64) float64 {
	raw, _ := gocore.Config().Get(key, strconv.FormatFloat(def, 'f', -1, 64))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func getInt64(key string, def int64) int64 {
	raw, _ := gocore.Config().Get(key, strconv.FormatInt(def, 10))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

// NewSettings returns the defaulted settings struct, with every default
// overridable through gocore.Config() under the given key.
func NewSettings() *Settings {
	cfg := gocore.Config()

	s := &Settings{}

	s.Mining.TargetBlockTimeMs = getInt64("mining_targetBlockTimeMs", 5000)
	adjWindow, _ := cfg.GetInt("mining_difficultyAdjustWindow", 100)
	s.Mining.DifficultyAdjustWindow = uint64(adjWindow)
	s.Mining.MaxDifficultyChange = getFloat64("mining_maxDifficultyChange", 4.0)
	initDiff, _ := cfg.GetInt("mining_initialDifficulty", 1_000_000)
	s.Mining.InitialDifficulty = uint64(initDiff)
	baseReward, _ := cfg.GetInt("mining_baseReward", 1_000_000)
	s.Mining.BaseReward = uint64(baseReward)
	halving, _ := cfg.GetInt("mining_halvingInterval", 210_000)
	s.Mining.HalvingInterval = uint64(halving)
	supplyCap, _ := cfg.GetInt("mining_supplyCap", 21_000_000_000_000)
	s.Mining.SupplyCap = uint64(supplyCap)
	s.Mining.MaxNonce = 1_000_000

	s.BlockAssembly.MaxTransactionsPerBlock, _ = cfg.GetInt("blockassembly_maxTransactionsPerBlock", 5000)
	s.BlockAssembly.KWindow = getFloat64("blockassembly_kWindow", 1000.0)
	s.BlockAssembly.FeeSplitLocked = getFloat64("blockassembly_feeSplitLocked", 0.002)
	s.BlockAssembly.FeeSplitSpendable = getFloat64("blockassembly_feeSplitSpendable", 0.003)
	s.BlockAssembly.FeeSplitOwner = getFloat64("blockassembly_feeSplitOwner", 0.002)
	s.BlockAssembly.FeeSplitTreasury = getFloat64("blockassembly_feeSplitTreasury", 0.003)

	s.Header.MaxCacheSize, _ = cfg.GetInt("header_maxCacheSize", 1000)

	s.Treasury.MinimumInflow = getFloat64("treasury_minimumInflow", 0.01)
	s.Treasury.PerSourceCeiling = getFloat64("treasury_perSourceCeiling", 100_000.0)
	s.Treasury.CoinSharePct = getFloat64("treasury_coinSharePct", 0.25)
	s.Treasury.InfraSharePct = getFloat64("treasury_infraSharePct", 0.75)
	s.Treasury.CompanyAPIPct = getFloat64("treasury_companyApiPct", 1.0/3.0)
	s.Treasury.OwnerSalaryPct = getFloat64("treasury_ownerSalaryPct", 2.0/15.0)
	s.Treasury.CommunityPct = getFloat64("treasury_communityPct", 8.0/15.0)
	s.Treasury.AutoDistributeToMaintainers = cfg.GetBool("treasury_autoDistributeToMaintainers", true)
	s.Treasury.MaintainerPoolPct = getFloat64("treasury_maintainerPoolPct", 0.5)
	s.Treasury.Epsilon = 1e-4

	s.BISO.DefaultComplianceLevel, _ = cfg.GetInt("biso_defaultComplianceLevel", 1)

	s.Httpcg.JurisdictionCacheTTLSeconds, _ = cfg.GetInt("httpcg_jurisdictionCacheTTLSeconds", 600)
	s.Httpcg.ERBRateDefault = getFloat64("httpcg_erbRateDefault", 0.001)
	s.Httpcg.RequestDeadlineSeconds, _ = cfg.GetInt("httpcg_requestDeadlineSeconds", 5)

	s.Coordinator.HeartbeatIntervalSeconds, _ = cfg.GetInt("coordinator_heartbeatIntervalSeconds", 30)
	s.Coordinator.OracleUpdateFreqMs = getInt64("coordinator_oracleUpdateFreqMs", 5000)

	s.ZJL.MinQualityThreshold = getFloat64("zjl_minQualityThreshold", 0.5)
	s.ZJL.WindowMinutes = getFloat64("zjl_windowMinutes", 60.0)
	s.ZJL.ComplianceThreshold = getFloat64("zjl_complianceThreshold", 0.8)
	s.ZJL.IncidentThreshold = getFloat64("zjl_incidentThreshold", 2.0)

	return s
}

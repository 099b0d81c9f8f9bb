package params

// Config aggregates every protocol-defined constant the transition
// needs: the gas schedule, the CBI version table, the reward curve,
// the treasury split, the pool stake cap and the validator-set size.
// The embedder constructs one Config (typically once, at chain
// genesis) and passes it into every engine.Driver.Transition call alongside
// the selected Variant.
type Config struct {
	Variant Variant
	Gas     GasConfig
	CBI     CBIConfig
	Reward  RewardConfig

	// TreasuryShareNum/Den express treasury_share as a fraction in
	// [0,1] using integer math (Design Notes forbid floating point).
	TreasuryShareNum uint64
	TreasuryShareDen uint64

	// PoolStakeCap bounds the number of delegated stakes a Pool keeps
	// (spec §3).
	PoolStakeCap int

	// ValidatorSetSize is k in select_top_k (spec §4.4 step 4).
	ValidatorSetSize int

	// MinTxSizeBytes is the PreCharge "tx size >= minimum" floor.
	MinTxSizeBytes uint64
}

func DefaultConfig(variant Variant) Config {
	return Config{
		Variant:          variant,
		Gas:              DefaultGasConfig(),
		CBI:              DefaultCBIConfig(),
		Reward:           DefaultRewardConfig(),
		TreasuryShareNum: 1,
		TreasuryShareDen: 2,
		PoolStakeCap:     1024,
		ValidatorSetSize: 100,
		MinTxSizeBytes:   32,
	}
}

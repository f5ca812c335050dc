package entity

// Base OHLCV column names. These are the only columns stored in the raw tier.
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// Required derived column names.
const (
	// ColTrueRange is the true range of each bar.
	ColTrueRange = "tr"
	// ColTrueRangeDelta is the true range relative to the bar's close.
	ColTrueRangeDelta = "tr_delta"
)

// BaseColumns lists the raw OHLCV columns in storage order.
var BaseColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// RequiredDerivedColumns must be present in every table handed to callers.
var RequiredDerivedColumns = []string{ColTrueRange, ColTrueRangeDelta}

// Tier identifies one of the two on-disk cache levels for a symbol.
type Tier string

const (
	// TierRaw holds base OHLCV columns only.
	TierRaw Tier = "raw"
	// TierWithFeatures holds base, derived and feature columns.
	TierWithFeatures Tier = "with_features"
)

package models

// TrendState classifies swing structure.
type TrendState string

const (
	Uptrend    TrendState = "Uptrend"
	Downtrend  TrendState = "Downtrend"
	Ranging    TrendState = "Ranging"
	Transition TrendState = "Transition"
)

const (
	BOSBullish = "BOS Bullish"
	BOSBearish = "BOS Bearish"
)

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "High"
	SwingLow  SwingKind = "Low"
)

// SwingPoint is a local extremum at a window position.
type SwingPoint struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  SwingKind `json:"kind"`
}

// MarketStructure describes the swing structure of one candle window.
// Classified lists hold at most the 5 most recent swings, oldest first.
type MarketStructure struct {
	Trend          TrendState `json:"trend"`
	HigherHighs    []float64  `json:"higher_highs"`
	HigherLows     []float64  `json:"higher_lows"`
	LowerHighs     []float64  `json:"lower_highs"`
	LowerLows      []float64  `json:"lower_lows"`
	LastSwingHigh  *float64   `json:"last_swing_high,omitempty"`
	LastSwingLow   *float64   `json:"last_swing_low,omitempty"`
	StructureBreak string     `json:"structure_break,omitempty"`
}

// SwingHighs returns every classified swing high.
func (m MarketStructure) SwingHighs() []float64 {
	out := make([]float64, 0, len(m.HigherHighs)+len(m.LowerHighs))
	out = append(out, m.HigherHighs...)
	return append(out, m.LowerHighs...)
}

// SwingLows returns every classified swing low.
func (m MarketStructure) SwingLows() []float64 {
	out := make([]float64, 0, len(m.HigherLows)+len(m.LowerLows))
	out = append(out, m.HigherLows...)
	return append(out, m.LowerLows...)
}

// RangingStructure is the degenerate structure returned on insufficient data.
func RangingStructure() MarketStructure {
	return MarketStructure{
		Trend:       Ranging,
		HigherHighs: []float64{},
		HigherLows:  []float64{},
		LowerHighs:  []float64{},
		LowerLows:   []float64{},
	}
}

type BlockType string

const (
	BullishBlock BlockType = "Bullish"
	BearishBlock BlockType = "Bearish"
)

// OrderBlock is the last opposing candle before a displacement.
type OrderBlock struct {
	PriceHigh float64   `json:"price_high"`
	PriceLow  float64   `json:"price_low"`
	BlockType BlockType `json:"block_type"`
	Mitigated bool      `json:"mitigated"`
	Timeframe string    `json:"timeframe"`
	Index     int       `json:"-"`
}

// Mid returns the block midpoint.
func (o OrderBlock) Mid() float64 { return (o.PriceHigh + o.PriceLow) / 2 }

type GapType string

const (
	BullishGap GapType = "Bullish"
	BearishGap GapType = "Bearish"
)

// FairValueGap is a 3-candle imbalance.
type FairValueGap struct {
	High           float64 `json:"high"`
	Low            float64 `json:"low"`
	GapType        GapType `json:"gap_type"`
	Filled         bool    `json:"filled"`
	FillPercentage float64 `json:"fill_percentage"`
}

// Mid returns the gap midpoint.
func (f FairValueGap) Mid() float64 { return (f.High + f.Low) / 2 }

type LiquiditySide string

const (
	BuySide  LiquiditySide = "Buy-side"
	SellSide LiquiditySide = "Sell-side"
)

type Strength string

const (
	Moderate Strength = "Moderate"
	Strong   Strength = "Strong"
)

// LiquidityZone is a cluster of equal highs or equal lows.
type LiquidityZone struct {
	PriceStart float64       `json:"price_start"`
	PriceEnd   float64       `json:"price_end"`
	ZoneType   LiquiditySide `json:"zone_type"`
	Strength   Strength      `json:"strength"`
	Swept      bool          `json:"swept"`
	Index      int           `json:"-"`
}

// Mid returns the zone midpoint.
func (l LiquidityZone) Mid() float64 { return (l.PriceStart + l.PriceEnd) / 2 }

type ZoneType string

const (
	SupplyZone ZoneType = "Supply"
	DemandZone ZoneType = "Demand"
)

// SupplyDemandZone is the base of an impulsive candle.
type SupplyDemandZone struct {
	PriceHigh float64  `json:"price_high"`
	PriceLow  float64  `json:"price_low"`
	ZoneType  ZoneType `json:"zone_type"`
	Strength  Strength `json:"strength"`
	Fresh     bool     `json:"fresh"`
}

type LevelType string

const (
	Support    LevelType = "Support"
	Resistance LevelType = "Resistance"
)

// PriceLevel is a swing-derived support or resistance level.
type PriceLevel struct {
	Price     float64   `json:"price"`
	Strength  Strength  `json:"strength"`
	Touches   int       `json:"touches"`
	LevelType LevelType `json:"level_type"`
}

// SmartMoney bundles the extractor outputs for one series.
type SmartMoney struct {
	OrderBlocks       []OrderBlock       `json:"order_blocks"`
	FairValueGaps     []FairValueGap     `json:"fair_value_gaps"`
	LiquidityZones    []LiquidityZone    `json:"liquidity_zones"`
	SupplyDemandZones []SupplyDemandZone `json:"supply_demand_zones"`
}

package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"TradeLens/internal/domain/models"
)

var printer = message.NewPrinter(language.English)

var (
	lowerTFs  = []models.Timeframe{models.TF5m, models.TF15m, models.TF30m}
	midTFs    = []models.Timeframe{models.TF1h, models.TF4h}
	higherTFs = []models.Timeframe{models.TF1d}
)

// timeframeBias scores trend, EMA stacking, RSI and MACD of one timeframe.
// One side must lead by more than a point to leave Neutral.
func timeframeBias(tf models.Timeframe, candles []models.Candle, ind models.IndicatorBundle, ms models.MarketStructure) models.TimeframeBias {
	out := models.TimeframeBias{Timeframe: tf, Bias: models.Neutral, Trend: ms.Trend}
	if len(candles) == 0 {
		out.Notes = "Insufficient data"
		return out
	}
	price := candles[len(candles)-1].Close

	var bull, bear int
	var notes []string
	switch ms.Trend {
	case models.Uptrend:
		bull += 2
		notes = append(notes, "Uptrend structure")
	case models.Downtrend:
		bear += 2
		notes = append(notes, "Downtrend structure")
	}

	ma := ind.MovingAverages
	if ma.EMA21 != nil && ma.EMA50 != nil {
		switch {
		case price > *ma.EMA21 && *ma.EMA21 > *ma.EMA50:
			bull++
			notes = append(notes, "Price above EMAs")
		case price < *ma.EMA21 && *ma.EMA21 < *ma.EMA50:
			bear++
			notes = append(notes, "Price below EMAs")
		}
	}

	mom := ind.Momentum
	if mom.RSI14 != nil {
		if *mom.RSI14 > 60 {
			bull++
		} else if *mom.RSI14 < 40 {
			bear++
		}
	}
	if h := mom.MACDHistogram; h != nil && *h != 0 {
		if *h > 0 {
			bull++
		} else {
			bear++
		}
	}

	switch {
	case bull > bear+1:
		out.Bias = models.Bullish
	case bear > bull+1:
		out.Bias = models.Bearish
	}

	for _, h := range ms.SwingHighs() {
		if h > price && (out.KeyLevelAbove == nil || h < *out.KeyLevelAbove) {
			out.KeyLevelAbove = models.Float(h)
		}
	}
	for _, l := range ms.SwingLows() {
		if l < price && (out.KeyLevelBelow == nil || l > *out.KeyLevelBelow) {
			out.KeyLevelBelow = models.Float(l)
		}
	}
	out.Notes = strings.Join(notes, "; ")
	return out
}

// dominantTrend returns the most common trend among tfs, ties going to the
// lower timeframe. No data is Ranging.
func dominantTrend(structures map[models.Timeframe]models.MarketStructure, tfs []models.Timeframe) models.TrendState {
	counts := make(map[models.TrendState]int)
	var order []models.TrendState
	for _, tf := range tfs {
		ms, ok := structures[tf]
		if !ok {
			continue
		}
		if counts[ms.Trend] == 0 {
			order = append(order, ms.Trend)
		}
		counts[ms.Trend]++
	}
	best := models.Ranging
	n := 0
	for _, t := range order {
		if counts[t] > n {
			best, n = t, counts[t]
		}
	}
	return best
}

func marketContext(snap *models.MarketSnapshot) models.MarketContext {
	ctx := models.MarketContext{
		ShortTFTrend:     dominantTrend(snap.Structures, lowerTFs),
		MidTFTrend:       dominantTrend(snap.Structures, midTFs),
		HighTFTrend:      dominantTrend(snap.Structures, higherTFs),
		Volatility:       models.NormalVolatility,
		LiquidityContext: "Normal liquidity conditions",
		MarketPhase:      marketPhase(snap.Candles[models.TF1d]),
	}

	if ind, ok := snap.Indicators[models.TF1h]; ok && ind.Volatility.ATRPercent != nil {
		switch atr := *ind.Volatility.ATRPercent; {
		case atr > 5:
			ctx.Volatility = models.ExtremeVolatility
		case atr > 3:
			ctx.Volatility = models.HighVolatility
		case atr < 1:
			ctx.Volatility = models.LowVolatility
		}
	}

	if cs := snap.Candles[models.TF1h]; len(cs) > 0 {
		avg := stat.Mean(models.Volumes(cs), nil)
		recent := stat.Mean(models.Volumes(models.Tail(cs, 5)), nil)
		switch {
		case recent > avg*1.5:
			ctx.LiquidityContext = "Elevated volume - increased liquidity"
		case recent < avg*0.5:
			ctx.LiquidityContext = "Low volume - thin liquidity"
		}
	}
	return ctx
}

// marketPhase is a simplified Wyckoff read of the last 20 daily closes.
func marketPhase(daily []models.Candle) string {
	if len(daily) < 30 {
		return "Undetermined"
	}
	recent := models.Tail(daily, 20)
	closes := models.Closes(recent)
	first := closes[0]
	if first == 0 {
		return "Undetermined"
	}
	change := (closes[len(closes)-1] - first) / first
	mean, std := stat.MeanStdDev(closes, nil)
	cv := std / mean

	switch {
	case change > 0.1 && cv < 0.05:
		return "Markup"
	case change < -0.1 && cv < 0.05:
		return "Markdown"
	case cv < 0.03 && math.Abs(change) < 0.05:
		vols := models.Volumes(recent)
		if stat.Mean(vols[len(vols)-5:], nil) > stat.Mean(vols[:5], nil) {
			return "Accumulation"
		}
		return "Distribution"
	default:
		return "Transition"
	}
}

func summarizeBias(biases []models.TimeframeBias, tfs []models.Timeframe) string {
	var n, bull, bear int
	for _, b := range biases {
		if !containsTF(tfs, b.Timeframe) {
			continue
		}
		n++
		switch b.Bias {
		case models.Bullish:
			bull++
		case models.Bearish:
			bear++
		}
	}
	switch {
	case n == 0:
		return "No data"
	case bull > bear:
		return fmt.Sprintf("Bullish (%d/%d timeframes)", bull, n)
	case bear > bull:
		return fmt.Sprintf("Bearish (%d/%d timeframes)", bear, n)
	default:
		return "Mixed/Neutral"
	}
}

func mtfSummary(biases []models.TimeframeBias) models.MultiTimeframeSummary {
	s := models.MultiTimeframeSummary{
		LowerTFBias:  summarizeBias(biases, lowerTFs),
		MidTFBias:    summarizeBias(biases, midTFs),
		HigherTFBias: summarizeBias(biases, higherTFs),
	}
	switch {
	case allBias(biases, models.Bullish):
		s.Alignment = "Fully Aligned Bullish"
	case allBias(biases, models.Bearish):
		s.Alignment = "Fully Aligned Bearish"
	case strings.HasPrefix(s.LowerTFBias, "Bullish") && strings.HasPrefix(s.MidTFBias, "Bullish"):
		s.Alignment = "Mostly Aligned Bullish"
	case strings.HasPrefix(s.LowerTFBias, "Bearish") && strings.HasPrefix(s.MidTFBias, "Bearish"):
		s.Alignment = "Mostly Aligned Bearish"
	default:
		s.Alignment = "Mixed/Conflicting"
	}
	return s
}

func allBias(biases []models.TimeframeBias, want models.BiasType) bool {
	if len(biases) == 0 {
		return false
	}
	for _, b := range biases {
		if b.Bias != want {
			return false
		}
	}
	return true
}

// keyLevels merges support/resistance of every timeframe: the 5 nearest
// distinct levels on each side of price.
func keyLevels(levels []models.PriceLevel, price float64) models.KeyLevels {
	supSet := make(map[float64]struct{})
	resSet := make(map[float64]struct{})
	for _, l := range levels {
		if l.LevelType == models.Support {
			supSet[l.Price] = struct{}{}
		} else {
			resSet[l.Price] = struct{}{}
		}
	}
	var sup, res []float64
	for p := range supSet {
		if p < price {
			sup = append(sup, p)
		}
	}
	for p := range resSet {
		if p > price {
			res = append(res, p)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sup)))
	sort.Float64s(res)
	if len(sup) > 5 {
		sup = sup[:5]
	}
	if len(res) > 5 {
		res = res[:5]
	}

	kl := models.KeyLevels{
		InvalidationLong:  price * 0.95,
		InvalidationShort: price * 1.05,
		TargetsLong:       firstN(res, 3),
		TargetsShort:      firstN(sup, 3),
	}
	if len(sup) > 0 {
		kl.ImmediateSupport = models.Float(sup[0])
		kl.MajorSupport = models.Float(sup[len(sup)-1])
		kl.InvalidationLong = sup[min(1, len(sup)-1)]
	}
	if len(res) > 0 {
		kl.ImmediateResistance = models.Float(res[0])
		kl.MajorResistance = models.Float(res[len(res)-1])
		kl.InvalidationShort = res[min(1, len(res)-1)]
	}
	return kl
}

// assessConfidence scores alignment, volatility and trend clarity from a
// base of 50.
func assessConfidence(biases []models.TimeframeBias, sum models.MultiTimeframeSummary, ctx models.MarketContext) (models.ConfidenceLevel, string) {
	score := 50
	var reasons []string

	switch {
	case strings.HasPrefix(sum.Alignment, "Fully Aligned"):
		score += 25
		reasons = append(reasons, "Strong multi-timeframe alignment")
	case strings.HasPrefix(sum.Alignment, "Mostly Aligned"):
		score += 15
		reasons = append(reasons, "Good timeframe alignment")
	default:
		score -= 10
		reasons = append(reasons, "Conflicting timeframe signals")
	}

	switch ctx.Volatility {
	case models.NormalVolatility, models.LowVolatility:
		score += 10
		reasons = append(reasons, "Stable volatility environment")
	case models.ExtremeVolatility:
		score -= 15
		reasons = append(reasons, "Extreme volatility reduces predictability")
	}

	trending := 0
	for _, b := range biases {
		if b.Trend != models.Ranging {
			trending++
		}
	}
	if trending >= 4 {
		score += 10
		reasons = append(reasons, "Clear trend structure across timeframes")
	}

	level := models.LowConfidence
	switch {
	case score >= 75:
		level = models.HighConfidence
	case score >= 50:
		level = models.MediumConfidence
	}
	return level, strings.Join(reasons, "; ")
}

// hourOutlook weighs the timeframes up to 1h.
func hourOutlook(biases []models.TimeframeBias, kl models.KeyLevels, ctx models.MarketContext) models.Outlook {
	o := models.Outlook{Probability: "Medium"}
	if ctx.ShortTFTrend == ctx.MidTFTrend {
		o.Probability = "High"
	}
	bull, bear := countBias(biases, append(append([]models.Timeframe{}, lowerTFs...), models.TF1h))
	switch {
	case bull > bear:
		o.Bias = models.Bullish
		o.ExpectedScenario = levelOr("Expect continuation higher toward ", kl.ImmediateResistance, "Expect bullish continuation")
		o.AlternativeScenario = "Pullback to support before continuation"
		o.Invalidation = levelOr("Break below ", kl.ImmediateSupport, "Break of recent swing low")
	case bear > bull:
		o.Bias = models.Bearish
		o.ExpectedScenario = levelOr("Expect continuation lower toward ", kl.ImmediateSupport, "Expect bearish continuation")
		o.AlternativeScenario = "Bounce from support before continuation lower"
		o.Invalidation = levelOr("Break above ", kl.ImmediateResistance, "Break of recent swing high")
	default:
		o.Bias = models.Neutral
		o.ExpectedScenario = "Range-bound price action expected"
		o.AlternativeScenario = "Breakout in either direction possible"
		o.Invalidation = "N/A for neutral outlook"
	}
	return o
}

// dayOutlook weighs 1h and above.
func dayOutlook(biases []models.TimeframeBias, kl models.KeyLevels, ctx models.MarketContext) models.Outlook {
	o := models.Outlook{Probability: "Medium"}
	if ctx.MidTFTrend == ctx.HighTFTrend {
		o.Probability = "High"
	}
	bull, bear := countBias(biases, []models.Timeframe{models.TF1h, models.TF4h, models.TF1d})
	switch {
	case bull > bear:
		o.Bias = models.Bullish
		o.ExpectedScenario = levelOr("Bullish daily close expected. Target zone: ", kl.MajorResistance, "Bullish structure continuation")
		o.AlternativeScenario = "Consolidation before next leg up"
		o.Invalidation = levelOr("Daily close below ", kl.MajorSupport, "Loss of key support structure")
	case bear > bull:
		o.Bias = models.Bearish
		o.ExpectedScenario = levelOr("Bearish daily close expected. Target zone: ", kl.MajorSupport, "Bearish structure continuation")
		o.AlternativeScenario = "Dead cat bounce before continuation"
		o.Invalidation = levelOr("Daily close above ", kl.MajorResistance, "Recovery of key resistance")
	default:
		o.Bias = models.Neutral
		o.ExpectedScenario = "Consolidation day expected with no clear direction"
		o.AlternativeScenario = "Volatility expansion breakout"
		o.Invalidation = "N/A for neutral outlook"
	}
	return o
}

func countBias(biases []models.TimeframeBias, tfs []models.Timeframe) (bull, bear int) {
	for _, b := range biases {
		if !containsTF(tfs, b.Timeframe) {
			continue
		}
		switch b.Bias {
		case models.Bullish:
			bull++
		case models.Bearish:
			bear++
		}
	}
	return bull, bear
}

func levelOr(prefix string, level *float64, fallback string) string {
	if level == nil {
		return fallback
	}
	return printer.Sprintf("%s$%.2f", prefix, *level)
}

func containsTF(tfs []models.Timeframe, tf models.Timeframe) bool {
	for _, t := range tfs {
		if t == tf {
			return true
		}
	}
	return false
}

func firstN(xs []float64, n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < len(xs) && i < n; i++ {
		out = append(out, xs[i])
	}
	return out
}

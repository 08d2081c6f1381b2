package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"TradeLens/internal/domain/models"
	"TradeLens/internal/services/features"
	"TradeLens/internal/services/structure"
)

// estimate is an estimator's raw vote. Penalty feeds the method's confidence curve.
type estimate struct {
	target  float64
	penalty float64
	note    string
}

// estimatorFunc returns false to abstain.
type estimatorFunc func(in *Input) (estimate, bool)

type estimator struct {
	method Method
	fn     estimatorFunc
}

// estimators is the fixed evaluation order; it is also the signal order.
var estimators = []estimator{
	{MethodMomentum, weightedMomentum},
	{MethodRegression, regressionProjection},
	{MethodSRMagnet, srMagnet},
	{MethodMeanReversion, meanReversion},
	{MethodVolatility, volatilityProjection},
	{MethodSwing, swingProjection},
	{MethodVelocity, priceVelocity},
	{MethodCandle, candlePattern},
	{MethodOrderBlock, orderBlockTarget},
	{MethodLiquidity, liquidityTarget},
	{MethodFVG, fvgFillTarget},
	{MethodStatistical, statisticalProjection},
	{MethodDivergence, divergenceTarget},
	{MethodAnchor, currentAnchor},
}

func weightedMomentum(in *Input) (estimate, bool) {
	closes := models.Closes(in.Candles)
	if len(closes) < 3 {
		return estimate{}, false
	}
	rets := features.PctReturns(closes)
	w := features.ExpWeights(len(closes))

	// the first bar has no return and votes zero
	var avg float64
	for i, r := range rets {
		avg += r * w[i+1]
	}
	projected := avg * in.params.Periods * in.params.MomentumMultiplier
	return estimate{
		target:  in.Price * (1 + projected),
		penalty: features.StdDev(rets),
		note:    fmt.Sprintf("Avg return %.3f%%", avg*100),
	}, true
}

func regressionProjection(in *Input) (estimate, bool) {
	y := models.Closes(in.Candles)
	n := len(y)
	if n < 3 {
		return estimate{}, false
	}
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, intercept, slope)
	if math.IsNaN(r2) {
		r2 = 0
	}

	forward := float64(n) + in.params.Periods*in.params.RegressionForward
	predicted := intercept + slope*forward
	blend := in.params.RegressionBlend
	return estimate{
		target:  predicted*blend + in.Price*(1-blend),
		penalty: r2,
		note:    fmt.Sprintf("Slope $%.2f, R²=%.2f", slope, r2),
	}, true
}

func srMagnet(in *Input) (estimate, bool) {
	if in.Price <= 0 {
		return estimate{}, false
	}
	var bullish, bearish int
	for _, b := range in.Biases {
		switch b.Bias {
		case models.Bullish:
			bullish++
		case models.Bearish:
			bearish++
		}
	}

	kl := in.KeyLevels
	approach := in.cfg.SRApproach
	var level float64
	switch {
	case bullish > bearish:
		if !present(kl.ImmediateResistance) {
			return estimate{}, false
		}
		level = *kl.ImmediateResistance
	case bearish > bullish:
		if !present(kl.ImmediateSupport) {
			return estimate{}, false
		}
		level = *kl.ImmediateSupport
	default:
		approach = in.cfg.SRNeutralApproach
		var candidates []float64
		if present(kl.ImmediateSupport) {
			candidates = append(candidates, *kl.ImmediateSupport)
		}
		if present(kl.ImmediateResistance) {
			candidates = append(candidates, *kl.ImmediateResistance)
		}
		if len(candidates) == 0 {
			return estimate{}, false
		}
		level = candidates[0]
		for _, c := range candidates[1:] {
			if math.Abs(c-in.Price) < math.Abs(level-in.Price) {
				level = c
			}
		}
	}

	target := in.Price + (level-in.Price)*approach
	return estimate{
		target:  target,
		penalty: math.Abs(target-in.Price) / in.Price,
		note:    "Nearest level attraction",
	}, true
}

func meanReversion(in *Input) (estimate, bool) {
	if in.Price <= 0 {
		return estimate{}, false
	}
	ma := in.Indicators.MovingAverages
	rw := in.cfg.ReversionWeights

	var sum, total float64
	add := func(v *float64, w float64) {
		if present(v) && w > 0 {
			sum += *v * w
			total += w
		}
	}
	add(ma.EMA21, rw.EMA21)
	add(ma.SMA20, rw.SMA20)
	add(ma.VWAP, rw.VWAP)
	if total == 0 {
		return estimate{}, false
	}

	blend := in.params.MeanReversionBlend
	target := (sum/total)*blend + in.Price*(1-blend)
	return estimate{
		target:  target,
		penalty: math.Abs(target-in.Price) / in.Price,
		note:    "Reversion to MAs",
	}, true
}

func volatilityProjection(in *Input) (estimate, bool) {
	atr := in.Indicators.Volatility.ATR14
	if !present(atr) {
		return estimate{}, false
	}
	rets := features.PctReturns(models.Closes(in.Candles))
	drift := features.Mean(tail(rets, in.cfg.VolatilityWindow))

	mult := in.params.ATRMultiplier
	return estimate{
		target: in.Price + *atr*mult*sign(drift),
		note:   fmt.Sprintf("ATR $%.2f x %g", *atr, mult),
	}, true
}

func swingProjection(in *Input) (estimate, bool) {
	highs := models.Highs(in.Candles)
	lows := models.Lows(in.Candles)
	negLows := make([]float64, len(lows))
	for i, v := range lows {
		negLows[i] = -v
	}

	hp := structure.FindPeaks(highs, in.cfg.SwingDistance)
	lp := structure.FindPeaks(negLows, in.cfg.SwingDistance)
	if len(hp) < 2 || len(lp) < 2 {
		return estimate{}, false
	}
	high := highs[hp[len(hp)-1]]
	low := lows[lp[len(lp)-1]]

	position := 0.5
	if rng := high - low; rng > 0 {
		position = (in.Price - low) / rng
	}

	pull := in.cfg.SwingPull
	target := in.Price
	switch {
	case position > in.cfg.SwingUpper:
		target = high*(1-pull) + low*pull
	case position < in.cfg.SwingLower:
		target = low*(1-pull) + high*pull
	}
	return estimate{
		target: target,
		note:   fmt.Sprintf("Position %.0f%% in range", position*100),
	}, true
}

func priceVelocity(in *Input) (estimate, bool) {
	closes := models.Closes(in.Candles)
	if len(closes) < 3 {
		return estimate{}, false
	}
	velocity := features.Diff(closes)
	accel := features.Diff(velocity)

	v := features.Mean(tail(velocity, in.cfg.VelocityWindow))
	a := features.Mean(tail(accel, in.cfg.VelocityWindow))

	move := v * in.params.Periods * in.params.VelocityDecel
	if (a < 0 && v > 0) || (a > 0 && v < 0) {
		move *= in.cfg.VelocityDamping
	}
	return estimate{
		target: in.Price + move,
		note:   fmt.Sprintf("Velocity $%.2f/period", v),
	}, true
}

func candlePattern(in *Input) (estimate, bool) {
	last := models.Tail(in.Candles, in.cfg.CandleWindow)
	if len(last) == 0 {
		return estimate{}, false
	}
	var body, rng float64
	for _, c := range last {
		body += c.Close - c.Open
		rng += c.High - c.Low
	}
	n := float64(len(last))
	avgBody, avgRange := body/n, rng/n

	target := in.Price + avgRange*in.cfg.CandleRangeShare*sign(avgBody)
	return estimate{
		target: target,
		note:   fmt.Sprintf("Avg body $%.2f", avgBody),
	}, true
}

func orderBlockTarget(in *Input) (estimate, bool) {
	var nearest *models.OrderBlock
	for i := range in.OrderBlocks {
		ob := &in.OrderBlocks[i]
		if ob.Mitigated {
			continue
		}
		if nearest == nil || math.Abs(ob.Mid()-in.Price) < math.Abs(nearest.Mid()-in.Price) {
			nearest = ob
		}
	}
	if nearest == nil {
		return estimate{}, false
	}
	mid := nearest.Mid()
	blend := in.params.OrderBlockBlend
	return estimate{
		target: mid*blend + in.Price*(1-blend),
		note:   fmt.Sprintf("%s at %s", nearest.BlockType, money(mid)),
	}, true
}

func liquidityTarget(in *Input) (estimate, bool) {
	var nearest *models.LiquidityZone
	for i := range in.LiquidityZones {
		lz := &in.LiquidityZones[i]
		if lz.Swept {
			continue
		}
		if nearest == nil || math.Abs(lz.Mid()-in.Price) < math.Abs(nearest.Mid()-in.Price) {
			nearest = lz
		}
	}
	if nearest == nil {
		return estimate{}, false
	}
	blend := in.params.LiquidityBlend
	return estimate{
		target: nearest.Mid()*blend + in.Price*(1-blend),
		note:   fmt.Sprintf("%s liquidity", nearest.ZoneType),
	}, true
}

func fvgFillTarget(in *Input) (estimate, bool) {
	var nearest *models.FairValueGap
	for i := range in.FairValueGaps {
		g := &in.FairValueGaps[i]
		if g.Filled {
			continue
		}
		if nearest == nil || math.Abs(g.Mid()-in.Price) < math.Abs(nearest.Mid()-in.Price) {
			nearest = g
		}
	}
	if nearest == nil {
		return estimate{}, false
	}
	blend := in.params.FVGBlend
	return estimate{
		target: nearest.Mid()*blend + in.Price*(1-blend),
		note:   string(nearest.GapType),
	}, true
}

func statisticalProjection(in *Input) (estimate, bool) {
	rets := features.PctReturns(models.Closes(in.Candles))
	if len(rets) < 2 {
		return estimate{}, false
	}
	mean := features.Mean(rets)
	expected := mean * in.params.Periods
	return estimate{
		target:  in.Price * (1 + expected*in.cfg.StatisticalDamp),
		penalty: math.Abs(features.Skew(rets)),
		note:    fmt.Sprintf("Mean return %.3f%%", mean*100),
	}, true
}

func divergenceTarget(in *Input) (estimate, bool) {
	rsi := in.Indicators.Momentum.RSI14
	recent := models.Tail(in.Candles, in.cfg.DivergenceWindow)
	if !present(rsi) || len(recent) == 0 {
		return estimate{}, false
	}
	trend := recent[len(recent)-1].Close - recent[0].Close

	target := in.Price
	switch {
	case trend > 0 && *rsi < 50:
		target = in.Price * (1 - in.cfg.DivergenceNudge)
	case trend < 0 && *rsi > 50:
		target = in.Price * (1 + in.cfg.DivergenceNudge)
	}
	return estimate{
		target: target,
		note:   fmt.Sprintf("RSI %.1f", *rsi),
	}, true
}

func currentAnchor(in *Input) (estimate, bool) {
	return estimate{target: in.Price, note: "Anchored to current price"}, true
}

// present treats zero like a missing reading.
func present(v *float64) bool {
	return v != nil && *v != 0
}

func tail(xs []float64, n int) []float64 {
	if n <= 0 || len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

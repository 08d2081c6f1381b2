package util

import "strings"

// NormalizeSymbol turns path or lowercase symbols ("btc-usdt") into the
// canonical "BTC/USDT" form.
func NormalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "/")
}

// SafeSymbol makes a symbol usable inside storage keys.
func SafeSymbol(s string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(s)
}

// ExchangeSymbol strips separators for venues that use "BTCUSDT".
func ExchangeSymbol(s string) string {
	return strings.NewReplacer("/", "", "-", "", ":", "").Replace(NormalizeSymbol(s))
}

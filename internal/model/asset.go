package model

import "strings"

// AssetClass distinguishes continuously-traded assets (crypto, 365 trading
// days a year) from conventionally-traded ones (equities, 252).
type AssetClass int

const (
	ClassStock AssetClass = iota
	ClassCrypto
)

func (c AssetClass) String() string {
	if c == ClassCrypto {
		return "crypto"
	}
	return "stock"
}

// ClassifyAsset infers the asset class from the ticker symbol. Hyphenated
// symbols ("BTC-USD") follow the Yahoo Finance crypto pair convention; the
// heuristic is provider-specific.
func ClassifyAsset(symbol string) AssetClass {
	if strings.Contains(symbol, "-") {
		return ClassCrypto
	}
	return ClassStock
}

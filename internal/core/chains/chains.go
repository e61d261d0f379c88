// Package chains holds the closed set of verification codes and the label table
// offered to users when they pick a blockchain
package chains

import (
	"strings"

	"golang.org/x/text/cases"
)

// Code identifies a chain for the verification service
type Code string

// Verification codes understood by the collaborator
const (
	BTC        Code = "BTC"
	BCH        Code = "BCH"
	LTC        Code = "LTC"
	XRP        Code = "XRP"
	ETC        Code = "ETC"
	ADA        Code = "ADA"
	ETH        Code = "ETH"
	TRX        Code = "TRX"
	ALGO       Code = "ALGO"
	XLM        Code = "XLM"
	MATIC      Code = "MATIC"
	OP         Code = "OP"
	BASE       Code = "BASE"
	ZEC        Code = "ZEC"
	DOGE       Code = "DOGE"
	SOL        Code = "SOL"
	BSV        Code = "BSV"
	AVAX       Code = "AVAX"
	DOT        Code = "DOT"
	TON        Code = "TON"
	XTZ        Code = "XTZ"
	TetherOMNI Code = "TetherOMNI"
	NEAR       Code = "NEAR"
	APT        Code = "APT"
)

var codes = []Code{
	BTC, BCH, LTC, XRP, ETC, ADA, ETH, TRX, ALGO, XLM, MATIC, OP,
	BASE, ZEC, DOGE, SOL, BSV, AVAX, DOT, TON, XTZ, TetherOMNI, NEAR, APT,
}

// Option is one selectable entry: a human label and the code it verifies against
type Option struct {
	Label string `json:"label" example:"Binance Smart Chain"`
	Code  Code   `json:"code" example:"ETH"`
}

// options is ordered as presented to users. Several labels share a code on purpose:
// EVM compatible chains are verified under one upstream code
var options = []Option{
	{"Bitcoin", BTC},
	{"Ethereum", ETH},
	{"Tron", TRX},
	{"Solana", SOL},
	{"Dogecoin", DOGE},
	{"Zcash", ZEC},
	{"Binance Smart Chain", ETH},
	{"Litecoin", LTC},
	{"Bitcoin Cash", BCH},
	{"Ethereum Classic", ETC},
	{"Ripple", XRP},
	{"Stellar", XLM},
	{"Polygon", MATIC},
	{"Cardano", ADA},
	{"Base", BASE},
	{"Optimism", OP},
	{"Arbitrum", OP},
	{"Omni", TetherOMNI},
	{"Bitcoin SV", BSV},
	{"Avalanche", AVAX},
	{"Polkadot", DOT},
	{"TON", TON},
	{"NEAR", NEAR},
	{"Tezos", XTZ},
	{"Aptos", APT},
	{"Algorand", ALGO},
}

// Options returns a copy of the label table in presentation order
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Codes returns a copy of all known codes
func Codes() []Code {
	out := make([]Code, len(codes))
	copy(out, codes)
	return out
}

// IsCode reports whether s is exactly a known code
func IsCode(s string) bool {
	for _, c := range codes {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ParseCode resolves s to a known code, ignoring case and surrounding whitespace
func ParseCode(s string) (Code, bool) {
	f := fold(s)
	for _, c := range codes {
		if fold(string(c)) == f {
			return c, true
		}
	}
	return "", false
}

// Resolve accepts either a label ("bitcoin cash") or a code ("bch")
func Resolve(s string) (Code, bool) {
	f := fold(s)
	for _, o := range options {
		if fold(o.Label) == f {
			return o.Code, true
		}
	}
	return ParseCode(s)
}

// LabelsFor lists every label that verifies under c
func LabelsFor(c Code) []string {
	var out []string
	for _, o := range options {
		if o.Code == c {
			out = append(out, o.Label)
		}
	}
	return out
}

func fold(s string) string {
	// Caser is stateful, so build one per call
	return cases.Fold().String(strings.TrimSpace(s))
}

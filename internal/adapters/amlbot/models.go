package amlbot

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	dom "addrcheck/internal/services/verify/domain"
)

// detailSignals caps how many risk sources go into a result detail
const detailSignals = 5

type report struct {
	Result      bool   `json:"result"`
	Description string `json:"description"`
	Data        struct {
		UID       string             `json:"uid"`
		Status    string             `json:"status"`
		RiskScore *float64           `json:"riskscore"`
		Signals   map[string]float64 `json:"signals"`
		Address   string             `json:"address"`
		Network   string             `json:"network"`
	} `json:"data"`
}

func (r *report) pending() bool {
	return strings.EqualFold(r.Data.Status, statusPending)
}

// immediate renders the report as a terminal result
func (r *report) immediate() dom.Immediate {
	content := "Risk score: n/a"
	if r.Data.RiskScore != nil {
		content = fmt.Sprintf("Risk score: %d%%", percent(*r.Data.RiskScore))
	}
	return dom.Immediate{Content: content, Detail: signalsDetail(r.Data.Signals)}
}

// signalsDetail lists the heaviest non-zero sources, e.g. "exchange 62%, mixer 4%"
func signalsDetail(sig map[string]float64) string {
	type kv struct {
		name string
		w    float64
	}
	xs := make([]kv, 0, len(sig))
	for k, v := range sig {
		if v > 0 {
			xs = append(xs, kv{k, v})
		}
	}
	slices.SortFunc(xs, func(a, b kv) int {
		if c := cmp.Compare(b.w, a.w); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	if len(xs) > detailSignals {
		xs = xs[:detailSignals]
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%s %d%%", strings.ReplaceAll(x.name, "_", " "), percent(x.w))
	}
	return strings.Join(parts, ", ")
}

// percent maps a 0..1 weight to a whole percentage
func percent(w float64) int {
	return int(math.Round(min(max(w, 0), 1) * 100))
}

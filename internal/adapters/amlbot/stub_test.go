package amlbot

import (
	"context"
	"strconv"
	"testing"

	"addrcheck/internal/core/chains"
	dom "addrcheck/internal/services/verify/domain"
)

func TestStub_Check(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	res, err := Stub{}.Check(ctx, []dom.Address{"1BoatSLRHtKNngkdXEeobR76b53LETtpyT"}, chains.BTC)
	if err != nil {
		t.Fatal(err)
	}
	if im, ok := res.(dom.Immediate); !ok || im.Content != "immediate_response" || im.Detail != "stub_detail" {
		t.Fatalf("immediate = %#v", res)
	}

	res, err = Stub{}.Check(ctx, []dom.Address{"1BoatSLRHtKNngkdXEeobR76b53LETWAIT"}, chains.BTC)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := res.(dom.Postponed)
	if !ok {
		t.Fatalf("want Postponed, got %#v", res)
	}
	n, err := strconv.Atoi(p.UID)
	if err != nil || n < 1000 || n > 9999 {
		t.Fatalf("uid = %q", p.UID)
	}

	if _, err := (Stub{}).Check(ctx, nil, chains.BTC); err == nil {
		t.Fatal("empty address list should fail")
	}
}

func TestStub_PollRecheckResolves(t *testing.T) {
	t.Parallel()
	res, err := Stub{}.PollRecheck(context.Background(), "1234", "x", chains.BTC)
	if err != nil || res == nil || res.Content != "immediate_response" {
		t.Fatalf("recheck = %v, %v", res, err)
	}
}

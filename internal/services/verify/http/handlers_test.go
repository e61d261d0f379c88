package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"addrcheck/internal/adapters/amlbot"
	phttp "addrcheck/internal/platform/net/http"
	kit "addrcheck/internal/platform/testkit"
	dom "addrcheck/internal/services/verify/domain"
	"addrcheck/internal/services/verify/registry"
	"addrcheck/internal/services/verify/service"
	"addrcheck/internal/services/verify/sink"

	"github.com/go-chi/chi/v5"
)

const (
	plainAddr = "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"
	waitAddr  = "1BoatSLRHtKNngkdXEeobR76b53LETwait"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       int             `json:"code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

type api struct {
	t   *testing.T
	mux *chi.Mux
}

func newAPI(t *testing.T) *api {
	t.Helper()
	mb := sink.NewMailbox(time.Minute)
	svc := service.New(service.Deps{
		Registry: registry.New(0),
		Client:   amlbot.Stub{},
		Sink:     mb,
		Reader:   mb,
	}, service.Config{Poll: service.PollConfig{Interval: 5 * time.Millisecond}})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), svc)
	return &api{t: t, mux: m}
}

func (a *api) do(method, path, body string, out any) (int, envelope) {
	a.t.Helper()
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: bad body %q", method, path, rec.Body.String())
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatal(err)
		}
	}
	return rec.Code, env
}

func (a *api) submit(addr string) dom.Submission {
	a.t.Helper()
	var sub dom.Submission
	code, _ := a.do("POST", "/checks", `{"text":"`+addr+`"}`, &sub)
	if code != stdhttp.StatusCreated || sub.Status != dom.SubmissionAccepted {
		a.t.Fatalf("submit = %d %+v", code, sub)
	}
	return sub
}

func TestSubmit(t *testing.T) {
	t.Parallel()
	a := newAPI(t)

	sub := a.submit("  " + plainAddr + " ")
	if len(sub.RequestID) != 32 || sub.Address != plainAddr || len(sub.Choices) == 0 {
		t.Fatalf("submission = %+v", sub)
	}

	var rej dom.Submission
	code, _ := a.do("POST", "/checks", `{"text":"hello there"}`, &rej)
	if code != 200 || rej.Status != dom.SubmissionRejected || rej.RequestID != "" {
		t.Fatalf("reject = %d %+v", code, rej)
	}

	code, env := a.do("POST", "/checks", `{}`, nil)
	if code != 400 || env.Field != "text" {
		t.Fatalf("missing text = %d %+v", code, env)
	}
}

func TestChoose_ImmediateByLabel(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	sub := a.submit(plainAddr)

	var out dom.Outcome
	code, _ := a.do("POST", "/checks/"+string(sub.RequestID)+"/choice", `{"blockchain":"bitcoin"}`, &out)
	if code != 200 || out.Status != dom.OutcomeDelivered || out.Result == nil || out.Result.Content != "immediate_response" {
		t.Fatalf("choose = %d %+v", code, out)
	}
	if out.Blockchain != "BTC" {
		t.Fatalf("blockchain = %q", out.Blockchain)
	}

	code, _ = a.do("POST", "/checks/"+string(sub.RequestID)+"/choice", `{"blockchain":"BTC"}`, &out)
	if code != 200 || out.Status != dom.OutcomeExpired {
		t.Fatalf("second choose = %d %+v", code, out)
	}
}

func TestChoose_PostponedThenDelivered(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	sub := a.submit(waitAddr)
	path := "/checks/" + string(sub.RequestID)

	var out dom.Outcome
	code, _ := a.do("POST", path+"/choice", `{"blockchain":"ETH"}`, &out)
	if code != stdhttp.StatusAccepted || out.Status != dom.OutcomeWorking {
		t.Fatalf("choose = %d %+v", code, out)
	}
	kit.MustContain(t, out.Message, "Checking the address "+waitAddr+" on blockchain ETH")

	kit.Eventually(t, 2*time.Second, func() bool {
		var got dom.Outcome
		a.do("GET", path, "", &got)
		return got.Status == dom.OutcomeDelivered && got.Result != nil
	}, "deferred result reaches the mailbox")
}

func TestChoose_BadInput(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	sub := a.submit(plainAddr)

	code, env := a.do("POST", "/checks/"+string(sub.RequestID)+"/choice", `{"blockchain":"Monero"}`, nil)
	if code != 400 || env.Field != "blockchain" {
		t.Fatalf("unknown chain = %d %+v", code, env)
	}
	kit.MustContain(t, env.Error, "supported blockchain")

	var out dom.Outcome
	code, _ = a.do("POST", "/checks/nope/choice", `{"blockchain":"BTC"}`, &out)
	if code != 200 || out.Status != dom.OutcomeExpired {
		t.Fatalf("unknown id = %d %+v", code, out)
	}
}

func TestCallback(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	sub := a.submit(plainAddr)

	var out dom.Outcome
	code, _ := a.do("POST", "/callbacks", `{"data":"`+string(sub.RequestID)+`:TRX"}`, &out)
	if code != 200 || out.Status != dom.OutcomeDelivered {
		t.Fatalf("callback = %d %+v", code, out)
	}
	code, _ = a.do("POST", "/callbacks", `{"data":"garbage"}`, &out)
	if code != 200 || out.Status != dom.OutcomeIgnored {
		t.Fatalf("garbage callback = %d %+v", code, out)
	}
}

func TestResultPending(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	sub := a.submit(plainAddr)

	var out dom.Outcome
	a.do("GET", "/checks/"+string(sub.RequestID), "", &out)
	if out.Status != dom.OutcomePending {
		t.Fatalf("status = %q", out.Status)
	}
	a.do("GET", "/checks/unknown", "", &out)
	if out.Status != dom.OutcomeExpired {
		t.Fatalf("unknown status = %q", out.Status)
	}
}

func TestChainsAndHistory(t *testing.T) {
	t.Parallel()
	a := newAPI(t)

	var opts []struct{ Label, Code string }
	code, _ := a.do("GET", "/chains", "", &opts)
	if code != 200 || len(opts) < 24 || opts[0].Code == "" {
		t.Fatalf("chains = %d %v", code, opts)
	}

	code, env := a.do("GET", "/history?address="+plainAddr, "", nil)
	if code != 503 {
		t.Fatalf("history without journal = %d %+v", code, env)
	}
	code, env = a.do("GET", "/history?address="+plainAddr+"&limit=ten", "", nil)
	if code != 422 || env.Field != "limit" {
		t.Fatalf("bad limit = %d %+v", code, env)
	}
}

package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapUnwrapAndCode(t *testing.T) {
	t.Parallel()

	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	cause := stderrs.New("dial tcp: refused")
	err := Wrapf(cause, ErrorCodeUpstream, "check %s", "BTC")
	if err.Error() != "check BTC: dial tcp: refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
	if Root(err) != cause {
		t.Fatal("Root did not return the cause")
	}

	// foreign wrapping keeps the inner code visible
	outer := fmt.Errorf("dispatch: %w", err)
	if !IsCode(outer, ErrorCodeUpstream) {
		t.Fatalf("CodeOf(outer) = %v", CodeOf(outer))
	}
	if HTTPStatus(outer) != http.StatusBadGateway {
		t.Fatalf("HTTPStatus = %d", HTTPStatus(outer))
	}
	if CodeOf(stderrs.New("x")) != ErrorCodeUnknown {
		t.Fatal("foreign errors should be Unknown")
	}
}

func TestWireAndField(t *testing.T) {
	t.Parallel()

	if (WireFrom(nil) != Wire{}) {
		t.Fatal("WireFrom(nil) should be zero")
	}
	w := WireFrom(WithField(InvalidArgf("unknown blockchain %q", "FOO"), "blockchain"))
	if w.Code != ErrorCodeInvalidArgument || w.Field != "blockchain" || w.Message != `unknown blockchain "FOO"` {
		t.Fatalf("unexpected wire %+v", w)
	}
	fw := WireFrom(stderrs.New("plain"))
	if fw.Code != ErrorCodeUnknown || fw.Message != "plain" {
		t.Fatalf("foreign wire %+v", fw)
	}
	plain := stderrs.New("plain")
	if WithField(plain, "x") != plain {
		t.Fatal("WithField should return foreign errors unchanged")
	}
}

func TestSugarCodes(t *testing.T) {
	t.Parallel()

	cases := map[ErrorCode]error{
		ErrorCodeNotFound:     NotFoundf("a"),
		ErrorCodeDuplicateKey: DuplicateKeyf("b"),
		ErrorCodeConflict:     Conflictf("c"),
		ErrorCodeJSON:         JSONErrf("d"),
		ErrorCodePanic:        PanicErrf("e"),
		ErrorCodeUnavailable:  Unavailablef("f"),
		ErrorCodeUpstream:     Upstreamf("g"),
		ErrorCodeUnknown:      Internalf("h"),
	}
	for want, err := range cases {
		if CodeOf(err) != want {
			t.Fatalf("CodeOf(%v) = %v, want %v", err, CodeOf(err), want)
		}
	}
}

// Package amlbot is the HTTP verification client for the AMLBot address screening API
package amlbot

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"addrcheck/internal/core/chains"
	perr "addrcheck/internal/platform/errors"
	"addrcheck/internal/platform/logger"
	"addrcheck/internal/platform/net/httpclient"
	dom "addrcheck/internal/services/verify/domain"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	baseURLDefault   = "https://extrnlapiendpoint.silencatech.com"
	defaultTimeout   = 15 * time.Second
	defaultLocale    = "en_US"
	defaultRetryWait = 500 * time.Millisecond
	maxBody          = 1 << 20

	statusPending = "pending"
)

// Options configures the Client
type Options struct {
	BaseURL    string
	AccessID   string
	AccessKey  string
	Locale     string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	Transport  http.RoundTripper
}

// Client talks to AMLBot over form encoded POSTs
type Client struct {
	hc   *retryablehttp.Client
	opts Options
}

var _ dom.VerificationClient = (*Client)(nil)

// NewClient validates credentials and fills defaults
func NewClient(o Options) (*Client, error) {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	u, err := url.Parse(o.BaseURL)
	if err != nil || !u.IsAbs() {
		return nil, perr.InvalidArgf("amlbot base url %q is not absolute", o.BaseURL)
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if strings.TrimSpace(o.AccessID) == "" || strings.TrimSpace(o.AccessKey) == "" {
		return nil, perr.InvalidArgf("amlbot access id and key are required")
	}
	if o.Locale == "" {
		o.Locale = defaultLocale
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RetryWait <= 0 {
		o.RetryWait = defaultRetryWait
	}
	return &Client{
		opts: o,
		hc: httpclient.New(httpclient.Options{
			Name:         "amlbot",
			Timeout:      o.Timeout,
			MaxRetries:   o.MaxRetries,
			RetryWaitMin: o.RetryWait,
			RetryWaitMax: 8 * o.RetryWait,
			Transport:    o.Transport,
		}),
	}, nil
}

// Check screens the first address on code. Pending reports become Postponed
func (c *Client) Check(ctx context.Context, addrs []dom.Address, code chains.Code) (dom.CheckResult, error) {
	if len(addrs) == 0 {
		return nil, perr.InvalidArgf("no address to check")
	}
	addr := string(addrs[0])
	form := url.Values{
		"address":  {addr},
		"asset":    {string(code)},
		"accessId": {c.opts.AccessID},
		"locale":   {c.opts.Locale},
		"hash":     {c.sign(addr)},
	}
	rep, err := c.post(ctx, "/", form)
	if err != nil {
		return nil, err
	}
	if rep.pending() {
		if rep.Data.UID == "" {
			return nil, perr.Upstreamf("amlbot pending report without uid")
		}
		return dom.Postponed{UID: rep.Data.UID, Address: addrs[0], Blockchain: code}, nil
	}
	return rep.immediate(), nil
}

// PollRecheck fetches the report for uid; nil while it is still pending
func (c *Client) PollRecheck(ctx context.Context, uid string, _ dom.Address, _ chains.Code) (*dom.Immediate, error) {
	form := url.Values{
		"uid":      {uid},
		"accessId": {c.opts.AccessID},
		"locale":   {c.opts.Locale},
		"hash":     {c.sign(uid)},
	}
	rep, err := c.post(ctx, "/recheck", form)
	if err != nil {
		return nil, err
	}
	if rep.pending() {
		return nil, nil
	}
	res := rep.immediate()
	return &res, nil
}

// sign is md5("<subject>:<key>:<id>") in hex, as the API expects
func (c *Client) sign(subject string) string {
	sum := md5.Sum([]byte(subject + ":" + c.opts.AccessKey + ":" + c.opts.AccessID))
	return hex.EncodeToString(sum[:])
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (*report, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, []byte(form.Encode()))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "amlbot new request failed")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	httpclient.WithRequestID(ctx, req.Header)

	log := logger.C(ctx)
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Dur("elapsed", time.Since(start)).Msg("amlbot request failed")
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "amlbot %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "amlbot read body")
	}
	log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("amlbot response")

	if resp.StatusCode != http.StatusOK {
		return nil, perr.Upstreamf("amlbot %s answered %d: %s", path, resp.StatusCode, truncate(string(body), 200))
	}
	var rep report
	if err := json.Unmarshal(body, &rep); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUpstream, "amlbot decode")
	}
	if !rep.Result {
		return nil, perr.Upstreamf("amlbot rejected request: %s", rep.Description)
	}
	return &rep, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

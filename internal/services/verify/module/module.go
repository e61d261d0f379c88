// Package module wires the verification service into the API using modkit
package module

import (
	"context"
	"time"

	"addrcheck/internal/adapters/amlbot"
	"addrcheck/internal/modkit"
	"addrcheck/internal/modkit/httpkit"
	"addrcheck/internal/platform/logger"
	dom "addrcheck/internal/services/verify/domain"
	verifyhttp "addrcheck/internal/services/verify/http"
	"addrcheck/internal/services/verify/registry"
	"addrcheck/internal/services/verify/repo"
	"addrcheck/internal/services/verify/service"
	"addrcheck/internal/services/verify/sink"
)

const schemaTimeout = 10 * time.Second

// Ports exposed by the verify module
type Ports struct {
	Service dom.ServicePort
	Client  dom.VerificationClient
	Mailbox *sink.Mailbox
}

// Module implements modkit.Module for address verification
type Module struct {
	b   modkit.Built
	svc *service.Svc
}

// New builds the module from deps.Cfg. A Ports value passed with modkit.WithPorts may
// inject the Client; everything else comes from config
func New(ctx context.Context, deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("verify"),
	}, opts...)...)
	o := FromConfig(deps.Cfg)
	log := logger.Named("verify")

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	client := injected.Client
	if client == nil {
		c, err := newClient(o)
		if err != nil {
			return nil, err
		}
		client = c
	}

	mailbox := sink.NewMailbox(o.ResultTTL)
	var out dom.ResultSink = sink.Multi{mailbox, sink.Log{}}
	if o.WebhookURL != "" {
		out = sink.Multi{mailbox, sink.Fallback{
			Primary: sink.NewWebhook(sink.WebhookOptions{
				URL:        o.WebhookURL,
				Timeout:    o.WebhookTimeout,
				MaxRetries: o.WebhookRetries,
			}),
			Fallback: sink.Log{},
		}}
	}

	var journal dom.Journal
	if deps.PG != nil {
		sctx, cancel := context.WithTimeout(ctx, schemaTimeout)
		err := repo.EnsureSchema(sctx, deps.PG)
		cancel()
		if err != nil {
			return nil, err
		}
		journal = repo.NewPG().Bind(deps.PG)
	} else {
		log.Info().Msg("no database configured; history disabled")
	}

	svc := service.New(service.Deps{
		Registry: registry.New(o.PendingTTL),
		Client:   client,
		Sink:     out,
		Reader:   mailbox,
		Journal:  journal,
	}, service.Config{
		Poll:         o.Poll,
		CheckTimeout: o.CheckTimeout,
	})

	b.Ports = Ports{Service: svc, Client: client, Mailbox: mailbox}
	log.Info().
		Str("client", o.Client).
		Dur("poll_interval", o.Poll.Interval).
		Int("poll_max_attempts", o.Poll.MaxAttempts).
		Bool("webhook", o.WebhookURL != "").
		Bool("journal", journal != nil).
		Msg("verify module ready")
	return &Module{b: b, svc: svc}, nil
}

func newClient(o Options) (dom.VerificationClient, error) {
	if o.Client != clientAMLBot {
		return amlbot.Stub{}, nil
	}
	return amlbot.NewClient(amlbot.Options{
		BaseURL:    o.AMLBot.BaseURL,
		AccessID:   o.AMLBot.AccessID,
		AccessKey:  o.AMLBot.AccessKey,
		Locale:     o.AMLBot.Locale,
		Timeout:    o.AMLBot.Timeout,
		MaxRetries: o.AMLBot.MaxRetries,
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.b.Ports }

// Service returns the running service
func (m *Module) Service() *service.Svc { return m.svc }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		if len(m.b.Mw) > 0 {
			rr.Use(m.b.Mw...)
		}
		verifyhttp.Register(rr, m.svc)
		m.b.Register(rr)
	}
	if m.b.Prefix == "" {
		r.Group(mount)
	} else {
		r.Route(m.b.Prefix, mount)
	}
	verifyhttp.RegisterDocs()
}

// Shutdown stops the poll loops
func (m *Module) Shutdown(ctx context.Context) error { return m.svc.Shutdown(ctx) }

package cli

import (
	"context"
	"net/http"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// runtimeConfig groups the flags needed to assemble the use cases. serve
// and scan share it.
type runtimeConfig struct {
	business config.Business
	repo     config.Repository
	redis    config.Redis
	auth     config.Auth
	gemini   config.Gemini
	calendar config.Calendar
	external config.External
	slack    config.Slack
	nats     config.NATS
}

func (x *runtimeConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.business.Flags()...)
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.redis.Flags()...)
	flags = append(flags, x.auth.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	flags = append(flags, x.calendar.Flags()...)
	flags = append(flags, x.external.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	flags = append(flags, x.nats.Flags()...)
	return flags
}

// runtime is the assembled application. close releases every connection
// in reverse order of acquisition.
type runtime struct {
	uc      *usecase.UseCases
	closers []func()
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// build wires repository, integrations, calendar, LLM and observers into
// the use cases. requireAuth is false for commands without an HTTP surface.
func (x *runtimeConfig) build(ctx context.Context, baseURL string, requireAuth bool) (*runtime, error) {
	logger := logging.From(ctx)
	rt := &runtime{}
	built := false
	defer func() {
		if !built {
			rt.close()
		}
	}()

	biz, err := x.business.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load business config")
	}

	policy, err := x.external.Policy()
	if err != nil {
		return nil, err
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	rt.closers = append(rt.closers, closeRepository(repo))
	if x.redis.IsConfigured() {
		withRedis, err := x.redis.Configure(ctx, repo)
		if err != nil {
			return nil, err
		}
		repo = withRedis
		rt.closers[len(rt.closers)-1] = closeRepository(repo)
	}

	integrations, err := integration.Build(ctx, biz, &http.Client{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build integrations")
	}
	dispatcher := integration.NewDispatcher(integrations, integration.WithRetryPolicy(policy))

	opts := []usecase.Option{
		usecase.WithBusiness(biz),
		usecase.WithDispatcher(dispatcher),
		usecase.WithCalendar(x.calendar.Configure(repo.CalendarCredential(), policy)),
	}

	if requireAuth || x.auth.IsNoAuthMode() {
		authn, err := x.auth.Configure(repo.Token())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure authentication")
		}
		if authn.IsNoAuthn() {
			logger.Warn("Running in no-auth mode (development only)", "auth", x.auth)
		}
		opts = append(opts, usecase.WithAuth(authn))
	}

	llm, err := x.gemini.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if llm != nil {
		logger.Info("LLM chat replies enabled", "gemini", x.gemini)
		opts = append(opts, usecase.WithLLMClient(llm))
	} else {
		logger.Info("Gemini project not configured, chat uses canned replies")
	}

	notifier, err := x.slack.Configure(baseURL)
	if err != nil {
		return nil, err
	}
	if notifier != nil {
		logger.Info("Slack notifications enabled", "slack", x.slack)
		opts = append(opts, usecase.WithObserver(notifier))
	}

	publisher, err := x.nats.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if publisher != nil {
		rt.closers = append(rt.closers, publisher.Close)
		opts = append(opts, usecase.WithObserver(publisher))
	}

	rt.uc = usecase.New(repo, opts...)
	built = true
	logger.Info("Use cases configured",
		"org_id", biz.OrgID,
		"platforms", dispatcher.Platforms(),
		"backend", x.repo.Backend(),
	)
	return rt, nil
}

func closeRepository(repo interfaces.Repository) func() {
	return func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	}
}

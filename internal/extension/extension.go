package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/teemow/gworkspace/internal/auth"
	"github.com/teemow/gworkspace/internal/google"
	"github.com/teemow/gworkspace/internal/instrumentation"
	"github.com/teemow/gworkspace/internal/logging"
)

// Recorder receives the metrics of command runs. *instrumentation.Metrics
// implements it.
type Recorder interface {
	RecordCommand(ctx context.Context, command, status, kind string, duration time.Duration)
	RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration)
	RecordCredentialResolution(ctx context.Context, source string)
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// AuthFactory builds the Auth collaborator for an api key.
type AuthFactory func(apiKey string) (google.Authenticator, error)

// Options are the constructor arguments of an Extension.
type Options struct {
	// APIKey identifies the user towards the agent platform. When set, an
	// Authenticator is built with NewAuthenticator.
	APIKey string

	// AccessToken is the initial Google access token.
	AccessToken string

	// ConversationDirectory receives downloaded attachments
	// (default: DefaultAttachmentsDir).
	ConversationDirectory string

	// Authenticator is used as the Auth collaborator when no APIKey is given.
	Authenticator google.Authenticator

	// NewAuthenticator builds the Auth collaborator for APIKey
	// (default: an auth.Client for Config.AgentURI).
	NewAuthenticator AuthFactory

	Logger   logging.Logger
	Recorder Recorder

	// HTTPClient is the base client Google API requests and token refreshes
	// are sent through (default: http.DefaultClient).
	HTTPClient *http.Client

	// Endpoint overrides the base URL of every Google API.
	Endpoint string
}

// Extension is the Google Workspace extension.
type Extension struct {
	config     Config
	commands   []string
	enabled    map[string]bool
	resolver   *google.Resolver
	timezone   string
	dir        string
	logger     logging.Logger
	recorder   Recorder
	httpClient *http.Client
	endpoint   string
}

// New builds an Extension. It never fails: construction problems are logged
// and leave the extension with less capability.
func New(ctx context.Context, cfg Config, opts Options) *Extension {
	e := &Extension{
		config:     cfg,
		commands:   EnabledCommands(cfg),
		timezone:   cfg.Timezone,
		dir:        opts.ConversationDirectory,
		logger:     opts.Logger,
		recorder:   opts.Recorder,
		httpClient: opts.HTTPClient,
		endpoint:   opts.Endpoint,
	}
	if e.logger == nil {
		e.logger = logging.DefaultLogger()
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if e.dir == "" {
		e.dir = DefaultAttachmentsDir
	}

	e.enabled = make(map[string]bool, len(e.commands))
	for _, name := range e.commands {
		e.enabled[name] = true
	}

	authenticator := opts.Authenticator
	if opts.APIKey != "" {
		factory := opts.NewAuthenticator
		if factory == nil {
			factory = e.defaultAuthFactory
		}
		a, err := factory(opts.APIKey)
		if err != nil {
			e.logger.Error("error initializing Google extension", logging.Err(err))
		} else {
			authenticator = a
		}
	}

	if authenticator != nil {
		if tz, err := authenticator.Timezone(ctx); err != nil {
			e.logger.Error("error initializing Google extension", logging.Err(err))
		} else if tz != "" {
			e.timezone = tz
		}
	}

	e.resolver = google.NewResolver(cfg.oauth(), opts.AccessToken, authenticator)

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		e.logger.Error("failed to create attachments directory", "dir", e.dir, logging.Err(err))
	}

	e.logger.Debug("google extension initialized",
		"commands", len(e.commands),
		"authenticator", authenticator != nil,
		"timezone", e.timezone)

	return e
}

func (e *Extension) defaultAuthFactory(apiKey string) (google.Authenticator, error) {
	if e.config.AgentURI == "" {
		return nil, errors.New("agent URI is not configured")
	}
	return auth.NewClient(e.config.AgentURI, apiKey, nil), nil
}

// Commands returns the advertised command names, in table order.
func (e *Extension) Commands() []string {
	return append([]string(nil), e.commands...)
}

// Command returns the advertised command name.
func (e *Extension) Command(name string) (Command, bool) {
	if !e.enabled[name] {
		return Command{}, false
	}
	return Lookup(name)
}

// Authenticator returns the Auth collaborator, or nil when there is none.
func (e *Extension) Authenticator() google.Authenticator {
	return e.resolver.Authenticator()
}

// AccessToken returns the current Google access token.
func (e *Extension) AccessToken() string {
	return e.resolver.AccessToken()
}

// Timezone returns the zone new calendar items are created in.
func (e *Extension) Timezone() string {
	return e.timezone
}

// AttachmentsDir returns the directory attachments are saved to.
func (e *Extension) AttachmentsDir() string {
	return e.dir
}

// Authenticate resolves the credential for one command run.
func (e *Extension) Authenticate(ctx context.Context) (*google.Credential, error) {
	cred, err := e.resolver.Authenticate(ctx)
	switch {
	case errors.Is(err, google.ErrTokenRefresh):
		e.recorder.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
	case err == nil && cred.Source == google.SourceRefreshed:
		e.recorder.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
	}
	if err != nil {
		return nil, err
	}
	e.recorder.RecordCredentialResolution(ctx, string(cred.Source))
	return cred, nil
}

// clientOptions authenticates and returns the options for one service client.
func (e *Extension) clientOptions(ctx context.Context) ([]option.ClientOption, error) {
	cred, err := e.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if e.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, cred.TokenSource(ctx))))
	} else {
		opts = append(opts, cred.ClientOptions(ctx)...)
	}
	if e.endpoint != "" {
		opts = append(opts, option.WithEndpoint(e.endpoint))
	}
	return opts, nil
}

// Execute runs the advertised command name with args. The returned Result
// always carries the command's value: the fallback when it failed.
func (e *Extension) Execute(ctx context.Context, name string, args Args) Result {
	cmd, ok := e.Command(name)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrCommandNotFound, name)
		e.logger.Info("unknown command", logging.Command(name))
		return Result{Err: err, Kind: Classify(err)}
	}
	return e.invoke(ctx, cmd, func(ctx context.Context) (any, error) {
		return cmd.run(ctx, e, args)
	})
}

// call runs the table entry name directly, advertised or not.
func (e *Extension) call(ctx context.Context, name string, fn func(context.Context) (any, error)) Result {
	cmd, _ := Lookup(name)
	return e.invoke(ctx, cmd, fn)
}

func (e *Extension) invoke(ctx context.Context, cmd Command, fn func(context.Context) (any, error)) Result {
	start := time.Now()
	ctx, span := instrumentation.StartCommandSpan(ctx, cmd.Name, cmd.Service, cmd.Operation)
	defer span.End()

	value, err := guard(ctx, fn)
	duration := time.Since(start)

	if err != nil {
		kind := Classify(err)
		instrumentation.FinishSpan(span, err)
		e.recorder.RecordGoogleAPIOperation(ctx, cmd.Service, cmd.Operation, instrumentation.StatusError, duration)
		e.recorder.RecordCommand(ctx, cmd.Name, instrumentation.StatusError, string(kind), duration)
		e.logAt(cmd.level, cmd.failure,
			logging.Command(cmd.Name),
			logging.Service(cmd.Service),
			logging.Kind(string(kind)),
			logging.Err(err))
		return Result{Value: cmd.Fallback, Err: err, Kind: kind}
	}

	instrumentation.FinishSpan(span, nil)
	e.recorder.RecordGoogleAPIOperation(ctx, cmd.Service, cmd.Operation, instrumentation.StatusSuccess, duration)
	e.recorder.RecordCommand(ctx, cmd.Name, instrumentation.StatusSuccess, "", duration)
	e.logger.Debug("command completed",
		logging.Command(cmd.Name),
		logging.Service(cmd.Service),
		logging.Duration(duration))
	return Result{Value: value}
}

// guard runs fn and turns a panic into an error, so a malformed response
// still ends in the command's fallback.
func guard(ctx context.Context, fn func(context.Context) (any, error)) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("command panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (e *Extension) logAt(level slog.Level, msg string, args ...any) {
	switch {
	case level >= slog.LevelError:
		e.logger.Error(msg, args...)
	case level >= slog.LevelWarn:
		e.logger.Warn(msg, args...)
	case level >= slog.LevelInfo:
		e.logger.Info(msg, args...)
	default:
		e.logger.Debug(msg, args...)
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordCommand(context.Context, string, string, string, time.Duration)            {}
func (nopRecorder) RecordGoogleAPIOperation(context.Context, string, string, string, time.Duration) {}
func (nopRecorder) RecordCredentialResolution(context.Context, string)                               {}
func (nopRecorder) RecordOAuthTokenRefresh(context.Context, string)                                  {}

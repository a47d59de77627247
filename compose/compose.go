// Package compose initializes an authkit app's session stack with sane defaults.
//
// A [Kit] is the composition root: it constructs the identity provider, the
// profile service client, the local cache, and the session controller wired to
// all three, then hands them to the application. Nothing here is a global;
// callers thread the Kit (or just its Controller) down explicitly.
//
// A developer configures a Kit through functional options and environment
// variables, read from a ".env" file when one sits next to the executable:
//   - ENVIRONMENT: the environment the application is running in; cf. [authkit.Environment]
//   - LOG_LEVEL: the level at which to begin logging; default: INFO
//   - SENTRY_DSN: when set, errors ship to Sentry; cf. [logger.New]
//   - IDENTITY_BASE_URL: the identity provider's REST surface; a stub provider
//     stands in when unset and the Environment supports service stubs
//   - IDENTITY_API_KEY: the identity provider project key
//   - PROFILE_SERVICE_URL: the profile service's base URL
//   - REDIS_URL: when set, the session cache backs onto Redis
//   - CACHE_DIR: the directory for the file-backed session cache; default: the
//     user config directory
package compose

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	_ "github.com/joho/godotenv/autoload"

	"github.com/twiller-app/authkit"
	"github.com/twiller-app/authkit/cache"
	"github.com/twiller-app/authkit/identity"
	"github.com/twiller-app/authkit/logger"
	"github.com/twiller-app/authkit/profiles"
	"github.com/twiller-app/authkit/session"
)

// A Kit manages and exposes the session stack of an authkit app.
type Kit struct {
	Controller *session.Controller
	Logger     logger.Logger

	env      authkit.Environment
	provider identity.Provider
	profiles session.ProfileService
	cache    cache.Store
	notifier session.Notifier
}

// An Option configures the *Kit under construction,
// taking precedence over environment-derived defaults.
type Option func(*Kit) error

// WithEnv pins the Environment instead of reading ENVIRONMENT.
func WithEnv(env authkit.Environment) Option {
	return func(k *Kit) error {
		if err := env.Valid(); err != nil {
			return fmt.Errorf("%w: %s is not an Environment", authkit.ErrBadConfig, env)
		}

		k.env = env
		return nil
	}
}

// WithLogger supplies the logger.Logger every component logs through.
func WithLogger(l logger.Logger) Option {
	return func(k *Kit) error {
		k.Logger = l
		return nil
	}
}

// WithProvider supplies the identity provider the controller delegates to.
func WithProvider(p identity.Provider) Option {
	return func(k *Kit) error {
		k.provider = p
		return nil
	}
}

// WithProfiles supplies the profile service client.
func WithProfiles(ps session.ProfileService) Option {
	return func(k *Kit) error {
		k.profiles = ps
		return nil
	}
}

// WithCache supplies the local session cache.
func WithCache(s cache.Store) Option {
	return func(k *Kit) error {
		k.cache = s
		return nil
	}
}

// WithNotifier supplies the user-facing alert capability
// federated sign-in failures surface through.
func WithNotifier(n session.Notifier) Option {
	return func(k *Kit) error {
		k.notifier = n
		return nil
	}
}

// New constructs a Kit from the provided options,
// filling anything not supplied from environment variables.
func New(opts ...Option) (*Kit, error) {
	k := new(Kit)
	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, err
		}
	}

	if k.env == "" {
		k.env = authkit.EnvVarOrEnv("ENVIRONMENT", authkit.Development)
	}

	if k.Logger == nil {
		k.Logger = logger.New(
			logger.WithEnv(k.env.String()),
			logger.WithLevel(logger.NewLogLevel(authkit.EnvVarOrString("LOG_LEVEL", "INFO"))),
		)
	}

	if err := k.defaultProvider(); err != nil {
		return nil, err
	}

	if err := k.defaultProfiles(); err != nil {
		return nil, err
	}

	if err := k.defaultCache(); err != nil {
		return nil, err
	}

	c, err := session.NewController(session.Config{
		Provider: k.provider,
		Profiles: k.profiles,
		Cache:    k.cache,
		Logger:   k.Logger,
		Notifier: k.notifier,
	})
	if err != nil {
		return nil, err
	}

	k.Controller = c
	return k, nil
}

// Close tears down the Kit's session controller.
func (k *Kit) Close() {
	if k.Controller != nil {
		k.Controller.Close()
	}
}

// Env returns the Environment the Kit composed for.
func (k *Kit) Env() authkit.Environment { return k.env }

func (k *Kit) defaultProvider() error {
	if k.provider != nil {
		return nil
	}

	baseURL := authkit.EnvVarOrString("IDENTITY_BASE_URL", "")
	if baseURL == "" {
		if !k.env.CanUseServiceStub() {
			return fmt.Errorf("%w: IDENTITY_BASE_URL must be set in %s", authkit.ErrBadConfig, k.env)
		}

		k.Logger.Info("IDENTITY_BASE_URL unset, stubbing identity provider", nil)
		k.provider = identity.NewStub(nil)
		return nil
	}

	p, err := identity.NewRestProvider(identity.Config{
		BaseURL: baseURL,
		APIKey:  authkit.EnvVarOrString("IDENTITY_API_KEY", ""),
		Timeout: authkit.EnvVarOrDuration("IDENTITY_TIMEOUT", 0),
	})
	if err != nil {
		return err
	}

	k.provider = p
	return nil
}

func (k *Kit) defaultProfiles() error {
	if k.profiles != nil {
		return nil
	}

	baseURL := authkit.EnvVarOrString("PROFILE_SERVICE_URL", "")
	if baseURL == "" {
		return fmt.Errorf("%w: PROFILE_SERVICE_URL must be set", authkit.ErrBadConfig)
	}

	c, err := profiles.New(profiles.Config{
		BaseURL: baseURL,
		Timeout: authkit.EnvVarOrDuration("PROFILE_SERVICE_TIMEOUT", 0),
	})
	if err != nil {
		return err
	}

	k.profiles = c
	return nil
}

func (k *Kit) defaultCache() error {
	if k.cache != nil {
		return nil
	}

	if uri := authkit.EnvVarOrString("REDIS_URL", ""); uri != "" {
		opts, err := redis.ParseURL(uri)
		if err != nil {
			return fmt.Errorf("%w: REDIS_URL is not valid: %s", authkit.ErrBadConfig, err)
		}

		k.cache = cache.NewRedisStore(opts)
		return nil
	}

	if k.env.IsTesting() {
		k.cache = cache.NewMemStore()
		return nil
	}

	fs, err := cache.NewFileStore(authkit.EnvVarOrString("CACHE_DIR", ""))
	if err != nil {
		return fmt.Errorf("%w: cannot set up file cache: %s", authkit.ErrBadConfig, err)
	}

	k.cache = fs
	return nil
}

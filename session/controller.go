package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/twiller-app/authkit"
	"github.com/twiller-app/authkit/cache"
	"github.com/twiller-app/authkit/identity"
	"github.com/twiller-app/authkit/logger"
)

// The ProfileService interface is what the Controller needs from the
// profile service: fetch by email, create, and full-record update.
type ProfileService interface {
	FetchByEmail(ctx context.Context, email string) (authkit.UserProfile, error)
	Create(ctx context.Context, reg authkit.Registration) (authkit.UserProfile, error)
	Update(ctx context.Context, email string, profile authkit.UserProfile) (authkit.UserProfile, error)
}

// Config provides the collaborators a Controller orchestrates.
type Config struct {
	Provider identity.Provider
	Profiles ProfileService
	Cache    cache.Store
	Logger   logger.Logger

	// Notifier surfaces federated sign-in failures to the end user.
	// Defaults to alerting through Logger.
	Notifier Notifier
}

func validateConfig(cfg Config) error {
	if cfg.Provider == nil {
		return fmt.Errorf("%w: Provider cannot be nil", authkit.ErrBadConfig)
	}
	if cfg.Profiles == nil {
		return fmt.Errorf("%w: Profiles cannot be nil", authkit.ErrBadConfig)
	}
	if cfg.Cache == nil {
		return fmt.Errorf("%w: Cache cannot be nil", authkit.ErrBadConfig)
	}
	if cfg.Logger == nil {
		return fmt.Errorf("%w: Logger cannot be nil", authkit.ErrBadConfig)
	}

	return nil
}

// A Controller reconciles the identity provider's session with the profile
// service's UserProfile record and holds the result as application state.
//
// The provider's session change stream is the sole source of truth for
// whether a session is active. The Controller registers the single
// subscription on construction and reacts to every notification; the action
// methods additionally fetch or create profile records on their own so a
// caller observes the outcome of its own call.
//
// State reads and writes are guarded; the action methods themselves are not.
// Two actions invoked back-to-back can interleave their network calls, as
// they always could.
type Controller struct {
	provider identity.Provider
	profiles ProfileService
	cache    cache.Store
	l        logger.Logger
	notifier Notifier

	mu          sync.RWMutex
	currentUser *authkit.UserProfile
	loading     bool

	unsub identity.Unsubscribe
}

// NewController constructs a Controller from cfg and subscribes it to the
// provider's session change stream. The subscription fires immediately with
// the current session, so by the time NewController returns, state reflects
// any session the provider already held.
func NewController(cfg Config) (*Controller, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{L: cfg.Logger}
	}

	c := &Controller{
		provider: cfg.Provider,
		profiles: cfg.Profiles,
		cache:    cfg.Cache,
		l:        cfg.Logger,
		notifier: cfg.Notifier,
		loading:  true,
	}

	c.unsub = cfg.Provider.OnSessionChange(c.handleSessionChange)

	return c, nil
}

// Close tears down the Controller's session change subscription.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
	}
}

// CurrentUser returns a copy of the authenticated user's profile,
// or nil when no user is logged in.
func (c *Controller) CurrentUser() *authkit.UserProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.currentUser == nil {
		return nil
	}

	u := *c.currentUser
	return &u
}

// Loading reports whether the Controller is resolving session state.
// The flag is advisory; it does not reject overlapping actions.
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Login verifies the credentials with the identity provider, then fetches the
// profile keyed by the email the provider reports - not the input email, so a
// provider that normalizes addresses still finds the record.
//
// Errors propagate unmodified; presenting them is the caller's responsibility.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.setLoading(true)

	sess, err := c.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	profile, err := c.profiles.FetchByEmail(ctx, sess.Email)
	if err != nil {
		return err
	}

	c.setCurrentUser(ctx, profile)
	c.setLoading(false)
	return nil
}

// Signup creates the account with the identity provider, then registers a
// profile record for it: username and displayName from the caller, email and
// avatar from the provider's account, falling back to [authkit.DefaultAvatarURL].
//
// Errors propagate unmodified.
func (c *Controller) Signup(ctx context.Context, email, password, username, displayName string) error {
	c.setLoading(true)

	sess, err := c.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return err
	}

	avatar := sess.AvatarURL
	if avatar == "" {
		avatar = authkit.DefaultAvatarURL
	}

	profile, err := c.profiles.Create(ctx, authkit.Registration{
		Username:    username,
		DisplayName: displayName,
		Avatar:      avatar,
		Email:       sess.Email,
	})
	if err != nil {
		return err
	}

	c.setCurrentUser(ctx, profile)
	c.setLoading(false)
	return nil
}

// UpdateProfile replaces the five mutable profile fields together,
// committing to state and cache only after the profile service accepts the
// update. Without a current user, UpdateProfile is a no-op.
func (c *Controller) UpdateProfile(ctx context.Context, edits authkit.ProfileEdits) error {
	current := c.CurrentUser()
	if current == nil {
		return nil
	}

	c.setLoading(true)

	merged := current.Apply(edits)
	if _, err := c.profiles.Update(ctx, current.Email, merged); err != nil {
		return err
	}

	c.setCurrentUser(ctx, merged)
	c.setLoading(false)
	return nil
}

// Logout clears the current user before the provider confirms the sign-out:
// local state reads logged out no matter what the provider then says.
// When sign-out fails the error propagates and the cache is left as-is.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.currentUser = nil
	c.mu.Unlock()

	if err := c.provider.SignOut(ctx); err != nil {
		return err
	}

	c.cache.Clear(ctx)
	return nil
}

// FederatedSignIn runs the provider's federated flow, requiring the resulting
// account to expose an email. A profile is fetched for that email; any fetch
// failure reads as "no profile exists yet" and takes the create path, with
// username derived from the email's local-part.
//
// Unlike the other actions, FederatedSignIn owns its error presentation: every
// failure is surfaced to the end user through the Notifier, and the loading
// flag always clears.
func (c *Controller) FederatedSignIn(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	sess, err := c.provider.SignInWithGoogle(ctx)
	if err != nil {
		c.alert("Google sign-in failed", err)
		return err
	}

	if sess.Email == "" {
		err := fmt.Errorf("%w: no email found in Google account", authkit.ErrMissingEmail)
		c.alert("Google sign-in failed", err)
		return err
	}

	profile, err := c.profiles.FetchByEmail(ctx, sess.Email)
	if err != nil {
		// Any failure here reads as a first sign-in, including transient
		// ones a retry would have absolved.
		displayName := sess.DisplayName
		if displayName == "" {
			displayName = "User"
		}
		avatar := sess.AvatarURL
		if avatar == "" {
			avatar = authkit.DefaultAvatarURL
		}

		profile, err = c.profiles.Create(ctx, authkit.Registration{
			Username:    authkit.UsernameFromEmail(sess.Email),
			DisplayName: displayName,
			Avatar:      avatar,
			Email:       sess.Email,
		})
		if err != nil {
			c.alert("Google sign-in failed", err)
			return err
		}
	}

	c.setCurrentUser(ctx, profile)
	return nil
}

// handleSessionChange reacts to the provider's session change stream.
//
// A session with an email resolves to its profile record; failure to resolve
// is logged and leaves state as it was, going stale rather than logging the
// user out. No session means logged out. Either way the loading flag clears,
// so the first notification settles startup state.
func (c *Controller) handleSessionChange(s *identity.Session) {
	ctx := context.Background()

	if s != nil && s.Email != "" {
		profile, err := c.profiles.FetchByEmail(ctx, s.Email)
		if err != nil {
			c.l.Error("failed to fetch user for session", &logger.LogContext{
				Error: err,
				Data:  map[string]any{"email": s.Email},
			})
		} else {
			c.setCurrentUser(ctx, profile)
		}
	} else {
		c.mu.Lock()
		c.currentUser = nil
		c.mu.Unlock()
		c.cache.Clear(ctx)
	}

	c.setLoading(false)
}

// setCurrentUser commits profile to state and mirrors it to the cache.
func (c *Controller) setCurrentUser(ctx context.Context, profile authkit.UserProfile) {
	c.mu.Lock()
	c.currentUser = &profile
	c.mu.Unlock()

	c.cache.Set(ctx, profile)
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Controller) alert(msg string, err error) {
	c.notifier.Alert(msg, err)
}

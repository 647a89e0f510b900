package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the loaded configuration before anything is started
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		add("database driver %q is not postgres or sqlite", c.DBDriver)
	}
	if c.DSN == "" {
		add("database dsn is required")
	}

	switch c.SessionBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			add("redis addr is required for the redis session backend")
		}
	default:
		add("session backend %q is not memory or redis", c.SessionBackend)
	}

	if c.ActorCookie == "" {
		add("actor cookie name is required")
	}
	if len(c.ActorSecret) < 16 || c.ActorSecret == "change-me-change-me" {
		add("actor secret must be set to at least 16 characters")
	}
	if c.ActorTTL <= 0 {
		add("actor ttl must be positive")
	}

	for name := range c.StepUp {
		if _, err := domain.ParseRole(name); err != nil {
			add("login step_up: %v", err)
		}
	}
	if c.LoginRatePerMin < 0 || c.LoginRateBurst < 0 || c.IPRatePerMin < 0 || c.IPRateBurst < 0 {
		add("login rate limit must not be negative")
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			add("trusted proxy %q is not an address or CIDR", proxy)
		}
	}

	switch c.Unauthorized {
	case "home", "forbidden":
	default:
		add("guard unauthorized outcome %q is not home or forbidden", c.Unauthorized)
	}
	for _, p := range []string{c.LoginPath, c.HomePath} {
		if !strings.HasPrefix(p, "/") {
			add("guard path %q must start with /", p)
		}
	}

	if c.Seed.Enabled {
		errs = append(errs, c.validateSeed()...)
	}

	return errors.Join(errs...)
}

func (c *Config) validateSeed() []error {
	var errs []error
	emails := make(map[string]bool)
	for i, u := range c.Seed.Users {
		if u.Email == "" || u.Password == "" {
			errs = append(errs, fmt.Errorf("%w: seed user %d needs an email and a password", ErrInvalidConfig, i))
		}
		if _, err := domain.ParseRole(u.Role); err != nil {
			errs = append(errs, fmt.Errorf("%w: seed user %s: %v", ErrInvalidConfig, u.Email, err))
		}
		emails[u.Email] = true
	}
	for _, a := range c.Seed.Articles {
		switch domain.ArticleStatus(strings.ToUpper(a.Status)) {
		case domain.ArticlePending, domain.ArticleApproved, domain.ArticleRejected, "":
		default:
			errs = append(errs, fmt.Errorf("%w: seed article %q has status %q", ErrInvalidConfig, a.Title, a.Status))
		}
		if a.AuthorEmail != "" && !emails[a.AuthorEmail] {
			errs = append(errs, fmt.Errorf("%w: seed article %q names unknown author %s", ErrInvalidConfig, a.Title, a.AuthorEmail))
		}
	}
	for _, r := range c.Seed.AccessRules {
		if !strings.HasPrefix(r.Resource, "/") {
			errs = append(errs, fmt.Errorf("%w: access rule %q must start with /", ErrInvalidConfig, r.Resource))
		}
		for _, role := range r.Roles {
			if _, err := domain.ParseRole(role); err != nil {
				errs = append(errs, fmt.Errorf("%w: access rule %s: %v", ErrInvalidConfig, r.Resource, err))
			}
		}
	}
	return errs
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Castafa/News-ans-Public-opinion/domain"
	"github.com/Castafa/News-ans-Public-opinion/internal/config"
	"github.com/Castafa/News-ans-Public-opinion/internal/services"
)

// Seed fills an empty deployment: access rules when no policy exists, and
// the demo directory and articles when the users table is empty
func (c *Container) Seed(ctx context.Context) error {
	rules, err := accessRules(c.Config.Seed.AccessRules)
	if err != nil {
		return err
	}
	seeded, err := c.PolicySvc.Seed(rules)
	if err != nil {
		return fmt.Errorf("seed access rules: %w", err)
	}
	if seeded {
		c.Log.Info().Int("rules", len(rules)).Msg("casbin: seeded access rules")
	}

	if !c.Config.Seed.Enabled {
		return nil
	}
	n, err := c.UserRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	authors := make(map[string]*domain.Identity, len(c.Config.Seed.Users))
	for _, u := range c.Config.Seed.Users {
		identity, err := c.seedUser(ctx, u)
		if err != nil {
			return err
		}
		authors[identity.Email] = identity
	}

	for _, a := range c.Config.Seed.Articles {
		author, ok := authors[a.AuthorEmail]
		if !ok {
			return fmt.Errorf("seed article %q: unknown author %q", a.Title, a.AuthorEmail)
		}
		status := domain.ArticleStatus(strings.ToUpper(a.Status))
		switch status {
		case "", domain.ArticlePending, domain.ArticleApproved, domain.ArticleRejected:
		default:
			return fmt.Errorf("seed article %q: unknown status %q", a.Title, a.Status)
		}
		article := &domain.Article{
			Title:      a.Title,
			AuthorID:   author.ID,
			AuthorName: author.Name,
			Content:    a.Content,
			ImageURL:   a.ImageURL,
			Status:     status,
		}
		if err := c.ArticleRepo.Create(ctx, article); err != nil {
			return fmt.Errorf("seed article %q: %w", a.Title, err)
		}
	}

	c.Log.Info().
		Int("users", len(c.Config.Seed.Users)).
		Int("articles", len(c.Config.Seed.Articles)).
		Msg("seeded demo content")
	return nil
}

func (c *Container) seedUser(ctx context.Context, u config.SeedUser) (*domain.Identity, error) {
	role, err := domain.ParseRole(u.Role)
	if err != nil {
		return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	hash, err := c.PasswordSvc.Hash(u.Password)
	if err != nil {
		return nil, err
	}
	identity := &domain.Identity{
		Name:           u.Name,
		Email:          u.Email,
		Role:           role,
		Phone:          u.Phone,
		Avatar:         u.Avatar,
		CredentialHash: hash,
	}
	if err := c.UserRepo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
	}
	return identity, nil
}

func accessRules(seed []config.SeedRule) ([]domain.AccessRule, error) {
	if len(seed) == 0 {
		return services.DefaultAccessRules(), nil
	}
	rules := make([]domain.AccessRule, 0, len(seed))
	for _, r := range seed {
		rule := domain.AccessRule{ResourceID: r.Resource}
		for _, name := range r.Roles {
			role, err := domain.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("access rule %s: %w", r.Resource, err)
			}
			rule.AllowedRoles = append(rule.AllowedRoles, role)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

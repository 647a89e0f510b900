package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/util"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// RBACModel is the Casbin model behind the resource registry: one policy line
// per (role, resource pattern) pair, patterns matched with keyMatch2.
const RBACModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj)
`

// DefaultAccessRules gates the two dashboards and everything under them
func DefaultAccessRules() []domain.AccessRule {
	return []domain.AccessRule{
		{ResourceID: "/admin", AllowedRoles: []domain.Role{domain.RoleAdmin}},
		{ResourceID: "/admin/*", AllowedRoles: []domain.Role{domain.RoleAdmin}},
		{ResourceID: "/user", AllowedRoles: []domain.Role{domain.RoleUser}},
		{ResourceID: "/user/*", AllowedRoles: []domain.Role{domain.RoleUser}},
	}
}

// CasbinEnforcerWrapper wraps the synced Casbin enforcer to implement our
// interface. GetPolicy hands out a copy taken under the enforcer lock since
// the model's policy slice is shifted in place by RemovePolicy.
type CasbinEnforcerWrapper struct {
	enforcer *casbin.SyncedEnforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.SyncedEnforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	lock := w.enforcer.GetLock()
	lock.RLock()
	defer lock.RUnlock()

	// the embedded enforcer reads without taking the lock a second time
	policies, err := w.enforcer.Enforcer.GetPolicy()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(policies))
	for i, pol := range policies {
		out[i] = append([]string(nil), pol...)
	}
	return out, nil
}

// PolicyServiceImpl implements domain.PolicyService on top of Casbin.
// A resource is gated when at least one policy pattern matches it; its
// allowed roles are the union of the roles of every matching pattern.
// Changes reach the adapter through the enforcer's auto-save.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a policy service backed by a Casbin enforcer
func NewPolicyService(enforcer *casbin.SyncedEnforcer) *PolicyServiceImpl {
	return NewPolicyServiceWithEnforcer(NewCasbinEnforcerWrapper(enforcer))
}

// NewPolicyServiceWithEnforcer creates a policy service over any
// domain.CasbinEnforcer
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) *PolicyServiceImpl {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// Rule implements domain.ResourceRegistry
func (p *PolicyServiceImpl) Rule(resourceID string) (domain.AccessRule, bool, error) {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return domain.AccessRule{}, false, fmt.Errorf("load policies: %w", err)
	}

	seen := make(map[domain.Role]struct{})
	matched := false
	for _, pol := range policies {
		if len(pol) < 2 || !util.KeyMatch2(resourceID, pol[1]) {
			continue
		}
		matched = true
		if role, err := domain.ParseRole(pol[0]); err == nil {
			seen[role] = struct{}{}
		}
	}
	if !matched {
		return domain.AccessRule{}, false, nil
	}
	return domain.AccessRule{ResourceID: resourceID, AllowedRoles: sortedRoles(seen)}, true, nil
}

// Rules implements domain.ResourceRegistry, one rule per declared pattern
func (p *PolicyServiceImpl) Rules() ([]domain.AccessRule, error) {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("load policies: %w", err)
	}

	byPattern := make(map[string]map[domain.Role]struct{})
	for _, pol := range policies {
		if len(pol) < 2 {
			continue
		}
		roles, ok := byPattern[pol[1]]
		if !ok {
			roles = make(map[domain.Role]struct{})
			byPattern[pol[1]] = roles
		}
		if role, err := domain.ParseRole(pol[0]); err == nil {
			roles[role] = struct{}{}
		}
	}

	rules := make([]domain.AccessRule, 0, len(byPattern))
	for pattern, roles := range byPattern {
		rules = append(rules, domain.AccessRule{ResourceID: pattern, AllowedRoles: sortedRoles(roles)})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ResourceID < rules[j].ResourceID })
	return rules, nil
}

// Grant implements domain.PolicyService
func (p *PolicyServiceImpl) Grant(resourcePattern string, role domain.Role) error {
	if err := validateRule(resourcePattern, role); err != nil {
		return err
	}
	_, err := p.enforcer.AddPolicy(string(role), resourcePattern)
	return err
}

// Revoke implements domain.PolicyService
func (p *PolicyServiceImpl) Revoke(resourcePattern string, role domain.Role) error {
	if err := validateRule(resourcePattern, role); err != nil {
		return err
	}
	removed, err := p.enforcer.RemovePolicy(string(role), resourcePattern)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrResourceNotFound
	}
	return nil
}

// Seed grants every rule when the registry is empty and reports whether it did
func (p *PolicyServiceImpl) Seed(rules []domain.AccessRule) (bool, error) {
	existing, err := p.enforcer.GetPolicy()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	for _, rule := range rules {
		for _, role := range rule.AllowedRoles {
			if err := validateRule(rule.ResourceID, role); err != nil {
				return false, err
			}
			if _, err := p.enforcer.AddPolicy(string(role), rule.ResourceID); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func validateRule(pattern string, role domain.Role) error {
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("%w: resource pattern %q must start with /", domain.ErrInvalidRule, pattern)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %w %q", domain.ErrInvalidRule, domain.ErrUnknownRole, role)
	}
	return nil
}

func sortedRoles(set map[domain.Role]struct{}) []domain.Role {
	roles := make([]domain.Role, 0, len(set))
	for _, r := range domain.Roles() {
		if _, ok := set[r]; ok {
			roles = append(roles, r)
		}
	}
	return roles
}

var _ domain.PolicyService = (*PolicyServiceImpl)(nil)

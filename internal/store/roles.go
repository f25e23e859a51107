package store

import (
	"context"
	"fmt"
	"slices"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/internal/logging"
	"github.com/capest-planner/capest/internal/utils/rolematch"
)

// Roles returns the registered role tags.
func (r *Repository) Roles() []v1.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.Roles)
}

// AddRole registers a role tag, normalized to upper case. Registering an
// existing role is a no-op. The normalized tag is returned.
func (r *Repository) AddRole(ctx context.Context, role string) (v1.Role, error) {
	normalized := rolematch.Normalize(role)
	if normalized == "" {
		return "", ErrEmptyRole
	}
	added := false
	err := r.mutate(ctx, func(next *State) error {
		if slices.Contains(next.Roles, normalized) {
			return nil
		}
		next.Roles = append(next.Roles, normalized)
		added = true
		return nil
	}, KeyRoles)
	if err != nil {
		return "", err
	}
	if added {
		logging.FromContext(ctx).Info("Registered role", "role", normalized)
	}
	return normalized, nil
}

// RemoveRole unregisters a role tag. Default roles cannot be removed. Members
// and initiatives already using the role keep it.
func (r *Repository) RemoveRole(ctx context.Context, role v1.Role) error {
	if v1.IsDefaultRole(role) {
		return fmt.Errorf("role %s: %w", role, ErrDefaultRole)
	}
	err := r.mutate(ctx, func(next *State) error {
		i := slices.Index(next.Roles, role)
		if i < 0 {
			return fmt.Errorf("role %s: %w", role, ErrUnknownRole)
		}
		next.Roles = slices.Delete(next.Roles, i, i+1)
		return nil
	}, KeyRoles)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("Unregistered role", "role", role)
	return nil
}

// IsDefaultRole reports whether role is one of the built-in roles.
func (r *Repository) IsDefaultRole(role v1.Role) bool {
	return v1.IsDefaultRole(role)
}

// ResetRoles restores the default roles.
func (r *Repository) ResetRoles(ctx context.Context) error {
	return r.mutate(ctx, func(next *State) error {
		next.Roles = slices.Clone(v1.DefaultRoles)
		return nil
	}, KeyRoles)
}

// ValidateRole returns ErrUnknownRole if role is not registered.
func (r *Repository) ValidateRole(role v1.Role) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return validateRoles(r.state.Roles, role)
}

func validateRoles(registry []v1.Role, roles ...v1.Role) error {
	for _, role := range roles {
		if !slices.Contains(registry, role) {
			return fmt.Errorf("role %s: %w", role, ErrUnknownRole)
		}
	}
	return nil
}

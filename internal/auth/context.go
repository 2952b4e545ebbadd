package auth

import "context"

type contextKey string

const (
	contextKeyOwner contextKey = "auth.owner_id"
	contextKeyRole  contextKey = "auth.role"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, ownerID string, role Role) context.Context {
	ctx = context.WithValue(ctx, contextKeyOwner, ownerID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return ctx
}

// OwnerIDFromContext extracts the authenticated user id from context.
func OwnerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyOwner)
	if ownerID, ok := value.(string); ok {
		return ownerID
	}
	return ""
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyRole)
	if role, ok := value.(Role); ok {
		return role
	}
	if role, ok := value.(string); ok {
		if normalized, valid := NormalizeRole(role); valid {
			return normalized
		}
	}
	return ""
}

// EnsureOwner verifies the context identity may read a resource owned by ownerID.
// Contexts without an identity (CLI, scheduler) and admins pass.
func EnsureOwner(ctx context.Context, ownerID string) error {
	caller := OwnerIDFromContext(ctx)
	if caller == "" || RoleFromContext(ctx) == RoleAdmin {
		return nil
	}
	if caller != ownerID {
		return ErrOwnerMismatch
	}
	return nil
}

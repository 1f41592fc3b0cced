package auth

import "context"

type contextKey string

const (
	contextKeyClient  contextKey = "auth.client_name"
	contextKeyRole    contextKey = "auth.role"
	contextKeySubject contextKey = "auth.subject"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, clientName string, role Role, subject string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClient, clientName)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	return ctx
}

// ClientNameFromContext extracts the client scope from context.
func ClientNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeyClient)
	if clientName, ok := value.(string); ok {
		return clientName
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

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value := ctx.Value(contextKeySubject)
	if subject, ok := value.(string); ok {
		return subject
	}
	return ""
}

// TenantScope resolves the effective tenant filter for enumeration:
// admins see everything, clients only their own assignments.
func TenantScope(ctx context.Context) string {
	if RoleFromContext(ctx) == RoleAdmin {
		return ""
	}
	return ClientNameFromContext(ctx)
}

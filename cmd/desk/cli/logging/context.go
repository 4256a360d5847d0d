package logging

import (
	"context"
)

// Context keys for logging values.
// Using private types to avoid key collisions.
type contextKey int

const (
	workspaceKey contextKey = iota
	repoPathKey
	componentKey
)

// WithWorkspace adds a workspace name to the context.
func WithWorkspace(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, workspaceKey, name)
}

// WithRepoPath adds a repository path to the context.
func WithRepoPath(ctx context.Context, repoPath string) context.Context {
	return context.WithValue(ctx, repoPathKey, repoPath)
}

// WithComponent adds a component name to the context.
// Component names identify the subsystem generating logs (e.g., "switcher", "syncer", "api").
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WorkspaceFromContext extracts the workspace name from the context.
// Returns empty string if not set.
func WorkspaceFromContext(ctx context.Context) string {
	if v := ctx.Value(workspaceKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ComponentFromContext extracts the component name from the context.
// Returns empty string if not set.
func ComponentFromContext(ctx context.Context) string {
	if v := ctx.Value(componentKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// internal/application/usecase/context.go
package usecase

import (
	"context"
	"strings"

	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
)

// context keys used by the usecase layer
type ctxKey string

const (
	ctxKeyUserID ctxKey = "userId"
	ctxKeySchool ctxKey = "school"
)

// WithUserID injects the authenticated user id from the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyUserID, uid)
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) string {
	v := ctx.Value(ctxKeyUserID)
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// WithSchool injects the resolved school profile. The middleware is the
// single writer of this value; everything downstream only reads it.
func WithSchool(ctx context.Context, p schooldom.Profile) context.Context {
	return context.WithValue(ctx, ctxKeySchool, p)
}

// SchoolFromContext extracts the resolved school profile.
func SchoolFromContext(ctx context.Context) (schooldom.Profile, bool) {
	v := ctx.Value(ctxKeySchool)
	p, ok := v.(schooldom.Profile)
	return p, ok
}

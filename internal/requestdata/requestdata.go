package requestdata

import (
  "context"
  "github.com/pdmlab/catalog-backend/internal/apierr"
)

type contextKey struct{}

var requestDataKey = contextKey{}

// RequestData carries the authenticated caller through a request: identity
// plus the resolved permission set. Permission checks are explicit calls on
// this data, never hidden in route decorators.
type RequestData struct {
  UserID      int
  Username    string
  Permissions map[string]bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
  return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
  if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
    return rd
  }
  return nil
}

// Has reports whether the caller holds the named permission.
func Has(ctx context.Context, permission string) bool {
  rd := GetRequestData(ctx)
  return rd != nil && rd.Permissions[permission]
}

// Require returns a PermissionDenied error unless the caller holds the named
// permission.
func Require(ctx context.Context, permission string) error {
  if !Has(ctx, permission) {
    return apierr.PermissionDenied(permission)
  }
  return nil
}

// UserID returns the caller's id, or 0 when unauthenticated.
func UserID(ctx context.Context) int {
  if rd := GetRequestData(ctx); rd != nil {
    return rd.UserID
  }
  return 0
}

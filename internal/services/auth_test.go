package services

import (
  "context"
  "testing"
  "time"
  "golang.org/x/crypto/bcrypt"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/db"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
  "github.com/pdmlab/catalog-backend/internal/types"
)

func authFixture(t *testing.T) AuthService {
  t.Helper()
  gdb, err := db.OpenTest()
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
  if err != nil {
    t.Fatalf("hash password: %v", err)
  }
  role := types.Role{
    Name: "editor",
    Permissions: []types.Permission{
      {Name: PermProductRead},
      {Name: PermProductEdit},
    },
  }
  user := types.User{Username: "alice", Password: string(hash), Roles: []types.Role{role}}
  if err := gdb.Create(&user).Error; err != nil {
    t.Fatalf("create user: %v", err)
  }
  disabledHash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
  disabled := types.User{Username: "mallory", Password: string(disabledHash), IsDisabled: true}
  if err := gdb.Create(&disabled).Error; err != nil {
    t.Fatalf("create disabled user: %v", err)
  }

  log := logger.NewNop()
  userRepo := repos.NewUserRepo(gdb, log)
  return NewAuthService(gdb, log, userRepo, "test-secret", time.Hour, 24*time.Hour)
}

func TestLogin(t *testing.T) {
  auth := authFixture(t)
  ctx := context.Background()

  pair, err := auth.Login(ctx, "alice", "s3cret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  if pair.AccessToken == "" || pair.RefreshToken == "" {
    t.Fatalf("both tokens must be issued: %+v", pair)
  }

  if _, err := auth.Login(ctx, "alice", "wrong"); apierr.StatusOf(err) != 401 {
    t.Fatalf("bad password must 401, got %v", err)
  }
  if _, err := auth.Login(ctx, "nobody", "s3cret"); apierr.StatusOf(err) != 401 {
    t.Fatalf("unknown user must 401, got %v", err)
  }
  if _, err := auth.Login(ctx, "mallory", "s3cret"); apierr.StatusOf(err) != 403 {
    t.Fatalf("disabled user must 403, got %v", err)
  }
}

func TestContextFromToken_CarriesPermissions(t *testing.T) {
  auth := authFixture(t)
  ctx := context.Background()

  pair, err := auth.Login(ctx, "alice", "s3cret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  authed, err := auth.ContextFromToken(ctx, pair.AccessToken, false)
  if err != nil {
    t.Fatalf("context from token: %v", err)
  }
  rd := requestdata.GetRequestData(authed)
  if rd == nil || rd.Username != "alice" {
    t.Fatalf("request data = %+v", rd)
  }
  if !rd.Permissions[PermProductRead] || !rd.Permissions[PermProductEdit] {
    t.Fatalf("role permissions missing: %+v", rd.Permissions)
  }
  if rd.Permissions[PermProductDelete] {
    t.Fatal("ungranted permission present")
  }

  // a refresh token is not an access token
  if _, err := auth.ContextFromToken(ctx, pair.RefreshToken, false); err == nil {
    t.Fatal("refresh token must not pass as access token")
  }
  if _, err := auth.ContextFromToken(ctx, pair.RefreshToken, true); err != nil {
    t.Fatalf("refresh token rejected on refresh path: %v", err)
  }
}

func TestLogout_RevokesOutstandingTokens(t *testing.T) {
  auth := authFixture(t)
  ctx := context.Background()

  pair, err := auth.Login(ctx, "alice", "s3cret")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  authed, err := auth.ContextFromToken(ctx, pair.AccessToken, false)
  if err != nil {
    t.Fatalf("context from token: %v", err)
  }
  if err := auth.Logout(authed); err != nil {
    t.Fatalf("logout: %v", err)
  }

  if _, err := auth.ContextFromToken(ctx, pair.AccessToken, false); err == nil {
    t.Fatal("token issued before logout must be rejected")
  }

  // a fresh login works again
  again, err := auth.Login(ctx, "alice", "s3cret")
  if err != nil {
    t.Fatalf("re-login: %v", err)
  }
  if _, err := auth.ContextFromToken(ctx, again.AccessToken, false); err != nil {
    t.Fatalf("post-logout token rejected: %v", err)
  }
}

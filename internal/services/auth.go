package services

import (
  "context"
  "fmt"
  "net/http"
  "time"
  "gorm.io/gorm"
  "golang.org/x/crypto/bcrypt"
  "github.com/golang-jwt/jwt/v5"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
)

type TokenPair struct {
  AccessToken  string `json:"accessToken"`
  RefreshToken string `json:"refreshToken"`
}

type AuthService interface {
  Login(ctx context.Context, username, password string) (*TokenPair, error)
  Refresh(ctx context.Context) (*TokenPair, error)
  Logout(ctx context.Context) error
  ContextFromToken(ctx context.Context, tokenString string, refresh bool) (context.Context, error)
}

type authClaims struct {
  Permissions  []string `json:"permissions"`
  TokenVersion int      `json:"tokenVersion"`
  Refresh      bool     `json:"refresh,omitempty"`
  jwt.RegisteredClaims
}

type authService struct {
  db           *gorm.DB
  log          *logger.Logger
  userRepo     repos.UserRepo
  jwtSecretKey string
  accessTTL    time.Duration
  refreshTTL   time.Duration
}

func NewAuthService(
  db *gorm.DB,
  baseLog *logger.Logger,
  userRepo repos.UserRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := baseLog.With("service", "AuthService")
  return &authService{
    db:           db,
    log:          serviceLog,
    userRepo:     userRepo,
    jwtSecretKey: jwtSecretKey,
    accessTTL:    accessTTL,
    refreshTTL:   refreshTTL,
  }
}

func (as *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
  if username == "" || password == "" {
    return nil, apierr.Validation("Username and password are required")
  }
  user, err := as.userRepo.GetByUsername(ctx, nil, username)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if user == nil {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Invalid username or password"))
  }
  if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Invalid username or password"))
  }
  if user.IsDisabled {
    return nil, apierr.New(http.StatusForbidden, "disabled", fmt.Errorf("User account is disabled"))
  }
  return as.issueTokens(ctx, user.ID, user.TokenVersion)
}

func (as *authService) Refresh(ctx context.Context) (*TokenPair, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Missing token"))
  }
  user, err := as.userRepo.GetByID(ctx, nil, rd.UserID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if user == nil || user.IsDisabled {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("User not found"))
  }
  return as.issueTokens(ctx, user.ID, user.TokenVersion)
}

// Logout bumps the user's token version so every outstanding access and
// refresh token stops verifying.
func (as *authService) Logout(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Missing token"))
  }
  if err := as.userRepo.BumpTokenVersion(ctx, nil, rd.UserID); err != nil {
    return apierr.Wrap(err)
  }
  return nil
}

func (as *authService) issueTokens(ctx context.Context, userID, tokenVersion int) (*TokenPair, error) {
  permissions, err := as.userRepo.PermissionNames(ctx, nil, userID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }

  access, err := as.sign(userID, tokenVersion, permissions, as.accessTTL, false)
  if err != nil {
    return nil, apierr.Storage(err)
  }
  refresh, err := as.sign(userID, tokenVersion, nil, as.refreshTTL, true)
  if err != nil {
    return nil, apierr.Storage(err)
  }
  return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (as *authService) sign(userID, tokenVersion int, permissions []string, ttl time.Duration, refresh bool) (string, error) {
  now := time.Now()
  claims := authClaims{
    Permissions:  permissions,
    TokenVersion: tokenVersion,
    Refresh:      refresh,
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   fmt.Sprintf("%d", userID),
      IssuedAt:  jwt.NewNumericDate(now),
      ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

// ContextFromToken verifies the token, checks the stored token version and
// disabled flag, and loads the caller's identity and permission set into the
// request context.
func (as *authService) ContextFromToken(ctx context.Context, tokenString string, refresh bool) (context.Context, error) {
  var claims authClaims
  token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil || !token.Valid {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Invalid or expired token"))
  }
  if claims.Refresh != refresh {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Wrong token kind"))
  }

  var userID int
  if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID <= 0 {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("Invalid token subject"))
  }

  user, err := as.userRepo.GetByID(ctx, nil, userID)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  if user == nil {
    return nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("User not found"))
  }
  if user.IsDisabled {
    return nil, apierr.New(http.StatusForbidden, "disabled", fmt.Errorf("User account is disabled"))
  }
  if user.TokenVersion != claims.TokenVersion {
    return nil, apierr.New(http.StatusUnauthorized, "revoked", fmt.Errorf("Token has been revoked. Please login again."))
  }

  permSet := make(map[string]bool, len(claims.Permissions))
  for _, p := range claims.Permissions {
    permSet[p] = true
  }
  if refresh {
    // refresh tokens carry no permission claims; resolve from the database
    names, err := as.userRepo.PermissionNames(ctx, nil, userID)
    if err != nil {
      return nil, apierr.Wrap(err)
    }
    for _, p := range names {
      permSet[p] = true
    }
  }

  rd := &requestdata.RequestData{
    UserID:      user.ID,
    Username:    user.Username,
    Permissions: permSet,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
)

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
  GetByID(ctx context.Context, tx *gorm.DB, userID int) (*types.User, error)
  GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error)
  PermissionNames(ctx context.Context, tx *gorm.DB, userID int) ([]string, error)
  BumpTokenVersion(ctx context.Context, tx *gorm.DB, userID int) error
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  repoLog := baseLog.With("repo", "UserRepo")
  return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ur.db
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
  if err := ur.handle(tx).WithContext(ctx).Create(user).Error; err != nil {
    return nil, err
  }
  return user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID int) (*types.User, error) {
  var result types.User
  err := ur.handle(tx).WithContext(ctx).
    Where("id = ?", userID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (ur *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
  var result types.User
  err := ur.handle(tx).WithContext(ctx).
    Where("username = ?", username).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

// PermissionNames resolves the caller's permission set through the
// role/permission join tables in one query.
func (ur *userRepo) PermissionNames(ctx context.Context, tx *gorm.DB, userID int) ([]string, error) {
  var names []string
  err := ur.handle(tx).WithContext(ctx).
    Model(&types.Permission{}).
    Distinct("permissions.name").
    Joins("JOIN role_permission ON role_permission.permission_id = permissions.id").
    Joins("JOIN user_role ON user_role.role_id = role_permission.role_id").
    Where("user_role.user_id = ?", userID).
    Pluck("permissions.name", &names).Error
  if err != nil {
    return nil, err
  }
  return names, nil
}

func (ur *userRepo) BumpTokenVersion(ctx context.Context, tx *gorm.DB, userID int) error {
  return ur.handle(tx).WithContext(ctx).
    Model(&types.User{}).
    Where("id = ?", userID).
    Update("token_version", gorm.Expr("token_version + 1")).Error
}

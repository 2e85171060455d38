package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/middleware"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
	"mall_saas_202610/pkg/fanout"
	"mall_saas_202610/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ==================== 调用方 ====================

// Actor 当前请求的调用方，由 controller 从凭证中构造
type Actor struct {
	ID       int64
	Type     model.SubjectType
	Snapshot model.PermissionSnapshot
}

// ActorOf 从凭证声明构造调用方
func ActorOf(claims *middleware.Claims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{ID: claims.SubjectID, Type: claims.SubjectType, Snapshot: claims.PermissionSnapshot}
}

func (a Actor) IsAdmin() bool  { return a.Type == model.SubjectAdmin }
func (a Actor) IsTenant() bool { return a.Type == model.SubjectTenant }
func (a Actor) IsUser() bool   { return a.Type == model.SubjectUser }

// PageOf 将分页参数转换为仓库分页
func PageOf(q dto.PageQuery) repository.Pagination {
	return repository.Pagination{Page: q.Page(), ItemsPerPage: q.ItemsPerPage}.Normalize()
}

// ==================== 凭证签发 ====================

// Authenticator 密码校验与凭证签发
type Authenticator struct {
	codec    *middleware.TokenCodec
	roleRepo repository.RoleRepository
	super    model.SuperLimits
}

func NewAuthenticator(codec *middleware.TokenCodec, roleRepo repository.RoleRepository, super model.SuperLimits) *Authenticator {
	return &Authenticator{codec: codec, roleRepo: roleRepo, super: super}
}

// Snapshot 主体的权限快照
// 未绑定角色的管理员为超级管理员；角色已被删除时返回空快照
func (a *Authenticator) Snapshot(ctx context.Context, typ model.SubjectType, roleID *int64) (model.PermissionSnapshot, error) {
	if roleID == nil {
		if typ == model.SubjectAdmin {
			return model.SuperSnapshot(a.super), nil
		}
		return model.PermissionSnapshot{}, nil
	}
	role, err := a.roleRepo.GetByID(ctx, *roleID)
	if err != nil {
		return model.PermissionSnapshot{}, apperr.Internal("Failed to load role", err)
	}
	if role == nil {
		logger.WithContext(ctx).Warn("role not found, issuing empty snapshot",
			zap.Int64("role_id", *roleID), zap.String("subject_type", string(typ)))
	}
	return model.SnapshotOf(role), nil
}

// Issue 签发凭证，权限快照在此刻复制
func (a *Authenticator) Issue(ctx context.Context, id int64, typ model.SubjectType, roleID *int64) (string, error) {
	snapshot, err := a.Snapshot(ctx, typ, roleID)
	if err != nil {
		return "", err
	}
	token, err := a.codec.Issue(middleware.TokenPayload{SubjectID: id, SubjectType: typ, Snapshot: snapshot})
	if err != nil {
		return "", apperr.Internal("Failed to issue token", err)
	}
	return token, nil
}

// HashPassword bcrypt 加密
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("Failed to hash password", err)
	}
	return string(hash), nil
}

// CheckPassword 校验密码
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ==================== 关联更新 ====================

// settle 尽力执行关联更新，失败只记录日志
func settle(ctx context.Context, op string, tasks ...fanout.Task) []fanout.Outcome {
	outcomes := fanout.SettleAll(ctx, 0, tasks...)
	for _, o := range fanout.Failed(outcomes) {
		logger.WithContext(ctx).Warn("related update failed",
			zap.String("op", op), zap.Int("index", o.Index), zap.Error(o.Err))
	}
	return outcomes
}

// internal 包装仓库错误
func internal(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Internal("Database operation failed", err)
}

var (
	ErrInvalidCredentials = apperr.AuthFailure("Invalid email or password")
	ErrEmailExists        = apperr.BadRequest("Email already exists")
	ErrForbiddenResource  = apperr.Forbidden("You do not have access to this resource")
)

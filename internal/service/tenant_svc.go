package service

import (
	"context"
	"strings"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
)

type TenantService struct {
	tenantRepo repository.TenantRepository
	roleRepo   repository.RoleRepository
	auth       *Authenticator
}

func NewTenantService(tenantRepo repository.TenantRepository, roleRepo repository.RoleRepository, auth *Authenticator) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, roleRepo: roleRepo, auth: auth}
}

// Signup 商户注册，注册成功即签发凭证
func (s *TenantService) Signup(ctx context.Context, req *dto.TenantSignupReq) (*dto.TenantAuthResp, error) {
	email := strings.ToLower(req.Email)
	existing, err := s.tenantRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	tenant := &model.Tenant{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		StoreName:    req.StoreName,
		GSTNumber:    strings.ToUpper(req.GSTNumber),
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, internal(err)
	}

	token, err := s.auth.Issue(ctx, tenant.ID, model.SubjectTenant, tenant.RoleID)
	if err != nil {
		return nil, err
	}
	return &dto.TenantAuthResp{Token: token, Tenant: tenant}, nil
}

// Login 商户登录，被封禁的商户无法登录
func (s *TenantService) Login(ctx context.Context, req *dto.LoginReq) (*dto.TenantAuthResp, error) {
	tenant, err := s.tenantRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, internal(err)
	}
	if tenant == nil || !CheckPassword(tenant.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if tenant.Blocked {
		return nil, ErrTenantBlocked
	}

	token, err := s.auth.Issue(ctx, tenant.ID, model.SubjectTenant, tenant.RoleID)
	if err != nil {
		return nil, err
	}
	return &dto.TenantAuthResp{Token: token, Tenant: tenant}, nil
}

func (s *TenantService) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return tenant, nil
}

func (s *TenantService) List(ctx context.Context, q *dto.TenantListQuery) ([]model.Tenant, int64, error) {
	filter := repository.TenantFilter{Search: q.Search, Blocked: q.Blocked}
	list, total, err := s.tenantRepo.List(ctx, filter, PageOf(q.PageQuery))
	return list, total, internal(err)
}

// Update 佣金比例必须落在调用方快照的 [min, max] 区间内
func (s *TenantService) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateTenantReq) (*model.Tenant, error) {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureRole(ctx, s.roleRepo, req.RoleID); err != nil {
		return nil, err
	}

	if req.CommissionPercent != nil {
		perms := actor.Snapshot.UserPermissions
		c := *req.CommissionPercent
		if c < perms.MinCommissionPercent || c > perms.MaxCommissionPercent {
			return nil, ErrCommissionOutOfRange.WithDetails(map[string]float64{
				"min": perms.MinCommissionPercent,
				"max": perms.MaxCommissionPercent,
			})
		}
		tenant.CommissionPercent = c
	}
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.StoreName != nil {
		tenant.StoreName = *req.StoreName
	}
	if req.RoleID != nil {
		tenant.RoleID = req.RoleID
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, internal(err)
	}
	return tenant, nil
}

// ToggleBlock 切换封禁状态
// 已签发的凭证在过期前仍然有效
func (s *TenantService) ToggleBlock(ctx context.Context, id int64) (*model.Tenant, error) {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tenant.Blocked = !tenant.Blocked
	if err := s.tenantRepo.SetBlocked(ctx, id, tenant.Blocked); err != nil {
		return nil, internal(err)
	}
	return tenant, nil
}

var (
	ErrTenantNotFound       = apperr.NotFound("Tenant not found")
	ErrTenantBlocked        = apperr.AuthFailure("Tenant is blocked")
	ErrCommissionOutOfRange = apperr.BadRequest("Commission percent out of allowed range")
)

package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"
	"mall_saas_202610/pkg/logger"

	"go.uber.org/zap"
)

type AdminService struct {
	adminRepo repository.AdminRepository
	roleRepo  repository.RoleRepository
	auth      *Authenticator
}

func NewAdminService(adminRepo repository.AdminRepository, roleRepo repository.RoleRepository, auth *Authenticator) *AdminService {
	return &AdminService{adminRepo: adminRepo, roleRepo: roleRepo, auth: auth}
}

// Login 管理员登录
func (s *AdminService) Login(ctx context.Context, req *dto.LoginReq) (*dto.AdminAuthResp, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal(err)
	}
	if admin == nil || !CheckPassword(admin.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !admin.Active {
		return nil, ErrAdminInactive
	}

	token, err := s.auth.Issue(ctx, admin.ID, model.SubjectAdmin, admin.RoleID)
	if err != nil {
		return nil, err
	}
	return &dto.AdminAuthResp{Token: token, Admin: admin}, nil
}

// Bootstrap 首次启动时创建超级管理员，已存在则跳过
func (s *AdminService) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return internal(err)
	}
	if existing != nil {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.Admin{Name: "Super Admin", Email: email, PasswordHash: hash, Active: true}
	if err := s.adminRepo.Create(ctx, admin); err != nil && !repository.IsDuplicate(err) {
		return internal(err)
	}
	logger.WithContext(ctx).Info("super admin bootstrapped", zap.String("email", logger.MaskEmail(email)))
	return nil
}

func (s *AdminService) Create(ctx context.Context, req *dto.CreateAdminReq) (*model.Admin, error) {
	existing, err := s.adminRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	if err := ensureRole(ctx, s.roleRepo, req.RoleID); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		RoleID:       req.RoleID,
		Active:       true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, internal(err)
	}
	return admin, nil
}

func (s *AdminService) Get(ctx context.Context, id int64) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *AdminService) List(ctx context.Context, p repository.Pagination) ([]model.Admin, int64, error) {
	list, total, err := s.adminRepo.List(ctx, p)
	return list, total, internal(err)
}

func (s *AdminService) Update(ctx context.Context, id int64, req *dto.UpdateAdminReq) (*model.Admin, error) {
	admin, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureRole(ctx, s.roleRepo, req.RoleID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		admin.Name = *req.Name
	}
	if req.Phone != nil {
		admin.Phone = *req.Phone
	}
	switch {
	case req.ClearRole:
		admin.RoleID = nil
	case req.RoleID != nil:
		admin.RoleID = req.RoleID
	}
	if req.Active != nil {
		admin.Active = *req.Active
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}

	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, internal(err)
	}
	return admin, nil
}

func (s *AdminService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.adminRepo.Delete(ctx, id)
	if err != nil {
		return internal(err)
	}
	if !deleted {
		return ErrAdminNotFound
	}
	return nil
}

// ensureRole 引用的角色必须存在
func ensureRole(ctx context.Context, roleRepo repository.RoleRepository, roleID *int64) error {
	if roleID == nil {
		return nil
	}
	role, err := roleRepo.GetByID(ctx, *roleID)
	if err != nil {
		return internal(err)
	}
	if role == nil {
		return ErrRoleNotFound
	}
	return nil
}

var (
	ErrAdminNotFound = apperr.NotFound("Admin not found")
	ErrAdminInactive = apperr.AuthFailure("Admin account is disabled")
)

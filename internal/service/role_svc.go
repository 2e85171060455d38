package service

import (
	"context"

	"mall_saas_202610/internal/api/dto"
	"mall_saas_202610/internal/model"
	"mall_saas_202610/internal/repository"
	"mall_saas_202610/pkg/apperr"

	"gorm.io/datatypes"
)

// RoleService 角色管理
// 角色修改不影响已签发的凭证，持有者重新登录后生效
type RoleService struct {
	roleRepo repository.RoleRepository
}

func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

func (s *RoleService) Create(ctx context.Context, req *dto.RoleReq) (*model.Role, error) {
	existing, err := s.roleRepo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, internal(err)
	}
	if existing != nil {
		return nil, ErrRoleExists
	}

	role := &model.Role{Name: req.Name}
	applyRole(role, req)
	if err := s.roleRepo.Create(ctx, role); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrRoleExists
		}
		return nil, internal(err)
	}
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, id int64) (*model.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internal(err)
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return role, nil
}

func (s *RoleService) List(ctx context.Context, p repository.Pagination) ([]model.Role, int64, error) {
	list, total, err := s.roleRepo.List(ctx, p)
	return list, total, internal(err)
}

func (s *RoleService) Update(ctx context.Context, id int64, req *dto.RoleReq) (*model.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != role.Name {
		existing, err := s.roleRepo.GetByName(ctx, req.Name)
		if err != nil {
			return nil, internal(err)
		}
		if existing != nil {
			return nil, ErrRoleExists
		}
		role.Name = req.Name
	}

	applyRole(role, req)
	if err := s.roleRepo.Update(ctx, role); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrRoleExists
		}
		return nil, internal(err)
	}
	return role, nil
}

// Delete 不级联，引用该角色的主体下次登录时得到空快照
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.roleRepo.Delete(ctx, id)
	if err != nil {
		return internal(err)
	}
	if !deleted {
		return ErrRoleNotFound
	}
	return nil
}

func applyRole(role *model.Role, req *dto.RoleReq) {
	role.Description = req.Description
	role.UserPermissions = datatypes.NewJSONType(req.UserPermissions)
	role.ProductPermissions = datatypes.NewJSONType(req.ProductPermissions)
	role.Capacity = datatypes.NewJSONType(req.Capacity)
}

var (
	ErrRoleNotFound = apperr.NotFound("Role not found")
	ErrRoleExists   = apperr.BadRequest("Role name already exists")
)

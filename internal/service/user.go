package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/repository"
)

// UpdateUserParams 僅更新非 nil 的欄位
type UpdateUserParams struct {
	Email    *string
	Name     *string
	Role     *models.UserRole
	IsActive *bool
	Password *string
}

// UserPage 使用者分頁結果
type UserPage struct {
	Users      []models.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

type UserService struct {
	userRepo repository.UserRepository
	cost     int
}

func NewUserService(userRepo repository.UserRepository, cost int) *UserService {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &UserService{userRepo: userRepo, cost: cost}
}

func (s *UserService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	users, total, err := s.userRepo.List(ctx, repository.Page{Number: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &UserPage{Users: users, Pagination: newPagination(page, limit, total)}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, p RegisterParams) (*models.User, error) {
	return createUser(ctx, s.userRepo, s.cost, p)
}

func (s *UserService) Update(ctx context.Context, id string, p UpdateUserParams) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
	if p.IsActive != nil {
		user.IsActive = *p.IsActive
	}
	if p.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*p.Password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete 刪除使用者，管理員不能刪除自己
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

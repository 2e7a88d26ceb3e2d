package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fleet_tracker/internal/models"
	"fleet_tracker/internal/repository"
	"fleet_tracker/internal/utils"
)

// DefaultBcryptCost 密碼雜湊成本
const DefaultBcryptCost = 12

// AuthResult 登入或註冊成功後回傳的資料
type AuthResult struct {
	User   *models.User    `json:"user"`
	Tokens utils.TokenPair `json:"tokens"`
}

// RegisterParams 註冊所需資料
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Role     models.UserRole
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	cost     int
}

func NewAuthService(userRepo repository.UserRepository, tokens *utils.TokenManager, cost int) *AuthService {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &AuthService{userRepo: userRepo, tokens: tokens, cost: cost}
}

// Login 驗證帳號密碼並簽發 token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Register 建立新使用者並直接登入
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*AuthResult, error) {
	user, err := createUser(ctx, s.userRepo, s.cost, p)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Refresh 以 refresh token 換發一組新的 token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return utils.TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.TokenPair{}, ErrInvalidRefreshToken
		}
		return utils.TokenPair{}, err
	}
	if !user.IsActive {
		return utils.TokenPair{}, ErrInvalidRefreshToken
	}

	return s.tokens.GeneratePair(user.ID)
}

// Logout 目前不維護 token 黑名單，token 會在到期後自然失效
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return nil
}

// Authenticate 驗證 access token 並載入對應的有效使用者
// 回傳 utils.ErrTokenExpired、utils.ErrTokenInvalid 或 ErrInactiveUser
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInactiveUser
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	tokens, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// createUser 供註冊與管理員新增使用者共用
func createUser(ctx context.Context, repo repository.UserRepository, cost int, p RegisterParams) (*models.User, error) {
	email := normalizeEmail(p.Email)

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := p.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     p.Name,
		Role:     role,
		IsActive: true,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

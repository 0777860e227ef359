package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/repository"
	"neon_quizlet/internal/store"
	"neon_quizlet/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService はローカルだけで完結する模擬的なアカウント管理です
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
	UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error)
	UpgradeToPremium(ctx context.Context) (*model.User, error)
}

type authService struct {
	kv          store.KV
	accountRepo repository.AccountRepository
	clock       clock.Clock
	premiumDays int
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(kv store.KV, accountRepo repository.AccountRepository, clk clock.Clock, premiumDays int) AuthService {
	return &authService{
		kv:          kv,
		accountRepo: accountRepo,
		clock:       clk,
		premiumDays: premiumDays,
	}
}

func invalidCredentials() error {
	return model.NewAppError("AUTHENTICATION_FAILED", "Incorrect email or password.", "", model.ErrInvalidCredentials)
}

func notLoggedIn() error {
	return model.NewAppError("NOT_LOGGED_IN", "You are not logged in.", "", model.ErrNotLoggedIn)
}

// Register は新しいユーザーを登録し、そのままログイン状態にします
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	logger := logging.FromContext(ctx)
	req = &model.RegisterRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to process the password.", "", err)
	}

	var newUser *model.User
	err = s.kv.Update(ctx, func(tx store.KV) error {
		_, err := s.accountRepo.FindByEmail(ctx, tx, req.Email)
		if err == nil {
			logger.Warn("Email already exists", "email", req.Email)
			return model.NewAppError("DUPLICATE_EMAIL", "An account with this email already exists.", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		user := model.User{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Email:     req.Email,
			CreatedAt: s.clock.Now(),
		}
		if err := s.accountRepo.Save(ctx, tx, &model.UserAccount{PasswordHash: string(hashedPassword), User: user}); err != nil {
			return err
		}
		if err := s.accountRepo.SetCurrentUser(ctx, tx, &user); err != nil {
			return err
		}
		newUser = &user
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrConflict) {
			logger.Error("Failed to register user", "error", err)
		}
		return nil, appErrorOr(err)
	}

	logger.Info("User registered", "user_id", newUser.ID)
	return newUser, nil
}

// Login はパスワードを確かめてログイン状態にします
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	logger := logging.FromContext(ctx).With("email", req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByEmail(ctx, s.kv, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, invalidCredentials()
		}
		logger.Error("Login failed: error on FindByEmail", "error", err)
		return nil, appErrorOr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", account.User.ID)
		return nil, invalidCredentials()
	}

	user := s.expirePremium(account.User)
	if err := s.saveUser(ctx, &user); err != nil {
		return nil, appErrorOr(err)
	}
	logger.Info("Login successful", "user_id", user.ID)
	return &user, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.accountRepo.SetCurrentUser(ctx, s.kv, nil); err != nil {
		logging.FromContext(ctx).Error("Failed to clear current user", "error", err)
		return appErrorOr(err)
	}
	return nil
}

// CurrentUser はログイン中のユーザーを返します。プレミアムの期限が切れていれば無料プランに戻して保存します
func (s *authService) CurrentUser(ctx context.Context) (*model.User, error) {
	current, err := s.accountRepo.CurrentUser(ctx, s.kv)
	if err != nil {
		if errors.Is(err, model.ErrNotLoggedIn) {
			return nil, notLoggedIn()
		}
		return nil, appErrorOr(err)
	}

	user := s.expirePremium(*current)
	if user.IsPremium != current.IsPremium {
		logging.FromContext(ctx).Info("Premium subscription expired", "user_id", user.ID)
		if err := s.saveUser(ctx, &user); err != nil {
			return nil, appErrorOr(err)
		}
	}
	return &user, nil
}

func (s *authService) UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req = &model.UpdateUserRequest{Name: &name}
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if err := s.saveUser(ctx, user); err != nil {
		return nil, appErrorOr(err)
	}
	return user, nil
}

// UpgradeToPremium は支払いを模擬してプレミアム期限を設定します
func (s *authService) UpgradeToPremium(ctx context.Context) (*model.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	expiry := s.clock.Now().Add(time.Duration(s.premiumDays) * 24 * time.Hour)
	user.IsPremium = true
	user.PremiumExpiry = &expiry
	if err := s.saveUser(ctx, user); err != nil {
		return nil, appErrorOr(err)
	}
	logging.FromContext(ctx).Info("Upgraded to premium", "user_id", user.ID, "expires_at", expiry)
	return user, nil
}

func (s *authService) expirePremium(user model.User) model.User {
	if user.IsPremium && user.PremiumExpiry != nil && user.PremiumExpiry.Before(s.clock.Now()) {
		user.IsPremium = false
		user.PremiumExpiry = nil
	}
	return user
}

// saveUser はログイン中のユーザーとアカウント側の記録を一緒に更新します
func (s *authService) saveUser(ctx context.Context, user *model.User) error {
	return s.kv.Update(ctx, func(tx store.KV) error {
		if err := s.accountRepo.SetCurrentUser(ctx, tx, user); err != nil {
			return err
		}
		account, err := s.accountRepo.FindByEmail(ctx, tx, user.Email)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		account.User = *user
		return s.accountRepo.Save(ctx, tx, account)
	})
}

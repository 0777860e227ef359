//go:generate mockery --name AccountRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"
	"strings"

	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/store"
)

// AccountRepository は email → アカウントの対応と、ログイン中ユーザーを保存します
type AccountRepository interface {
	FindByEmail(ctx context.Context, kv store.KV, email string) (*model.UserAccount, error)
	Save(ctx context.Context, kv store.KV, account *model.UserAccount) error
	CurrentUser(ctx context.Context, kv store.KV) (*model.User, error)
	SetCurrentUser(ctx context.Context, kv store.KV, user *model.User) error
}

type kvAccountRepository struct{}

func NewAccountRepository() AccountRepository {
	return &kvAccountRepository{}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *kvAccountRepository) load(ctx context.Context, kv store.KV) (map[string]*model.UserAccount, error) {
	accounts := map[string]*model.UserAccount{}
	if _, err := store.ReadJSON(ctx, kv, store.UsersKey, &accounts); err != nil {
		logging.FromContext(ctx).Error("Error reading accounts from store", "error", err)
		return nil, fmt.Errorf("kvAccountRepository.load: %w", err)
	}
	return accounts, nil
}

func (r *kvAccountRepository) FindByEmail(ctx context.Context, kv store.KV, email string) (*model.UserAccount, error) {
	accounts, err := r.load(ctx, kv)
	if err != nil {
		return nil, err
	}
	account, ok := accounts[normalizeEmail(email)]
	if !ok {
		return nil, model.ErrNotFound
	}
	return account, nil
}

func (r *kvAccountRepository) Save(ctx context.Context, kv store.KV, account *model.UserAccount) error {
	accounts, err := r.load(ctx, kv)
	if err != nil {
		return err
	}
	accounts[normalizeEmail(account.User.Email)] = account
	if err := store.WriteJSON(ctx, kv, store.UsersKey, accounts); err != nil {
		return fmt.Errorf("kvAccountRepository.Save: %w", err)
	}
	return nil
}

// CurrentUser はログイン中のユーザーを返します。いなければ ErrNotLoggedIn
func (r *kvAccountRepository) CurrentUser(ctx context.Context, kv store.KV) (*model.User, error) {
	var user model.User
	ok, err := store.ReadJSON(ctx, kv, store.CurrentUserKey, &user)
	if err != nil {
		return nil, fmt.Errorf("kvAccountRepository.CurrentUser: %w", err)
	}
	if !ok {
		return nil, model.ErrNotLoggedIn
	}
	return &user, nil
}

// SetCurrentUser は user が nil ならログアウト状態にします
func (r *kvAccountRepository) SetCurrentUser(ctx context.Context, kv store.KV, user *model.User) error {
	if user == nil {
		if err := kv.Delete(ctx, store.CurrentUserKey); err != nil {
			return fmt.Errorf("kvAccountRepository.SetCurrentUser: %w", err)
		}
		return nil
	}
	if err := store.WriteJSON(ctx, kv, store.CurrentUserKey, user); err != nil {
		return fmt.Errorf("kvAccountRepository.SetCurrentUser: %w", err)
	}
	return nil
}

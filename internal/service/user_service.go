package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/store"
	"github.com/hance08/keabank/internal/validation"
)

// UserService registers users and answers UserDirectory lookups.
type UserService struct {
	store        store.Store
	transactions *TransactionService
	config       Config
	logger       *zap.Logger
}

func NewUserService(st store.Store, cfg Config, logger *zap.Logger) *UserService {
	return &UserService{store: st, config: cfg, logger: logger}
}

// Provision registers a user and opens one funded account per configured
// opening balance, all in one unit of work.
func (us *UserService) Provision(ctx context.Context, email string) (*model.User, []*model.Account, error) {
	email = strings.TrimSpace(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if us.transactions == nil {
		return nil, nil, apperr.Internal(fmt.Errorf("user service is not wired to a transaction service"))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, nil, apperr.Internal(fmt.Errorf("failed to generate user id: %w", err))
	}
	user := &model.User{ID: id.String(), Email: email, CreatedAt: time.Now().UTC()}

	var accounts []*model.Account
	var openings []*model.Transaction
	err = us.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
		if err := uow.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.InvalidOperation("email %s is already registered", email)
			}
			return storeError(err, "user %s not found", user.ID)
		}

		for _, currency := range model.SupportedCurrencies {
			balance, ok := us.config.OpeningBalances[currency]
			if !ok {
				continue
			}
			acc, opening, err := us.transactions.openAccountTx(ctx, uow, user.ID, currency, balance)
			if err != nil {
				return err
			}
			accounts = append(accounts, acc)
			if opening != nil {
				openings = append(openings, opening)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, storeError(err, "user %s could not be provisioned", email)
	}

	for _, tx := range openings {
		us.transactions.settled(tx)
	}
	us.logger.Info("user provisioned", zap.String("user_id", user.ID), zap.Int("accounts", len(accounts)))
	return user, accounts, nil
}

func (us *UserService) UserExists(ctx context.Context, userID string) (bool, error) {
	exists, err := us.store.UserExists(ctx, userID)
	if err != nil {
		return false, storeError(err, "user %s not found", userID)
	}
	return exists, nil
}

func (us *UserService) GetByID(ctx context.Context, userID string) (*model.User, error) {
	if err := validation.ValidateID("user", userID); err != nil {
		return nil, err
	}
	user, err := us.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "user %s not found", userID)
	}
	return user, nil
}

func (us *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := us.store.GetAllUsers(ctx)
	if err != nil {
		return nil, storeError(err, "users not found")
	}
	return users, nil
}

// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	activationPath = "/api/accounts/activate"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	notifier     service.ActivationNotifier
	baseURL      string
	logger       *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Notifier     service.ActivationNotifier
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	baseURL := ""
	if params.Config != nil && params.Config.Activation != nil {
		baseURL = strings.TrimRight(params.Config.Activation.BaseURL, "/")
	}
	if baseURL == "" && params.Config != nil {
		baseURL = fmt.Sprintf("http://localhost:%d", params.Config.HTTP.Port)
	}

	return &accountService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		notifier:     params.Notifier,
		baseURL:      baseURL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
// The email pre-check and insert run in one transaction; the unique index on
// email backstops concurrent registrations for the same address.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("registration input is required")
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	newAccount := &entity.Account{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		IsActive:  false,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		_, findErr := accountRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrAccountNotFound) {
			return errors.Wrap(findErr, "failed to check email availability")
		}

		if validateErr := srv.hasher.ValidatePasswordStrength(input.Password); validateErr != nil {
			srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", validateErr))

			return validateErr
		}

		hashedPassword, hashErr := srv.hasher.Hash(input.Password)
		if hashErr != nil {
			srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", hashErr))

			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
		}
		newAccount.PasswordHash = hashedPassword

		return accountRepo.Create(ctx, newAccount)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.sendActivationLink(ctx, newAccount.Email)

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", newAccount.ID))

	return &usecase.RegisterOutput{Account: newAccount}, nil
}

// sendActivationLink issues an activation token and dispatches the email
// asynchronously. Delivery failures are logged and never affect the
// registration outcome.
func (srv *accountService) sendActivationLink(ctx context.Context, email string) {
	token, err := srv.tokenService.GenerateActivationToken(email)
	if err != nil {
		srv.log(ctx).Error("Failed to issue activation token", slog.String("email", email), slog.Any("error", err))

		return
	}

	link := fmt.Sprintf("%s%s?token=%s", srv.baseURL, activationPath, url.QueryEscape(token))
	logger := srv.log(ctx)

	go func() {
		// Detached from the request context: the email outlives the request.
		if err := srv.notifier.SendActivationEmail(context.Background(), email, link); err != nil {
			logger.Error("Failed to send activation email", slog.String("email", email), slog.Any("error", err))
		}
	}()
}

// Activate verifies an activation token and flips the account to active.
func (srv *accountService) Activate(ctx context.Context, token string) (string, error) {
	email, err := srv.tokenService.ValidateActivationToken(token)
	if err != nil {
		srv.log(ctx).Warn("Activation failed: invalid token", slog.Any("error", err))

		return "", domainerrors.ErrActivationTokenInvalid.WrapMessage("activation token rejected")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByEmail(ctx, email)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				// The account vanished after the token was issued; the token
				// is as good as invalid.
				return domainerrors.ErrActivationTokenInvalid.WrapMessage("no account for activation token")
			}

			return errors.Wrap(findErr, "failed to load account for activation")
		}

		if account.IsActive {
			// Single-use semantics: a second activation attempt fails.
			return domainerrors.ErrActivationTokenInvalid.WrapMessage("account already activated")
		}

		account.IsActive = true

		return accountRepo.Update(ctx, account)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute activation transaction", slog.String("email", email), slog.Any("error", err))

		return "", err
	}

	srv.log(ctx).Info("Account activated", slog.String("email", email))

	return email, nil
}

// Login verifies credentials and issues a session token.
// The inactive check runs only after the credentials verify, so an attacker
// cannot distinguish a wrong password from a dormant account.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("login input is required")
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed: unknown email", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	// bcrypt comparison is CPU-bound; runs outside any transaction.
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed: password mismatch", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	if !account.IsActive {
		srv.log(ctx).Warn("Login failed: account inactive", slog.String("email", input.Email))

		return nil, domainerrors.ErrAccountInactive.WrapMessage("account not activated")
	}

	sessionToken, err := srv.tokenService.GenerateSessionToken(account)
	if err != nil {
		srv.log(ctx).Error("Failed to generate session token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate session token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{SessionToken: sessionToken}, nil
}

// ChangePassword replaces the password of the authenticated account.
// Read-verify-write runs in one transaction.
func (srv *accountService) ChangePassword(ctx context.Context, accountID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("password change input is required")
	}

	srv.log(ctx).Info("Starting password change", slog.Any("accountID", accountID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, findErr := accountRepo.FindByID(ctx, accountID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAccountNotFound) {
				// The token outlived the account; same answer as a wrong password.
				return domainerrors.ErrInvalidCredentials.WrapMessage("password change rejected")
			}

			return errors.Wrap(findErr, "failed to load account for password change")
		}

		if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WrapMessage("current password mismatch")
		}

		if input.NewPassword == input.CurrentPassword {
			return domainerrors.ErrSamePassword.WrapMessage("new password equals current password")
		}

		if validateErr := srv.hasher.ValidatePasswordStrength(input.NewPassword); validateErr != nil {
			return validateErr
		}

		newHash, hashErr := srv.hasher.Hash(input.NewPassword)
		if hashErr != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
		}

		account.PasswordHash = newHash

		return accountRepo.Update(ctx, account)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to execute password change transaction", slog.Any("accountID", accountID), slog.Any("error", err))

		return err
	}

	// Existing session tokens stay valid until their natural expiry.
	srv.log(ctx).Info("Password changed", slog.Any("accountID", accountID))

	return nil
}

// GetProfile returns the public view of a single account.
func (srv *accountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*usecase.ProfileView, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("profile not found")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return usecase.NewProfileView(account), nil
}

// ListAccounts returns public views page by page, newest first.
// Out-of-range pagination values are clamped, never rejected.
func (srv *accountService) ListAccounts(ctx context.Context, input *usecase.ListAccountsInput) ([]*usecase.ProfileView, error) {
	// A nil input lists with the defaults.
	if input == nil {
		input = &usecase.ListAccountsInput{}
	}

	page := input.Page
	if page < 1 {
		page = 1
	}

	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	accounts, err := srv.accountRepo.List(ctx, repository.ListQuery{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Search: input.Search,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list accounts")
	}

	views := make([]*usecase.ProfileView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, usecase.NewProfileView(account))
	}

	return views, nil
}

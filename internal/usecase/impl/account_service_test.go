package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"passport/config"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	mockRepo "passport/internal/mocks/repository"
	mockSvc "passport/internal/mocks/service"
	"passport/internal/usecase"
)

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service      usecase.AccountUsecase
	txManager    *mockRepo.MockTransactionManager
	accountRepo  *mockRepo.MockAccountRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
	notifier     *mockSvc.MockActivationNotifier
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	notifier := mockSvc.NewMockActivationNotifier(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Activation: &config.ActivationConfig{BaseURL: "https://passport.example.com"},
	}

	service := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Notifier:     notifier,
		Config:       cfg,
		Logger:       logger,
	})

	return accountServiceFixtures{
		service:      service,
		txManager:    txManager,
		accountRepo:  accountRepo,
		hasher:       hasher,
		tokenService: tokenService,
		notifier:     notifier,
	}
}

// expectTransaction wires the transaction manager mock to run the callback
// against a factory backed by the given account repository mock.
func expectTransaction(t *testing.T, fx accountServiceFixtures, ctx context.Context, accountRepo *mockRepo.MockAccountRepository) {
	t.Helper()

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().AccountRepo().Return(accountRepo)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:     "alice@example.com",
		Password:  "StrongSecret123!",
		FirstName: "Alice",
		LastName:  "Chen",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrAccountNotFound)

	newID := uuid.New()
	txAccountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, account *entity.Account) {
			account.ID = newID
			account.CreatedAt = time.Now()
			account.UpdatedAt = time.Now()
		}).
		Return(nil)

	fx.tokenService.EXPECT().
		GenerateActivationToken(input.Email).
		Return("activation-token", nil)

	// The activation email goes out on a separate goroutine; block until it
	// lands so the mock expectation is settled before the test ends.
	sent := make(chan struct{})
	fx.notifier.EXPECT().
		SendActivationEmail(mock.Anything, input.Email, "https://passport.example.com/api/accounts/activate?token=activation-token").
		Run(func(_ context.Context, _ string, _ string) {
			close(sent)
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, newID, output.Account.ID)
	assert.Equal(t, input.Email, output.Account.Email)
	assert.Equal(t, "hashed_password", output.Account.PasswordHash)
	assert.False(t, output.Account.IsActive)

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("activation email was never dispatched")
	}
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "alice@example.com",
		Password: "StrongSecret123!",
	}

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	// The pre-check short-circuits before any password work happens.
	txAccountRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(&entity.Account{ID: uuid.New(), Email: input.Email}, nil)

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestAccountService_Register_UniqueIndexBackstop(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "alice@example.com",
		Password: "StrongSecret123!",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	// A concurrent registration wins between the pre-check and the insert;
	// the repository surfaces the unique violation as EmailTaken.
	txAccountRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrAccountNotFound)
	txAccountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrEmailTaken.WrapMessage("email already registered"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "alice@example.com",
		Password: "weak",
	}

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrAccountNotFound)
	fx.hasher.EXPECT().
		ValidatePasswordStrength(input.Password).
		Return(domainerrors.ErrPasswordStrength.WrapMessage("password must be at least 8 characters long"))

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestAccountService_Register_NotifierFailureDoesNotAffectOutcome(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Email:    "alice@example.com",
		Password: "StrongSecret123!",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrAccountNotFound)
	txAccountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(nil)

	fx.tokenService.EXPECT().
		GenerateActivationToken(input.Email).
		Return("activation-token", nil)

	sent := make(chan struct{})
	fx.notifier.EXPECT().
		SendActivationEmail(mock.Anything, input.Email, mock.AnythingOfType("string")).
		Run(func(_ context.Context, _ string, _ string) {
			close(sent)
		}).
		Return(errors.New("smtp relay unreachable"))

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, output)

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("activation email was never dispatched")
	}
}

func TestAccountService_Activate_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().
		ValidateActivationToken("activation-token").
		Return("alice@example.com", nil)

	account := &entity.Account{
		ID:       uuid.New(),
		Email:    "alice@example.com",
		IsActive: false,
	}

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByEmail(ctx, "alice@example.com").
		Return(account, nil)
	txAccountRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, updated *entity.Account) {
			assert.True(t, updated.IsActive)
		}).
		Return(nil)

	email, err := fx.service.Activate(ctx, "activation-token")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestAccountService_Activate_InvalidToken(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().
		ValidateActivationToken("garbage").
		Return("", errors.New("invalid token"))

	email, err := fx.service.Activate(ctx, "garbage")

	require.Error(t, err)
	assert.Empty(t, email)
	assert.True(t, errors.Is(err, domainerrors.ErrActivationTokenInvalid))
}

func TestAccountService_Activate_AlreadyActive(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().
		ValidateActivationToken("activation-token").
		Return("alice@example.com", nil)

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	// Second use of a single-use link.
	txAccountRepo.EXPECT().
		FindByEmail(ctx, "alice@example.com").
		Return(&entity.Account{ID: uuid.New(), Email: "alice@example.com", IsActive: true}, nil)

	email, err := fx.service.Activate(ctx, "activation-token")

	require.Error(t, err)
	assert.Empty(t, email)
	assert.True(t, errors.Is(err, domainerrors.ErrActivationTokenInvalid))
}

func TestAccountService_Activate_AccountMissing(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().
		ValidateActivationToken("activation-token").
		Return("ghost@example.com", nil)

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByEmail(ctx, "ghost@example.com").
		Return(nil, repository.ErrAccountNotFound)

	email, err := fx.service.Activate(ctx, "activation-token")

	require.Error(t, err)
	assert.Empty(t, email)
	assert.True(t, errors.Is(err, domainerrors.ErrActivationTokenInvalid))
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	fx.accountRepo.EXPECT().
		FindByEmail(ctx, account.Email).
		Return(account, nil)
	fx.hasher.EXPECT().
		Check("StrongSecret123!", "hashed_password").
		Return(true)
	fx.tokenService.EXPECT().
		GenerateSessionToken(account).
		Return("session-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "StrongSecret123!",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "session-token", output.SessionToken)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	fx.accountRepo.EXPECT().
		FindByEmail(ctx, "ghost@example.com").
		Return(nil, repository.ErrAccountNotFound)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	fx.accountRepo.EXPECT().
		FindByEmail(ctx, account.Email).
		Return(account, nil)
	fx.hasher.EXPECT().
		Check("WrongSecret123!", "hashed_password").
		Return(false)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "WrongSecret123!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_Login_InactiveAfterCredentialCheck(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		IsActive:     false,
	}

	// Correct password against a dormant account: the caller learns the
	// account is inactive only because the credentials verified first.
	fx.accountRepo.EXPECT().
		FindByEmail(ctx, account.Email).
		Return(account, nil)
	fx.hasher.EXPECT().
		Check("StrongSecret123!", "hashed_password").
		Return(true)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "StrongSecret123!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountInactive))
}

func TestAccountService_Login_InactiveWithWrongPassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		IsActive:     false,
	}

	// Wrong password against a dormant account must answer InvalidCredentials,
	// not InactiveAccount, or the response would leak activation state.
	fx.accountRepo.EXPECT().
		FindByEmail(ctx, account.Email).
		Return(account, nil)
	fx.hasher.EXPECT().
		Check("WrongSecret123!", "hashed_password").
		Return(false)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "WrongSecret123!",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, domainerrors.ErrAccountInactive))
}

func TestAccountService_ChangePassword_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()
	account := &entity.Account{
		ID:           accountID,
		Email:        "alice@example.com",
		PasswordHash: "old_hash",
		IsActive:     true,
	}

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByID(ctx, accountID).
		Return(account, nil)
	fx.hasher.EXPECT().
		Check("OldSecret123!", "old_hash").
		Return(true)
	fx.hasher.EXPECT().
		ValidatePasswordStrength("NewSecret456!").
		Return(nil)
	fx.hasher.EXPECT().
		Hash("NewSecret456!").
		Return("new_hash", nil)
	txAccountRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(_ context.Context, updated *entity.Account) {
			assert.Equal(t, "new_hash", updated.PasswordHash)
		}).
		Return(nil)

	err := fx.service.ChangePassword(ctx, accountID, &usecase.ChangePasswordInput{
		CurrentPassword: "OldSecret123!",
		NewPassword:     "NewSecret456!",
	})

	require.NoError(t, err)
}

func TestAccountService_ChangePassword_WrongCurrent(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByID(ctx, accountID).
		Return(&entity.Account{ID: accountID, PasswordHash: "old_hash"}, nil)
	fx.hasher.EXPECT().
		Check("WrongSecret123!", "old_hash").
		Return(false)

	err := fx.service.ChangePassword(ctx, accountID, &usecase.ChangePasswordInput{
		CurrentPassword: "WrongSecret123!",
		NewPassword:     "NewSecret456!",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_ChangePassword_SamePassword(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().
		FindByID(ctx, accountID).
		Return(&entity.Account{ID: accountID, PasswordHash: "old_hash"}, nil)
	fx.hasher.EXPECT().
		Check("OldSecret123!", "old_hash").
		Return(true)

	err := fx.service.ChangePassword(ctx, accountID, &usecase.ChangePasswordInput{
		CurrentPassword: "OldSecret123!",
		NewPassword:     "OldSecret123!",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSamePassword))
}

func TestAccountService_ChangePassword_AccountMissing(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	// The session token outlived its account.
	txAccountRepo.EXPECT().
		FindByID(ctx, accountID).
		Return(nil, repository.ErrAccountNotFound)

	err := fx.service.ChangePassword(ctx, accountID, &usecase.ChangePasswordInput{
		CurrentPassword: "OldSecret123!",
		NewPassword:     "NewSecret456!",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_GetProfile_Success(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		FirstName:    "Alice",
		LastName:     "Chen",
		IsActive:     true,
	}

	fx.accountRepo.EXPECT().
		FindByID(ctx, account.ID).
		Return(account, nil)

	view, err := fx.service.GetProfile(ctx, account.ID)

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, account.ID, view.ID)
	assert.Equal(t, account.Email, view.Email)
	assert.Equal(t, account.FirstName, view.FirstName)
	assert.Equal(t, account.LastName, view.LastName)
}

func TestAccountService_GetProfile_NotFound(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.accountRepo.EXPECT().
		FindByID(ctx, accountID).
		Return(nil, repository.ErrAccountNotFound)

	view, err := fx.service.GetProfile(ctx, accountID)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_ListAccounts_ClampsPagination(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()

	testCases := []struct {
		name     string
		input    usecase.ListAccountsInput
		expected repository.ListQuery
	}{
		{
			name:     "zero values fall back to defaults",
			input:    usecase.ListAccountsInput{},
			expected: repository.ListQuery{Offset: 0, Limit: 20},
		},
		{
			name:     "negative page clamps to first",
			input:    usecase.ListAccountsInput{Page: -3, Limit: 10},
			expected: repository.ListQuery{Offset: 0, Limit: 10},
		},
		{
			name:     "oversized limit clamps to maximum",
			input:    usecase.ListAccountsInput{Page: 1, Limit: 500},
			expected: repository.ListQuery{Offset: 0, Limit: 100},
		},
		{
			name:     "offset derives from page and limit",
			input:    usecase.ListAccountsInput{Page: 3, Limit: 10},
			expected: repository.ListQuery{Offset: 20, Limit: 10},
		},
		{
			name:     "search passes through",
			input:    usecase.ListAccountsInput{Page: 1, Limit: 20, Search: "alice"},
			expected: repository.ListQuery{Offset: 0, Limit: 20, Search: "alice"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fx.accountRepo.EXPECT().
				List(ctx, tc.expected).
				Return([]*entity.Account{}, nil).
				Once()

			views, err := fx.service.ListAccounts(ctx, &tc.input)

			require.NoError(t, err)
			assert.NotNil(t, views)
			assert.Empty(t, views)
		})
	}
}

func TestAccountService_ListAccounts_ProjectsProfiles(t *testing.T) {
	fx := createTestAccountService(t)

	ctx := context.Background()
	accounts := []*entity.Account{
		{ID: uuid.New(), Email: "newest@example.com", PasswordHash: "h1", IsActive: true},
		{ID: uuid.New(), Email: "older@example.com", PasswordHash: "h2", IsActive: false},
	}

	fx.accountRepo.EXPECT().
		List(ctx, repository.ListQuery{Offset: 0, Limit: 20}).
		Return(accounts, nil)

	views, err := fx.service.ListAccounts(ctx, &usecase.ListAccountsInput{})

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "newest@example.com", views[0].Email)
	assert.Equal(t, "older@example.com", views[1].Email)
}

// TestAccountService_Lifecycle drives one account through the whole flow:
// register, fail to log in while inactive, activate, log in, read the
// profile, change the password, and verify the old password stops working.
func TestAccountService_Lifecycle(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	const email = "ada@example.com"

	// Stateful store backing both the transactional and direct repo paths.
	var stored *entity.Account

	findByEmail := func(_ context.Context, _ string) (*entity.Account, error) {
		if stored == nil {
			return nil, repository.ErrAccountNotFound
		}
		clone := *stored

		return &clone, nil
	}
	save := func(_ context.Context, account *entity.Account) error {
		clone := *account
		stored = &clone

		return nil
	}

	txAccountRepo := mockRepo.NewMockAccountRepository(t)
	expectTransaction(t, fx, ctx, txAccountRepo)

	txAccountRepo.EXPECT().FindByEmail(ctx, email).RunAndReturn(findByEmail)
	txAccountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(func(callCtx context.Context, account *entity.Account) error {
			account.ID = uuid.New()
			account.CreatedAt = time.Now()
			account.UpdatedAt = time.Now()

			return save(callCtx, account)
		})
	txAccountRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.Account")).
		RunAndReturn(save)
	txAccountRepo.EXPECT().
		FindByID(ctx, mock.AnythingOfType("uuid.UUID")).
		RunAndReturn(func(_ context.Context, id uuid.UUID) (*entity.Account, error) {
			if stored == nil || stored.ID != id {
				return nil, repository.ErrAccountNotFound
			}
			clone := *stored

			return &clone, nil
		})

	fx.accountRepo.EXPECT().FindByEmail(ctx, email).RunAndReturn(findByEmail)
	fx.accountRepo.EXPECT().
		FindByID(ctx, mock.AnythingOfType("uuid.UUID")).
		RunAndReturn(func(_ context.Context, id uuid.UUID) (*entity.Account, error) {
			if stored == nil || stored.ID != id {
				return nil, repository.ErrAccountNotFound
			}
			clone := *stored

			return &clone, nil
		})

	fx.hasher.EXPECT().ValidatePasswordStrength("StrongSecret123!").Return(nil)
	fx.hasher.EXPECT().Hash("StrongSecret123!").Return("hash-1", nil)
	fx.hasher.EXPECT().Check("StrongSecret123!", "hash-1").Return(true)

	fx.tokenService.EXPECT().GenerateActivationToken(email).Return("activation-token", nil)
	fx.tokenService.EXPECT().ValidateActivationToken("activation-token").Return(email, nil)
	fx.tokenService.EXPECT().
		GenerateSessionToken(mock.AnythingOfType("*entity.Account")).
		Return("session-token", nil)

	sent := make(chan struct{})
	fx.notifier.EXPECT().
		SendActivationEmail(mock.Anything, email, mock.AnythingOfType("string")).
		Run(func(_ context.Context, _ string, _ string) {
			close(sent)
		}).
		Return(nil)

	// Register persists the account inactive.
	registered, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:     email,
		Password:  "StrongSecret123!",
		FirstName: "Ada",
		LastName:  "Liu",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("activation email was never sent")
	}

	// Logging in before activation is refused even with good credentials.
	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: email, Password: "StrongSecret123!"})
	assert.ErrorIs(t, err, domainerrors.ErrAccountInactive)

	// Activation flips the flag.
	activatedEmail, err := fx.service.Activate(ctx, "activation-token")
	require.NoError(t, err)
	assert.Equal(t, email, activatedEmail)
	assert.True(t, stored.IsActive)

	// Login now issues a session token.
	login, err := fx.service.Login(ctx, &usecase.LoginInput{Email: email, Password: "StrongSecret123!"})
	require.NoError(t, err)
	assert.Equal(t, "session-token", login.SessionToken)

	// The profile matches what was registered.
	profile, err := fx.service.GetProfile(ctx, registered.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, email, profile.Email)
	assert.Equal(t, "Ada", profile.FirstName)

	// Change the password; the old one must stop working.
	fx.hasher.EXPECT().ValidatePasswordStrength("EvenStronger456!").Return(nil)
	fx.hasher.EXPECT().Hash("EvenStronger456!").Return("hash-2", nil)
	fx.hasher.EXPECT().Check("StrongSecret123!", "hash-2").Return(false)

	err = fx.service.ChangePassword(ctx, registered.Account.ID, &usecase.ChangePasswordInput{
		CurrentPassword: "StrongSecret123!",
		NewPassword:     "EvenStronger456!",
	})
	require.NoError(t, err)
	assert.Equal(t, "hash-2", stored.PasswordHash)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: email, Password: "StrongSecret123!"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_NilInputs(t *testing.T) {
	// Defense in depth behind the handler validation: a nil input answers
	// with a validation error instead of dereferencing.
	fx := createTestAccountService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.Login(ctx, nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	err = fx.service.ChangePassword(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	// Listing with nil input falls back to the default page.
	fx.accountRepo.EXPECT().
		List(ctx, repository.ListQuery{Offset: 0, Limit: 20}).
		Return([]*entity.Account{}, nil)

	views, err := fx.service.ListAccounts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}

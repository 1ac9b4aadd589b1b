package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/validator"
	"passport/internal/domain/entity"
	mockusecase "passport/internal/mocks/usecase"
	"passport/internal/usecase"
)

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestAccountHandler(t *testing.T) (*AccountHandler, *mockusecase.MockAccountUsecase) {
	t.Helper()

	uc := mockusecase.NewMockAccountUsecase(t)
	h := NewAccountHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return h, uc
}

func TestAccountHandler_Register(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	account := &entity.Account{
		ID:        uuid.New(),
		Email:     "newcomer@example.com",
		FirstName: "Nora",
		LastName:  "Chen",
	}

	uc.EXPECT().Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Run(func(ctx context.Context, in *usecase.RegisterInput) {
			assert.Equal(t, "newcomer@example.com", in.Email)
			assert.Equal(t, "StrongSecret123!", in.Password)
		}).
		Return(&usecase.RegisterOutput{Account: account}, nil)

	body := `{"email":"newcomer@example.com","password":"StrongSecret123!","firstName":"Nora","lastName":"Chen"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/accounts", body)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "newcomer@example.com")
	// The password hash must never appear in the response.
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestAccountHandler_Register_EmptyBody(t *testing.T) {
	// Echo's binder skips an empty body entirely; validation must still
	// reject the request before it reaches the usecase.
	h, _ := newTestAccountHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/accounts", "")

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAccountHandler_Register_InvalidEmail(t *testing.T) {
	h, _ := newTestAccountHandler(t)

	body := `{"email":"not-an-email","password":"StrongSecret123!"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/accounts", body)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAccountHandler_Login_EmptyBody(t *testing.T) {
	h, _ := newTestAccountHandler(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", "")

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAccountHandler_ChangePassword_EmptyBody(t *testing.T) {
	h, _ := newTestAccountHandler(t)

	c, rec := newTestContext(t, http.MethodPut, "/api/accounts/password", "")
	deliverycontext.SetAccountID(c, uuid.New())

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestAccountHandler_Activate(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	uc.EXPECT().Activate(mock.Anything, "sealed-token").
		Return("newcomer@example.com", nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts/activate?token=sealed-token", "")

	require.NoError(t, h.Activate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "newcomer@example.com")
}

func TestAccountHandler_Activate_MissingToken(t *testing.T) {
	h, _ := newTestAccountHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts/activate", "")

	require.NoError(t, h.Activate(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestAccountHandler_Login(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	uc.EXPECT().Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(&usecase.LoginOutput{SessionToken: "session-token"}, nil)

	body := `{"email":"newcomer@example.com","password":"StrongSecret123!"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login", body)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session-token")
}

func TestAccountHandler_Login_UsecaseError(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	uc.EXPECT().Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, assert.AnError)

	body := `{"email":"newcomer@example.com","password":"wrong"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login", body)

	// Errors propagate to the centralized error handler.
	err := h.Login(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAccountHandler_ChangePassword(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	accountID := uuid.New()
	uc.EXPECT().ChangePassword(mock.Anything, accountID, mock.AnythingOfType("*usecase.ChangePasswordInput")).
		Run(func(ctx context.Context, id uuid.UUID, in *usecase.ChangePasswordInput) {
			assert.Equal(t, "StrongSecret123!", in.CurrentPassword)
			assert.Equal(t, "EvenStronger456!", in.NewPassword)
		}).
		Return(nil)

	body := `{"currentPassword":"StrongSecret123!","newPassword":"EvenStronger456!"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/accounts/password", body)
	deliverycontext.SetAccountID(c, accountID)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_ChangePassword_NoSession(t *testing.T) {
	h, _ := newTestAccountHandler(t)

	body := `{"currentPassword":"StrongSecret123!","newPassword":"EvenStronger456!"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/accounts/password", body)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
}

func TestAccountHandler_GetMyProfile(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	accountID := uuid.New()
	uc.EXPECT().GetProfile(mock.Anything, accountID).
		Return(&usecase.ProfileView{ID: accountID, Email: "newcomer@example.com"}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts/me", "")
	deliverycontext.SetAccountID(c, accountID)

	require.NoError(t, h.GetMyProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "newcomer@example.com")
}

func TestAccountHandler_GetProfile_InvalidID(t *testing.T) {
	h, _ := newTestAccountHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts/not-a-uuid", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestAccountHandler_GetProfile(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	accountID := uuid.New()
	uc.EXPECT().GetProfile(mock.Anything, accountID).
		Return(&usecase.ProfileView{ID: accountID, Email: "someone@example.com"}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts/"+accountID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(accountID.String())

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "someone@example.com")
}

func TestAccountHandler_ListAccounts(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	uc.EXPECT().ListAccounts(mock.Anything, mock.AnythingOfType("*usecase.ListAccountsInput")).
		Run(func(ctx context.Context, in *usecase.ListAccountsInput) {
			assert.Equal(t, 2, in.Page)
			assert.Equal(t, 50, in.Limit)
			assert.Equal(t, "chen", in.Search)
		}).
		Return([]*usecase.ProfileView{}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts?page=2&limit=50&search=chen", "")

	require.NoError(t, h.ListAccounts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_ListAccounts_NonNumericPagination(t *testing.T) {
	h, uc := newTestAccountHandler(t)

	uc.EXPECT().ListAccounts(mock.Anything, mock.AnythingOfType("*usecase.ListAccountsInput")).
		Run(func(ctx context.Context, in *usecase.ListAccountsInput) {
			assert.Zero(t, in.Page)
			assert.Zero(t, in.Limit)
		}).
		Return([]*usecase.ProfileView{}, nil)

	c, rec := newTestContext(t, http.MethodGet, "/api/accounts?page=two&limit=many", "")

	require.NoError(t, h.ListAccounts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

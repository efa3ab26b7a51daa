package usecase_test

import (
	"context"
	"testing"
	"time"

	"summitcess-gateway/internal/session/adapter/persistence/memory"
	"summitcess-gateway/internal/session/domain/model"
	"summitcess-gateway/internal/session/domain/repository"
	"summitcess-gateway/internal/session/usecase"
	apperrors "summitcess-gateway/internal/shared/errors"
	"summitcess-gateway/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// Mock upstream API
type mockUpstreamAPI struct {
	mock.Mock
}

func (m *mockUpstreamAPI) Login(ctx context.Context, email, password string) (*repository.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LoginResult), args.Error(1)
}

func (m *mockUpstreamAPI) Register(ctx context.Context, reg repository.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *mockUpstreamAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUpstreamAPI) CurrentUser(ctx context.Context) (*repository.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.UserProfile), args.Error(1)
}

func (m *mockUpstreamAPI) GetProfile(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUpstreamAPI) CreateDefaultProfile(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUpstreamAPI) CreateProfile(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Mock token refresher
type mockRefresher struct {
	mock.Mock
}

func (m *mockRefresher) Refresh(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

type SessionUsecaseTestSuite struct {
	suite.Suite
	mockAPI       *mockUpstreamAPI
	mockRefresher *mockRefresher
	store         *memory.TokenStore
	usecase       *usecase.SessionUsecase
}

func (suite *SessionUsecaseTestSuite) SetupTest() {
	suite.mockAPI = &mockUpstreamAPI{}
	suite.mockRefresher = &mockRefresher{}
	suite.store = memory.NewTokenStore()

	log := logger.NewLogger()
	provisioner := usecase.NewProvisioner(suite.mockAPI, usecase.RetryPolicy{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
	}, log)

	suite.usecase = usecase.NewSessionUsecase(suite.mockAPI, suite.store, suite.mockRefresher, provisioner, log)
}

func (suite *SessionUsecaseTestSuite) profile(role string) *repository.UserProfile {
	return &repository.UserProfile{
		ID:    "user-123",
		Name:  "Rina Wijaya",
		Email: "rina@example.com",
		Role:  role,
	}
}

func (suite *SessionUsecaseTestSuite) TestLogin_Success_PersistsRecordAndRedirectsByRole() {
	cases := []struct {
		role     string
		redirect string
	}{
		{"admin", "/admin"},
		{"jasa", "/index-jasa"},
		{"user", "/dashboard-user"},
	}

	for _, tc := range cases {
		suite.SetupTest()
		suite.mockAPI.On("Login", mock.Anything, "rina@example.com", "Secret123!").
			Return(&repository.LoginResult{AccessToken: "token-abc", User: suite.profile(tc.role)}, nil)
		suite.mockAPI.On("GetProfile", mock.Anything).Return(nil)

		outcome, err := suite.usecase.Login(context.Background(), "sess-1", usecase.LoginRequest{
			Email:    "Rina@Example.com",
			Password: "Secret123!",
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), tc.redirect, outcome.RedirectTo)
		assert.Equal(suite.T(), "user-123", outcome.Session.UserID)

		token, _ := suite.store.Get(context.Background(), "sess-1", repository.KeyToken)
		assert.Equal(suite.T(), "token-abc", token)
		role, _ := suite.store.Get(context.Background(), "sess-1", repository.KeyRole)
		assert.Equal(suite.T(), tc.role, role)
		user, _ := suite.store.Get(context.Background(), "sess-1", repository.KeyUser)
		assert.NotEmpty(suite.T(), user)
	}
}

func (suite *SessionUsecaseTestSuite) TestLogin_ProfileProvisioningFailureDoesNotFailLogin() {
	suite.mockAPI.On("Login", mock.Anything, "rina@example.com", "Secret123!").
		Return(&repository.LoginResult{AccessToken: "token-abc", User: suite.profile("user")}, nil)
	suite.mockAPI.On("GetProfile", mock.Anything).Return(apperrors.NewNotFoundError("profile"))
	suite.mockAPI.On("CreateDefaultProfile", mock.Anything).Return(apperrors.NewInfrastructureError("boom"))
	suite.mockAPI.On("CreateProfile", mock.Anything).Return(apperrors.NewInfrastructureError("boom"))

	outcome, err := suite.usecase.Login(context.Background(), "sess-1", usecase.LoginRequest{
		Email:    "rina@example.com",
		Password: "Secret123!",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/dashboard-user", outcome.RedirectTo)
	// Bounded policy: three attempts of each fallback step, no more.
	suite.mockAPI.AssertNumberOfCalls(suite.T(), "CreateDefaultProfile", 3)
	suite.mockAPI.AssertNumberOfCalls(suite.T(), "CreateProfile", 3)
}

func (suite *SessionUsecaseTestSuite) TestLogin_InvalidCredentials() {
	suite.mockAPI.On("Login", mock.Anything, "rina@example.com", "wrong").
		Return(nil, apperrors.NewAuthenticationError("Invalid email or password"))

	outcome, err := suite.usecase.Login(context.Background(), "sess-1", usecase.LoginRequest{
		Email:    "rina@example.com",
		Password: "wrong",
	})

	require.Error(suite.T(), err)
	assert.Nil(suite.T(), outcome)
	assert.True(suite.T(), apperrors.IsAuthentication(err))

	token, _ := suite.store.Get(context.Background(), "sess-1", repository.KeyToken)
	assert.Empty(suite.T(), token)
}

func (suite *SessionUsecaseTestSuite) TestLogin_SuspendedAccount() {
	suite.mockAPI.On("Login", mock.Anything, "rina@example.com", "Secret123!").
		Return(nil, apperrors.NewSuspensionError("Account suspended", "2026-09-30", "policy violation"))

	outcome, err := suite.usecase.Login(context.Background(), "sess-1", usecase.LoginRequest{
		Email:    "rina@example.com",
		Password: "Secret123!",
	})

	require.Error(suite.T(), err)
	assert.Nil(suite.T(), outcome)
	assert.True(suite.T(), apperrors.IsSuspension(err))

	redirect := usecase.SuspensionRedirect(err)
	assert.Contains(suite.T(), redirect, "/suspended?")
	assert.Contains(suite.T(), redirect, "until=2026-09-30")
	assert.Contains(suite.T(), redirect, "reason=policy+violation")
}

func (suite *SessionUsecaseTestSuite) TestCheckAuth_NoStoredToken() {
	session, err := suite.usecase.CheckAuth(context.Background(), "sess-1")
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), session)
}

func (suite *SessionUsecaseTestSuite) TestCheckAuth_ValidToken() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "token-abc"))
	suite.mockAPI.On("CurrentUser", mock.Anything).Return(suite.profile("jasa"), nil)

	session, err := suite.usecase.CheckAuth(ctx, "sess-1")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), session)
	assert.Equal(suite.T(), model.RoleGuide, session.Role)
	assert.Equal(suite.T(), "token-abc", session.Token)
}

func (suite *SessionUsecaseTestSuite) TestCheckAuth_Idempotent() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "token-abc"))
	suite.mockAPI.On("CurrentUser", mock.Anything).Return(suite.profile("user"), nil)

	first, err := suite.usecase.CheckAuth(ctx, "sess-1")
	require.NoError(suite.T(), err)
	second, err := suite.usecase.CheckAuth(ctx, "sess-1")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), first, second)
}

func (suite *SessionUsecaseTestSuite) TestCheckAuth_RejectedTokenClearsStore() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "stale"))
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyRole, "user"))
	suite.mockAPI.On("CurrentUser", mock.Anything).
		Return(nil, apperrors.NewAuthenticationError("Invalid token"))

	session, err := suite.usecase.CheckAuth(ctx, "sess-1")

	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), session)

	token, _ := suite.store.Get(ctx, "sess-1", repository.KeyToken)
	assert.Empty(suite.T(), token)
	role, _ := suite.store.Get(ctx, "sess-1", repository.KeyRole)
	assert.Empty(suite.T(), role)
}

func (suite *SessionUsecaseTestSuite) TestCheckAuth_CanceledRequestKeepsStore() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "token-abc"))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	suite.mockAPI.On("CurrentUser", mock.Anything).
		Return(nil, apperrors.NewInfrastructureError("request aborted").WithCause(context.Canceled))

	session, err := suite.usecase.CheckAuth(canceled, "sess-1")

	require.Error(suite.T(), err)
	assert.Nil(suite.T(), session)

	// An aborted page load must not log the user out.
	token, _ := suite.store.Get(ctx, "sess-1", repository.KeyToken)
	assert.Equal(suite.T(), "token-abc", token)
}

func (suite *SessionUsecaseTestSuite) TestCheckAuth_SuspensionPropagates() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "token-abc"))
	suite.mockAPI.On("CurrentUser", mock.Anything).
		Return(nil, apperrors.NewSuspensionError("Account suspended", "2026-10-01", "chargeback"))

	session, err := suite.usecase.CheckAuth(ctx, "sess-1")

	require.Error(suite.T(), err)
	assert.Nil(suite.T(), session)
	assert.True(suite.T(), apperrors.IsSuspension(err))

	token, _ := suite.store.Get(ctx, "sess-1", repository.KeyToken)
	assert.Empty(suite.T(), token)
}

func (suite *SessionUsecaseTestSuite) TestRegister_Success() {
	suite.mockAPI.On("Register", mock.Anything, mock.MatchedBy(func(reg repository.Registration) bool {
		return reg.Role == "user" && reg.Email == "budi@example.com"
	})).Return(nil)

	outcome, err := suite.usecase.Register(context.Background(), usecase.RegisterRequest{
		FirstName:            "Budi",
		LastName:             "Santoso",
		Email:                "Budi@Example.com",
		Password:             "Secret123!",
		PasswordConfirmation: "Secret123!",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/login?registered=true", outcome.RedirectTo)
}

func (suite *SessionUsecaseTestSuite) TestRegister_PasswordMismatch() {
	outcome, err := suite.usecase.Register(context.Background(), usecase.RegisterRequest{
		FirstName:            "Budi",
		LastName:             "Santoso",
		Email:                "budi@example.com",
		Password:             "Secret123!",
		PasswordConfirmation: "Other123!",
	})

	require.Error(suite.T(), err)
	assert.Nil(suite.T(), outcome)
	suite.mockAPI.AssertNotCalled(suite.T(), "Register")
}

func (suite *SessionUsecaseTestSuite) TestLogout_ClearsStoreEvenWhenUpstreamFails() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "token-abc"))
	suite.mockAPI.On("Logout", mock.Anything).Return(apperrors.NewInfrastructureError("upstream down"))

	redirect := suite.usecase.Logout(ctx, "sess-1")

	assert.Equal(suite.T(), "/login", redirect)
	token, _ := suite.store.Get(ctx, "sess-1", repository.KeyToken)
	assert.Empty(suite.T(), token)
}

func (suite *SessionUsecaseTestSuite) TestRefreshToken_FailureClearsSession() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.store.Set(ctx, "sess-1", repository.KeyToken, "token-abc"))
	suite.mockRefresher.On("Refresh", mock.Anything, "sess-1").
		Return("", apperrors.NewRefreshError("upstream rejected refresh"))

	ok := suite.usecase.RefreshToken(ctx, "sess-1")

	assert.False(suite.T(), ok)
	token, _ := suite.store.Get(ctx, "sess-1", repository.KeyToken)
	assert.Empty(suite.T(), token)
}

func (suite *SessionUsecaseTestSuite) TestRefreshToken_Success() {
	suite.mockRefresher.On("Refresh", mock.Anything, "sess-1").Return("token-new", nil)

	ok := suite.usecase.RefreshToken(context.Background(), "sess-1")

	assert.True(suite.T(), ok)
}

func TestSessionUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(SessionUsecaseTestSuite))
}

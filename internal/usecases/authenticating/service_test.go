package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/analytics-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/analytics-dashboard-api/internal/config"
	"github.com/vfg2006/analytics-dashboard-api/internal/domain"
	"github.com/vfg2006/analytics-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPassword = "Demo@1234"
)

var fixedNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)

	service := NewService(repo, &config.Config{SecretKey: testSecret})
	service.now = func() time.Time { return fixedNow }

	return service, repo
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T) *domain.User {
	return &domain.User{
		ID:             7,
		OrganizationID: "org-1",
		Name:           "Ana",
		Email:          "ana@acme.com",
		PasswordHash:   hashPassword(t, testPassword),
		Active:         true,
		RoleID:         2,
	}
}

func assertAuthCode(t *testing.T, err error, expectedErr error, expectedCode string) {
	t.Helper()

	assert.ErrorIs(t, err, expectedErr)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, expectedCode, authErr.Code)
}

func TestService_LoginUser(t *testing.T) {
	service, repo := newTestService(t)
	user := activeUser(t)

	repo.EXPECT().GetUserByEmail(gomock.Any(), "ana@acme.com").Return(user, nil)

	token, err := service.LoginUser(context.Background(), "  Ana@Acme.com ", testPassword)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 2, claims.UserRoleID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.True(t, fixedNow.Add(24*time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestService_LoginUser_Erros(t *testing.T) {
	disabled := activeUser(t)
	disabled.Active = false

	withoutOrganization := activeUser(t)
	withoutOrganization.OrganizationID = ""

	tests := []struct {
		name         string
		email        string
		password     string
		setup        func(repo *mocks.MockUserRepository)
		expectedErr  error
		expectedCode string
	}{
		{
			name:         "Campos vazios",
			email:        "",
			password:     "",
			setup:        func(repo *mocks.MockUserRepository) {},
			expectedErr:  ErrMissingRequiredData,
			expectedCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "Usuário inexistente",
			email:    "x@acme.com",
			password: testPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "x@acme.com").Return(nil, nil)
			},
			expectedErr:  ErrInvalidCredentials,
			expectedCode: apiErrors.ErrInvalidCredentials,
		},
		{
			name:     "Senha incorreta",
			email:    "ana@acme.com",
			password: "errada",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(activeUser(t), nil)
			},
			expectedErr:  ErrInvalidCredentials,
			expectedCode: apiErrors.ErrInvalidCredentials,
		},
		{
			name:     "Usuário desativado",
			email:    "ana@acme.com",
			password: testPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(disabled, nil)
			},
			expectedErr:  ErrUserDisabled,
			expectedCode: apiErrors.ErrUserDisabled,
		},
		{
			name:     "Usuário sem organização",
			email:    "ana@acme.com",
			password: testPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(withoutOrganization, nil)
			},
			expectedErr:  ErrMissingOrganization,
			expectedCode: apiErrors.ErrOrganizationRequired,
		},
		{
			name:     "Falha do banco",
			email:    "ana@acme.com",
			password: testPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			expectedErr:  ErrDatabaseOperation,
			expectedCode: apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService(t)
			tt.setup(repo)

			token, err := service.LoginUser(context.Background(), tt.email, tt.password)

			assert.Empty(t, token)
			assertAuthCode(t, err, tt.expectedErr, tt.expectedCode)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := newTestService(t)
	user := activeUser(t)

	t.Run("Token expirado", func(t *testing.T) {
		token, err := generateJWT(user, testSecret, fixedNow.Add(-25*time.Hour))
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assertAuthCode(t, err, ErrExpiredToken, apiErrors.ErrExpiredToken)
	})

	t.Run("Assinado com outro segredo", func(t *testing.T) {
		token, err := generateJWT(user, "outro", fixedNow)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assertAuthCode(t, err, ErrInvalidToken, apiErrors.ErrInvalidToken)
	})

	t.Run("Algoritmo diferente de HMAC", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, domain.Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)

		assertAuthCode(t, err, ErrInvalidToken, apiErrors.ErrInvalidToken)
	})

	t.Run("Texto qualquer", func(t *testing.T) {
		_, err := service.ValidateToken("abc")

		assert.True(t, IsTokenError(err))
	})
}

func TestService_GetUserProfile(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)
	repo.EXPECT().GetUserByID(gomock.Any(), 99).Return(nil, nil)

	user, err := service.GetUserProfile(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "org-1", user.OrganizationID)

	_, err = service.GetUserProfile(context.Background(), 99)
	assertAuthCode(t, err, ErrUserNotFound, apiErrors.ErrUserNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	service, repo := newTestService(t)
	name := " Ana Maria "
	lastname := "Souza"

	repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)
	repo.EXPECT().
		UpdateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *domain.User) error {
			assert.Equal(t, "Ana Maria", user.Name)
			assert.Equal(t, "Souza", user.Lastname)
			assert.Empty(t, user.PasswordHash)
			return nil
		})

	user, err := service.UpdateProfile(context.Background(), &domain.UpdateUserRequest{ID: 7, Name: &name, Lastname: &lastname})

	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", user.Name)
	assert.Empty(t, user.PasswordHash)
}

func TestService_UpdateProfile_NomeVazio(t *testing.T) {
	service, repo := newTestService(t)
	empty := "  "

	repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)

	_, err := service.UpdateProfile(context.Background(), &domain.UpdateUserRequest{ID: 7, Name: &empty})

	assertAuthCode(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	service, _ := newTestService(t)

	tests := []struct {
		password string
		valid    bool
	}{
		{"Demo@1234", true},
		{"Ab1!", false},
		{"demo@1234", false},
		{"DEMO@1234", false},
		{"Demo@abcd", false},
		{"Demo12345", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assertAuthCode(t, err, ErrWeakPassword, apiErrors.ErrWeakPassword)
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("Sucesso grava apenas o novo hash", func(t *testing.T) {
		service, repo := newTestService(t)

		repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)
		repo.EXPECT().
			UpdateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *domain.User) error {
				assert.Equal(t, 7, user.ID)
				assert.Empty(t, user.Name)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Nova@5678")))
				return nil
			})

		require.NoError(t, service.ChangePassword(context.Background(), 7, testPassword, "Nova@5678"))
	})

	t.Run("Senha atual incorreta", func(t *testing.T) {
		service, repo := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)

		err := service.ChangePassword(context.Background(), 7, "errada", "Nova@5678")

		assertAuthCode(t, err, ErrWrongPassword, apiErrors.ErrInvalidCredentials)
	})

	t.Run("Nova senha igual à atual", func(t *testing.T) {
		service, repo := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)

		err := service.ChangePassword(context.Background(), 7, testPassword, testPassword)

		assertAuthCode(t, err, ErrSamePassword, apiErrors.ErrInvalidRequest)
	})

	t.Run("Nova senha fraca", func(t *testing.T) {
		service, repo := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), 7).Return(activeUser(t), nil)

		err := service.ChangePassword(context.Background(), 7, testPassword, "fraca")

		assertAuthCode(t, err, ErrWeakPassword, apiErrors.ErrWeakPassword)
	})
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/project-hub/internal/auth"
	"github.com/spec-kit/project-hub/internal/config"
	"github.com/spec-kit/project-hub/internal/domain"
	"github.com/spec-kit/project-hub/internal/service"
)

func newAuthService(users *MockUserRepository) (*service.AuthService, *auth.TokenIssuer) {
	issuer := auth.NewTokenIssuer("test-signing-key", time.Hour)
	svc := service.NewAuthService(config.Config{}, service.AuthDependencies{
		UserRepo: users,
		Hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		Issuer:   issuer,
		Logger:   zap.NewNop(),
	})
	return svc, issuer
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and issues a verifiable token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "u@x.com").Return(nil, pgx.ErrNoRows).Once()
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				user := args.Get(1).(*domain.User)
				user.ID = "u-1"
			}).Return(nil).Once()

		svc, issuer := newAuthService(users)
		user, token, exp, err := svc.Register(ctx, "Test User", "u@x.com", "secret", "")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, domain.RoleUser, user.Role) // unknown role defaults to USER
		assert.True(t, exp.After(time.Now()))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))

		principal, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", principal.SubjectID)
		assert.Equal(t, domain.RoleUser, principal.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "u@x.com").
			Return(&domain.User{ID: "u-1", Email: "u@x.com"}, nil).Once()

		svc, _ := newAuthService(users)
		_, _, _, err := svc.Register(ctx, "Test User", "u@x.com", "secret", "")
		assert.Equal(t, "CONFLICT", domainCode(t, err))
		users.AssertNotCalled(t, "Create")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &domain.User{ID: "u-1", Email: "u@x.com", PasswordHash: string(hash), Role: domain.RoleAdmin}

	t.Run("valid credentials issue a role-bearing token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "u@x.com").Return(account, nil).Once()

		svc, issuer := newAuthService(users)
		user, token, _, err := svc.Login(ctx, "u@x.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)

		principal, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, principal.Role)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "u@x.com").Return(account, nil).Once()

		svc, _ := newAuthService(users)
		_, _, _, err := svc.Login(ctx, "u@x.com", "wrong")
		assert.Equal(t, "UNAUTHENTICATED", domainCode(t, err))
	})

	t.Run("unknown account is rejected the same way", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, pgx.ErrNoRows).Once()

		svc, _ := newAuthService(users)
		_, _, _, err := svc.Login(ctx, "ghost@x.com", "secret")
		assert.Equal(t, "UNAUTHENTICATED", domainCode(t, err))
	})
}

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"quizbank/internal/auth"
	"quizbank/internal/repository/sqlite"
)

func newTestUserService(t *testing.T) (UserService, *auth.TokenService) {
	t.Helper()

	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	return NewUserService(users, tokens), tokens
}

func TestRegisterThenLogin(t *testing.T) {
	svc, tokens := newTestUserService(t)
	ctx := context.Background()

	err := svc.Register(ctx, "Alice Smith", "alice@example.com", "secret1")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// the token's subject resolves back to the registered identity
	subject, err := tokens.Verify(token)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, subject)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", profile.Email)
	require.Equal(t, "Alice Smith", profile.Name)
	require.Empty(t, profile.PasswordHash, "profile must never carry the hash")
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	tests := []struct {
		name, userName, email, password string
	}{
		{"short name", "Al", "alice@example.com", "secret1"},
		{"bad email", "Alice Smith", "not-an-email", "secret1"},
		{"short password", "Alice Smith", "alice@example.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}

	// nothing was persisted by the failed attempts
	_, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "Alice Smith", "alice@example.com", "secret1"))

	err := svc.Register(ctx, "Other Alice", "alice@example.com", "secret2")
	require.ErrorIs(t, err, ErrUserAlreadyExists)

	// email matching is case insensitive through normalization
	err = svc.Register(ctx, "Other Alice", "ALICE@Example.COM", "secret2")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Register(ctx, "Alice Smith", "alice@example.com", "secret1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrUserAlreadyExists)
		}
	}
	require.Equal(t, 1, succeeded, "exactly one concurrent registration may win")
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "Alice Smith", "alice@example.com", "secret1"))

	_, wrongPassword := svc.Login(ctx, "alice@example.com", "wrong-password")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword, unknownEmail)
}

func TestLogin_Validation(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	var validation *ValidationError

	_, err := svc.Login(ctx, "not-an-email", "secret1")
	require.ErrorAs(t, err, &validation)

	_, err = svc.Login(ctx, "alice@example.com", "")
	require.ErrorAs(t, err, &validation)
}

func TestUpdateProfilePicture(t *testing.T) {
	svc, tokens := newTestUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "Alice Smith", "alice@example.com", "secret1"))
	token, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	id, err := tokens.Verify(token)
	require.NoError(t, err)

	user, err := svc.UpdateProfilePicture(ctx, id, "s3://bucket/quizbank/profile-images/x.png")
	require.NoError(t, err)
	require.Equal(t, "s3://bucket/quizbank/profile-images/x.png", user.ProfilePicture)

	_, err = svc.UpdateProfilePicture(ctx, "missing-id", "s3://bucket/k")
	require.ErrorIs(t, err, ErrNotFound)
}

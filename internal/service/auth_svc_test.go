package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/campus-market/internal/domain"
	"github.com/you/campus-market/internal/repository/memory"
	"github.com/you/campus-market/internal/service"
	"github.com/you/campus-market/pkg/auth"
)

func newAuthSvc(t *testing.T) *service.AuthSvc {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return service.NewAuthSvc(memory.New().Users(), time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthSvc(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ann", "ann@campus.edu", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	token, err := svc.Login(ctx, "ann@campus.edu", "hunter22")
	require.NoError(t, err)

	claims, err := auth.ParseValidate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Sub)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "ann@campus.edu", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthSvc(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@campus.edu", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Ann", "ann@campus.edu", "different")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthSvc(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ann", "ann@campus.edu", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ann@campus.edu", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// unknown email yields the same error as a wrong password
	_, err = svc.Login(ctx, "nobody@campus.edu", "hunter22")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := newAuthSvc(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ann", "ann@campus.edu", "hunter22")
	require.NoError(t, err)

	got, err := svc.UpdateProfile(ctx, u.ID, "", "https://cdn/p.png")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "https://cdn/p.png", got.Picture)

	got, err = svc.UpdateProfile(ctx, u.ID, "Annie", "")
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
	assert.Equal(t, "https://cdn/p.png", got.Picture)

	_, err = svc.UpdateProfile(ctx, "missing", "x", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

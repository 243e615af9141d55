package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-ops-api/internal/model"
	pkgauth "github.com/jwalitptl/clinic-ops-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-ops-api/pkg/errors"
	"github.com/jwalitptl/clinic-ops-api/pkg/security"
)

type fakeUserRepo struct {
	nextID int64
	users  map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.Username]; ok {
		return apperrors.Conflict("username %q is taken", u.Username)
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.Username] = u
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, apperrors.Unauthorized("invalid username or password")
	}
	return u, nil
}

func newTestService() *Service {
	return NewService(
		newFakeUserRepo(),
		security.NewBcryptHasher(bcrypt.MinCost),
		pkgauth.NewJWTService("test-secret", time.Hour),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "frontdesk",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, loggedIn, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "frontdesk",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "frontdesk", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "frontdesk",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &model.LoginRequest{
		Username: "frontdesk",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, _, err = svc.Login(context.Background(), &model.LoginRequest{
		Username: "nobody",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

package application

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

func newAuthService() (*AuthService, *fakeHostelRepo, *fakeUserRepo) {
	hostels := newFakeHostelRepo()
	users := newFakeUserRepo()
	return NewAuthService(hostels, users, "test-secret", zap.NewNop()), hostels, users
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Casa Muchi":      "casa-muchi",
		"  El Refugio  ":  "el-refugio",
		"Hostal 24/7!":    "hostal-24-7",
		"---":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestRegisterHostel_CreatesAdminScopedToHostel(t *testing.T) {
	svc, _, _ := newAuthService()

	hostel, admin, err := svc.RegisterHostel("Casa Muchi", "", "Eze", "eze@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "casa-muchi", hostel.Slug)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, hostel.ID, admin.HostelID)
	assert.NotEqual(t, "secret123", admin.Password, "password must be stored hashed")
}

func TestLogin_IssuesTokenWithTenantClaims(t *testing.T) {
	svc, _, _ := newAuthService()
	hostel, _, err := svc.RegisterHostel("Casa Muchi", "", "Eze", "eze@example.com", "secret123")
	require.NoError(t, err)

	token, user, err := svc.Login("EZE@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "eze@example.com", user.Email)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, string(domain.RoleAdmin), claims["role"])
	assert.Equal(t, hostel.ID, claims["hostelId"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthService()
	_, _, err := svc.RegisterHostel("Casa Muchi", "", "Eze", "eze@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login("eze@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateOperator_ScopedToHostel(t *testing.T) {
	svc, _, _ := newAuthService()
	hostel, _, err := svc.RegisterHostel("Casa Muchi", "", "Eze", "eze@example.com", "secret123")
	require.NoError(t, err)

	op, err := svc.CreateOperator(hostel.ID, "Marta", "marta@example.com", "op-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, op.Role)

	ops, err := svc.ListOperators(hostel.ID)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "marta@example.com", ops[0].Email)
}

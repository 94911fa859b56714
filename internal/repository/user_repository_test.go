package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Stored users keep a bcrypt hash, never the plaintext password
func TestProperty_RegistrationStoresHashedPasswords(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	role, err := NewRoleRepository(testDB).FindByName(ctx, domain.RoleCustomer)
	require.NoError(t, err)

	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, name string) bool {
			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
			if err != nil {
				t.Logf("Failed to hash password: %v", err)
				return false
			}

			user := &domain.User{
				ID:           uuid.New(),
				Name:         name,
				Email:        email,
				PasswordHash: string(hashedPassword),
				Active:       true,
				RoleID:       role.ID,
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}

			if err := repo.Create(ctx, user); err != nil {
				t.Logf("Failed to create user: %v", err)
				return false
			}

			retrievedUser, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("Failed to find user: %v", err)
				return false
			}

			if retrievedUser.PasswordHash == password {
				t.Logf("Password was stored as plaintext!")
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(retrievedUser.PasswordHash), []byte(password)); err != nil {
				t.Logf("Stored password is not a valid bcrypt hash: %v", err)
				return false
			}

			if retrievedUser.RoleName() != domain.RoleCustomer {
				t.Logf("Role not joined: %q", retrievedUser.RoleName())
				return false
			}

			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)
			return true
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)

	existing := createTestUser(t, ctx)
	dup := *existing
	dup.ID = uuid.New()

	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testDB)
	user := createTestUser(t, ctx)

	admin, err := NewRoleRepository(testDB).FindByName(ctx, domain.RoleAdmin)
	require.NoError(t, err)

	user.Name = "Nuevo Nombre"
	user.RoleID = admin.ID
	user.Active = false
	user.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nuevo Nombre", got.Name)
	assert.True(t, got.IsAdmin())
	assert.False(t, got.Active)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), ErrUserNotFound)
}

func TestRoleRepository_SeededRoles(t *testing.T) {
	roles, err := NewRoleRepository(testDB).List(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	assert.Subset(t, names, []string{domain.RoleAdmin, domain.RoleCustomer, domain.RoleSeller})
}

func TestRoleRepository_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t, ctx)

	err := NewRoleRepository(testDB).Delete(ctx, user.RoleID)
	assert.ErrorIs(t, err, ErrRoleInUse)
}

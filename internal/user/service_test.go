package user_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketbay/shop-backend/internal/user"
)

type mockRepository struct {
	createFunc     func(ctx context.Context, u *user.User) (uuid.UUID, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	updateFunc     func(ctx context.Context, u *user.User) error
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	return m.createFunc(ctx, u)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockRepository) Update(ctx context.Context, u *user.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func TestCreateUser_HashesPasswordAndDefaultsRole(t *testing.T) {
	newID := uuid.Must(uuid.NewV4())
	var stored *user.User

	repo := &mockRepository{
		createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
			stored = u
			return newID, nil
		},
	}
	svc := user.NewService(repo)

	u := &user.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	created, err := svc.CreateUser(context.Background(), u, "plaintext-password")
	require.NoError(t, err)

	assert.Equal(t, newID, created.ID)
	assert.Equal(t, user.RoleCustomer, created.Role)

	require.NotNil(t, stored)
	assert.NotEqual(t, "plaintext-password", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("plaintext-password")))
}

func TestCreateUser_EmptyPassword(t *testing.T) {
	svc := user.NewService(&mockRepository{})

	_, err := svc.CreateUser(context.Background(), &user.User{Email: "a@b.com"}, "")
	assert.Error(t, err)
}

func TestCreateUser_EmailExists(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
			return uuid.Nil, user.ErrEmailExists
		},
	}
	svc := user.NewService(repo)

	_, err := svc.CreateUser(context.Background(), &user.User{Email: "taken@example.com"}, "password")
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestCreateUser_KeepsExplicitRole(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, u *user.User) (uuid.UUID, error) {
			return uuid.Must(uuid.NewV4()), nil
		},
	}
	svc := user.NewService(repo)

	created, err := svc.CreateUser(context.Background(), &user.User{Email: "ops@example.com", Role: user.RoleAdmin}, "password")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, created.Role)
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	existing := &user.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        "ada@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleCustomer,
	}

	tests := []struct {
		name           string
		email          string
		password       string
		getByEmailFunc func(ctx context.Context, email string) (*user.User, error)
		wantErr        error
	}{
		{
			name:     "success",
			email:    "ada@example.com",
			password: "correct-password",
			getByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
				return existing, nil
			},
			wantErr: nil,
		},
		{
			name:     "wrong_password",
			email:    "ada@example.com",
			password: "wrong-password",
			getByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
				return existing, nil
			},
			wantErr: user.ErrInvalidCredentials,
		},
		{
			name:     "unknown_email",
			email:    "nobody@example.com",
			password: "correct-password",
			getByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
				return nil, user.ErrNotFound
			},
			// Indistinguishable from a wrong password.
			wantErr: user.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := user.NewService(&mockRepository{getByEmailFunc: tt.getByEmailFunc})

			got, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, existing.ID, got.ID)
		})
	}
}

func TestUpdateUser_PreservesHashWhenPasswordEmpty(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	var updated *user.User

	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, uid uuid.UUID) (*user.User, error) {
			return &user.User{ID: uid, PasswordHash: "existing-hash"}, nil
		},
		updateFunc: func(ctx context.Context, u *user.User) error {
			updated = u
			return nil
		},
	}
	svc := user.NewService(repo)

	err := svc.UpdateUser(context.Background(), &user.User{ID: id, FirstName: "Ada"}, "")
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, "existing-hash", updated.PasswordHash)
}

func TestUpdateUser_RehashesNewPassword(t *testing.T) {
	var updated *user.User

	repo := &mockRepository{
		updateFunc: func(ctx context.Context, u *user.User) error {
			updated = u
			return nil
		},
	}
	svc := user.NewService(repo)

	err := svc.UpdateUser(context.Background(), &user.User{ID: uuid.Must(uuid.NewV4())}, "new-password")
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")))
}

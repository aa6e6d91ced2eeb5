package repositories_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"akun/internal/database"
	"akun/internal/models"
	"akun/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runUserRepositoryContract checks the behaviour every backend must share.
func runUserRepositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.UserRepository) {
	ctx := context.Background()

	t.Run("CreateAndFind", func(t *testing.T) {
		repo := newRepo(t)
		user := &models.User{Name: "Ana", Email: "ana@example.com", Password: "hash", Photo: models.DefaultPhoto, Bio: models.DefaultBio}
		require.NoError(t, repo.Create(ctx, user))
		require.NotEmpty(t, user.ID)

		byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.Password)
		assert.False(t, byEmail.CreatedAt.IsZero())

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", byID.Name)
		assert.Equal(t, models.DefaultBio, byID.Bio)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
		_, err = repo.GetByID(ctx, "000000000000000000000000")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
		_, err = repo.Update(ctx, "000000000000000000000000", map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
		err = repo.UpdatePassword(ctx, "000000000000000000000000", "hash")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "dup@example.com", Password: "h"}))
		err := repo.Create(ctx, &models.User{Name: "B", Email: "dup@example.com", Password: "h"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
	})

	t.Run("ConcurrentCreatesKeepOneAccount", func(t *testing.T) {
		repo := newRepo(t)
		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := repo.Create(ctx, &models.User{Name: fmt.Sprintf("U%d", i), Email: "race@example.com", Password: "h"})
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, successes)
	})

	t.Run("UpdateOnlyAllowedFields", func(t *testing.T) {
		repo := newRepo(t)
		user := &models.User{Name: "Ana", Email: "ana@example.com", Password: "hash", Bio: "bio"}
		require.NoError(t, repo.Create(ctx, user))
		created, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		updated, err := repo.Update(ctx, user.ID, map[string]interface{}{
			"name":     "Ana Maria",
			"phone":    "+62 811",
			"password": "plaintext",
			"id":       "hijack",
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, updated.ID)
		assert.Equal(t, "Ana Maria", updated.Name)
		assert.Equal(t, "+62 811", updated.Phone)
		assert.Equal(t, "bio", updated.Bio)
		assert.Equal(t, "hash", updated.Password)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("UpdateEmailToTakenOne", func(t *testing.T) {
		repo := newRepo(t)
		first := &models.User{Name: "A", Email: "a@example.com", Password: "h"}
		second := &models.User{Name: "B", Email: "b@example.com", Password: "h"}
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		_, err := repo.Update(ctx, second.ID, map[string]interface{}{"email": "a@example.com"})
		assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

		// Keeping one's own email is not a conflict.
		_, err = repo.Update(ctx, second.ID, map[string]interface{}{"email": "b@example.com"})
		assert.NoError(t, err)
	})

	t.Run("UpdatePassword", func(t *testing.T) {
		repo := newRepo(t)
		user := &models.User{Name: "A", Email: "a@example.com", Password: "old-hash"}
		require.NoError(t, repo.Create(ctx, user))

		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.Password)
	})
}

func TestMockUserRepository(t *testing.T) {
	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		return repositories.NewMockUserRepository()
	})
}

func TestGORMUserRepository_SQLite(t *testing.T) {
	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
		db, err := database.OpenGORM("sqlite", dsn)
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		// SQLite allows one writer; a single connection avoids shared-cache table locks.
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { sqlDB.Close() })
		return repositories.NewGORMUserRepository(db)
	})
}

func TestMongoUserRepository(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		ctx := context.Background()
		client, db, err := database.OpenMongo(ctx, uri, "akun_test_"+uuid.New().String()[:8])
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = client.Disconnect(context.Background())
		})
		repo, err := repositories.NewMongoUserRepository(ctx, db)
		require.NoError(t, err)
		return repo
	})
}

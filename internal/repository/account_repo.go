package repository

import (
	"context"
	"path/filepath"
	"time"

	"github.com/opusnote/opusnote-api/internal/models"
)

// AccountRepository provides access to the credential store document.
type AccountRepository interface {
	// Bootstrap seeds the given admin account when the store is empty. It runs
	// synchronously before the service accepts requests.
	Bootstrap(ctx context.Context, username, passwordHash string) error
	Get(ctx context.Context, username string) (models.Account, error)
	Insert(ctx context.Context, username, passwordHash, role string) (models.Account, error)
	TeacherCount(ctx context.Context) (int, error)
}

// AccountsFile is the credential document name inside the data directory.
const AccountsFile = "users.json"

type accountRepository struct {
	store *documentStore[models.Account]
	now   func() time.Time
}

// NewAccountRepository constructs a credential repository backed by a JSON
// document in dataDir.
func NewAccountRepository(dataDir string) AccountRepository {
	return &accountRepository{
		store: newDocumentStore[models.Account](filepath.Join(dataDir, AccountsFile)),
		now:   time.Now,
	}
}

func (r *accountRepository) Bootstrap(ctx context.Context, username, passwordHash string) error {
	return r.store.Update(func(docs map[string]models.Account) error {
		if len(docs) > 0 {
			return nil
		}
		docs[username] = models.Account{
			Username:  username,
			Password:  passwordHash,
			Role:      models.RoleAdmin,
			CreatedAt: r.now().Format(models.TimestampLayout),
		}
		return nil
	})
}

func (r *accountRepository) Get(ctx context.Context, username string) (models.Account, error) {
	var account models.Account
	err := r.store.View(func(docs map[string]models.Account) error {
		found, ok := docs[username]
		if !ok {
			return ErrNotFound
		}
		account = found
		return nil
	})
	return account, err
}

func (r *accountRepository) Insert(ctx context.Context, username, passwordHash, role string) (models.Account, error) {
	account := models.Account{
		Username: username,
		Password: passwordHash,
		Role:     role,
	}
	err := r.store.Update(func(docs map[string]models.Account) error {
		if _, taken := docs[username]; taken {
			return ErrConflict
		}
		account.CreatedAt = r.now().Format(models.TimestampLayout)
		docs[username] = account
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) TeacherCount(ctx context.Context) (int, error) {
	count := 0
	err := r.store.View(func(docs map[string]models.Account) error {
		for _, account := range docs {
			if account.Role == models.RoleTeacher {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Package users implements the user repository: CRUD operations over
// the in-memory users collection mirrored to an injected persistence
// backend, plus credential verification for login.
package users

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/storeapi/internal/logger"
	"github.com/patric-chuzhbe/storeapi/internal/passhash"
	"github.com/patric-chuzhbe/storeapi/internal/user"
)

const triesToGenerateUniqueID = 10

// ErrUniqueIDExhausted is returned by Create when every generated
// candidate ID collided with an existing record.
var ErrUniqueIDExhausted = errors.New("the number of attempts to generate a unique user ID has been exceeded")

type persister interface {
	Load(dest interface{}) error
	Save(data interface{}) error
}

// Update describes a partial user mutation. Empty fields keep the
// stored values.
type Update struct {
	Username string
	Email    string
	Password string
}

// Repository owns the users collection. The collection is loaded once
// at construction and written back after every mutation.
type Repository struct {
	db    persister
	mu    sync.RWMutex
	users map[string]user.User
}

// New loads the collection from db. A missing or unparsable backing
// store is non-fatal: the repository starts empty and logs the cause.
func New(db persister) *Repository {
	repo := &Repository{
		db:    db,
		users: map[string]user.User{},
	}

	if err := db.Load(&repo.users); err != nil {
		logger.Log.Infoln("starting with an empty users collection:", err)
		repo.users = map[string]user.User{}
	}

	return repo
}

// FindAll returns all users in unspecified order.
func (r *Repository) FindAll(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]user.User, 0, len(r.users))
	for _, usr := range r.users {
		all = append(all, usr)
	}

	return all, nil
}

// FindOne looks a user up by ID.
func (r *Repository) FindOne(ctx context.Context, id string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	usr, found := r.users[id]

	return usr, found, nil
}

// FindByEmail scans the collection for the first user with the given
// email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (user.User, bool, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return user.User{}, false, err
	}

	match := funk.Find(all, func(usr user.User) bool {
		return usr.Email == email
	})
	if match == nil {
		return user.User{}, false, nil
	}

	return match.(user.User), true, nil
}

// Create hashes the password, assigns a fresh unique ID, inserts the
// record and persists the collection.
func (r *Repository) Create(ctx context.Context, username, email, password string) (user.User, error) {
	digest, err := passhash.Hash(password)
	if err != nil {
		return user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.generateUniqueID()
	if err != nil {
		return user.User{}, err
	}

	usr := user.User{
		ID:       id,
		Username: username,
		Email:    email,
		Password: digest,
	}
	r.users[id] = usr

	if err := r.db.Save(r.users); err != nil {
		return user.User{}, err
	}

	return usr, nil
}

// Update shallow-merges upd over the stored record. A new password is
// re-hashed before merging. Returns false when the ID is unknown.
func (r *Repository) Update(ctx context.Context, id string, upd Update) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	usr, found := r.users[id]
	if !found {
		return user.User{}, false, nil
	}

	if upd.Username != "" {
		usr.Username = upd.Username
	}
	if upd.Email != "" {
		usr.Email = upd.Email
	}
	if upd.Password != "" {
		digest, err := passhash.Hash(upd.Password)
		if err != nil {
			return user.User{}, false, err
		}
		usr.Password = digest
	}

	r.users[id] = usr

	if err := r.db.Save(r.users); err != nil {
		return user.User{}, false, err
	}

	return usr, true, nil
}

// Remove deletes the record and persists the collection. Returns
// false when the ID is unknown; the collection is left untouched.
func (r *Repository) Remove(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.users[id]; !found {
		return false, nil
	}

	delete(r.users, id)

	if err := r.db.Save(r.users); err != nil {
		return false, err
	}

	return true, nil
}

// ComparePassword resolves the email and verifies the supplied
// password against the stored digest. The record is returned only on
// a match.
func (r *Repository) ComparePassword(ctx context.Context, email, password string) (user.User, bool, error) {
	usr, found, err := r.FindByEmail(ctx, email)
	if err != nil || !found {
		return user.User{}, false, err
	}

	ok, err := passhash.Verify(password, usr.Password)
	if err != nil {
		return user.User{}, false, err
	}
	if !ok {
		return user.User{}, false, nil
	}

	return usr, true, nil
}

// generateUniqueID retries on collision against the live collection.
// Callers must hold the write lock.
func (r *Repository) generateUniqueID() (string, error) {
	for i := 0; i < triesToGenerateUniqueID; i++ {
		id := uuid.New().String()
		if _, exists := r.users[id]; !exists {
			return id, nil
		}
	}

	return "", ErrUniqueIDExhausted
}

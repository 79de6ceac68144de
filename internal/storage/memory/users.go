package memory

import (
	"context"
	"sync"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
)

// UserDirectory keeps users in memory with a unique email index.
type UserDirectory struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]core.User
	byEmail map[string]int64
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		nextID:  1,
		byID:    make(map[int64]core.User),
		byEmail: make(map[string]int64),
	}
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (core.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, ok := d.byEmail[email]
	if !ok {
		return core.User{}, false, nil
	}
	return d.byID[id], true, nil
}

func (d *UserDirectory) FindByID(_ context.Context, id int64) (core.User, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[id]
	return u, ok, nil
}

func (d *UserDirectory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.byEmail[email]
	return ok, nil
}

// Save inserts when ID is zero, otherwise replaces the stored user. An email
// owned by another user is rejected with ErrEmailTaken.
func (d *UserDirectory) Save(_ context.Context, u core.User) (core.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if owner, ok := d.byEmail[u.Email]; ok && owner != u.ID {
		return core.User{}, core.ErrEmailTaken
	}

	if u.ID == 0 {
		u.ID = d.nextID
		d.nextID++
	} else {
		old, ok := d.byID[u.ID]
		if !ok {
			return core.User{}, ports.ErrNotFound
		}
		delete(d.byEmail, old.Email)
	}

	d.byID[u.ID] = u
	d.byEmail[u.Email] = u.ID
	return u, nil
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

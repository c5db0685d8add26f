package service

import (
	"context"
	"strings"
	"sync"

	"physical-ai-textbook-be/internal/entity"
	"physical-ai-textbook-be/internal/repository/contract"
	"physical-ai-textbook-be/internal/repository/specification"
	"physical-ai-textbook-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore backs every repository handed out by fakeFactory.
type fakeStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	profiles map[uuid.UUID]*entity.UserProfile
	audits   []*entity.AuditLog
	commits  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		profiles: make(map[uuid.UUID]*entity.UserProfile),
	}
}

func (s *fakeStore) auditTypes() []entity.AuditEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]entity.AuditEventType, len(s.audits))
	for i, a := range s.audits {
		types[i] = a.EventType
	}
	return types
}

func (s *fakeStore) userByEmail(email string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp
		}
	}
	return nil
}

type fakeFactory struct{ store *fakeStore }

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct{ store *fakeStore }

func (u fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u fakeUnitOfWork) Rollback() error                 { return nil }

func (u fakeUnitOfWork) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.commits++
	return nil
}

func (u fakeUnitOfWork) UserRepository() contract.UserRepository {
	return fakeUserRepo{store: u.store}
}

func (u fakeUnitOfWork) UserProfileRepository() contract.UserProfileRepository {
	return fakeProfileRepo{store: u.store}
}

func (u fakeUnitOfWork) AuditLogRepository() contract.AuditLogRepository {
	return fakeAuditRepo{store: u.store}
}

func matchesUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != strings.ToLower(strings.TrimSpace(sp.Email)) {
				return false
			}
		}
	}
	return true
}

type fakeUserRepo struct{ store *fakeStore }

func (r fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.CreatedAt = timeNow()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.users, id)
	return nil
}

func (r fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, u := range r.store.users {
		if matchesUser(u, specs) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeProfileRepo struct{ store *fakeStore }

func (r fakeProfileRepo) Create(ctx context.Context, profile *entity.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.profiles[profile.UserId]; ok {
		return gorm.ErrDuplicatedKey
	}
	profile.CreatedAt = timeNow()
	profile.UpdatedAt = profile.CreatedAt
	cp := *profile
	r.store.profiles[profile.UserId] = &cp
	return nil
}

func (r fakeProfileRepo) Update(ctx context.Context, profile *entity.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	profile.UpdatedAt = timeNow()
	cp := *profile
	r.store.profiles[profile.UserId] = &cp
	return nil
}

func (r fakeProfileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if owned, ok := spec.(specification.UserOwnedBy); ok {
			if p, ok := r.store.profiles[owned.UserID]; ok {
				cp := *p
				return &cp, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

type fakeAuditRepo struct{ store *fakeStore }

func (r fakeAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, log)
	return nil
}

func (r fakeAuditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]*entity.AuditLog(nil), r.store.audits...), nil
}

func (r fakeAuditRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.audits)), nil
}

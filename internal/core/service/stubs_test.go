package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byName   map[string]*domain.User
	err      error  // if set, every lookup returns this error
	failName string // FindByName returns errDBDown for this name only

	credentialCalls int
	nameCalls       int
	idCalls         int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byName: make(map[string]*domain.User)}
	for _, u := range users {
		r.byName[u.Name] = u
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByCredentials(_ context.Context, name, password string) (*domain.User, error) {
	r.credentialCalls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byName[name]
	if !ok || u.Password == nil || *u.Password != password {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByName(_ context.Context, name string) (*domain.User, error) {
	r.nameCalls++
	if r.err != nil {
		return nil, r.err
	}
	if name == r.failName {
		return nil, errDBDown
	}
	u, ok := r.byName[name]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.idCalls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byName {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) totalCalls() int {
	return r.credentialCalls + r.nameCalls + r.idCalls
}

type stubMessageRepo struct {
	rows        []*domain.Message
	createErr   error
	listErr     error
	updateErr   error
	createCalls int
	updateCalls int
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	clone := *m
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *stubMessageRepo) List(_ context.Context, f ports.ListMessagesFilter) ([]*domain.Message, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Message
	for _, m := range r.rows {
		if m.RecipientID != f.RecipientID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubMessageRepo) UpdateStatusForRecipient(_ context.Context, id, recipientID uuid.UUID, status domain.MessageStatus) (int64, error) {
	r.updateCalls++
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	for _, m := range r.rows {
		if m.ID == id && m.RecipientID == recipientID {
			m.Status = status
			return 1, nil
		}
	}
	return 0, nil
}

type stubPublisher struct {
	published []ports.MessageEventInput
}

func (p *stubPublisher) Publish(e ports.MessageEventInput) {
	p.published = append(p.published, e)
}

type stubIdempotency struct {
	keys     map[string]bool
	claimErr error
	claims   int
	released int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]bool)}
}

func (s *stubIdempotency) Claim(_ context.Context, sender, key string) (bool, error) {
	s.claims++
	if s.claimErr != nil {
		return false, s.claimErr
	}
	k := sender + ":" + key
	if s.keys[k] {
		return false, nil
	}
	s.keys[k] = true
	return true, nil
}

func (s *stubIdempotency) Release(_ context.Context, sender, key string) error {
	s.released++
	delete(s.keys, sender+":"+key)
	return nil
}

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.MessageEvent
}

func (r *stubEventRepo) InsertEvent(_ context.Context, e *domain.MessageEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	errDBDown     = errors.New("db down")
)

func strPtr(s string) *string { return &s }

func newUser(name, password string) *domain.User {
	u := &domain.User{ID: uuid.New(), Name: name, Surname: "Doe", Email: name + "@example.com", Role: "user"}
	if password != "" {
		u.Password = strPtr(password)
	}
	return u
}

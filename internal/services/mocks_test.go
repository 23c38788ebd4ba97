package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"churchdir/internal/models"
	"churchdir/internal/repository"
	"churchdir/internal/utils"
)

// Мок-репозиторий аккаунтов (in-memory)
type mockAccountRepo struct {
	mu       sync.Mutex
	byID     map[string]*models.Account
	seq      int
	writes   int
	failNext error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byID: make(map[string]*models.Account)}
}

func (m *mockAccountRepo) add(name, email, password string) *models.Account {
	a := &models.Account{Name: name, Email: email, Role: models.RoleUser}
	if err := m.Create(context.Background(), a, password); err != nil {
		panic(err)
	}
	m.writes = 0
	return a
}

func (m *mockAccountRepo) Create(_ context.Context, a *models.Account, plain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.byID {
		if other.Email == a.Email {
			return repository.ErrEmailTaken
		}
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	m.seq++
	a.ID = "acc-" + strconv.Itoa(m.seq)
	a.PasswordHash = hash
	if a.Role == "" {
		a.Role = models.RoleUser
	}
	cp := *a
	m.byID[a.ID] = &cp
	m.writes++
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepo) List(_ context.Context) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Account
	for _, a := range m.byID {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockAccountRepo) UpdateFields(_ context.Context, id string, input *models.UpdateAccountRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	input.Apply(a)
	m.writes++
	return nil
}

func (m *mockAccountRepo) UpdatePassword(_ context.Context, id, plain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	m.writes++
	return nil
}

func (m *mockAccountRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockAccountRepo) hashOf(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].PasswordHash
}

// Мок хранилища состояния сброса
type mockResetStore struct {
	states  map[string]models.ResetState
	saves   int
	deletes int
	lastTTL time.Duration
	failDel bool
}

func newMockResetStore() *mockResetStore {
	return &mockResetStore{states: make(map[string]models.ResetState)}
}

func (m *mockResetStore) Get(_ context.Context, id string) (*models.ResetState, error) {
	st, ok := m.states[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (m *mockResetStore) Save(_ context.Context, st *models.ResetState, ttl time.Duration) error {
	m.states[st.AccountID] = *st
	m.saves++
	m.lastTTL = ttl
	return nil
}

func (m *mockResetStore) Delete(_ context.Context, id string) error {
	if m.failDel {
		return errors.New("redis down")
	}
	delete(m.states, id)
	m.deletes++
	return nil
}

// Мок уведомлений
type mockNotifier struct {
	failOTP   bool
	otps      []string
	changed   []string
	welcomes  []string
	passwords []string
}

func (m *mockNotifier) SendOTP(_ context.Context, to, _, otp string) error {
	if m.failOTP {
		return errors.New("smtp down")
	}
	m.otps = append(m.otps, otp)
	return nil
}

func (m *mockNotifier) SendPasswordChanged(_ context.Context, to, _ string) {
	m.changed = append(m.changed, to)
}

func (m *mockNotifier) SendWelcome(_ context.Context, to, _, password string) {
	m.welcomes = append(m.welcomes, to)
	m.passwords = append(m.passwords, password)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

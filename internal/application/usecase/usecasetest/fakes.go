// Package usecasetest holds in-memory collaborators shared by usecase tests.
package usecasetest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khoahotran/volc-friends/internal/domain/captcha"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
)

// MemoryUserRepo mimics the Postgres repository, including its unique
// username constraint and directory semantics.
type MemoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User

	// FailWith, when set, is returned by every method.
	FailWith error
	// ExistsHook overrides ExistsByUsername to simulate a lost race.
	ExistsHook func(username string) (bool, error)
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: map[int64]*user.User{}}
}

func clone(u *user.User) *user.User {
	c := *u
	c.LifePhotos = append([]string{}, u.LifePhotos...)
	return &c
}

func (r *MemoryUserRepo) Create(_ context.Context, u *user.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return 0, apperror.NewConflict("user", "username", u.Username)
		}
	}
	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users[u.ID] = clone(u)
	return u.ID, nil
}

func (r *MemoryUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if r.ExistsHook != nil {
		return r.ExistsHook(username)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return false, r.FailWith
	}
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	return clone(u), nil
}

func (r *MemoryUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, u := range r.users {
		if u.Username == username {
			return clone(u), nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *MemoryUserRepo) UpdateProfile(_ context.Context, id int64, p user.ProfileFields) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	u.Apply(p)
	return clone(u), nil
}

func (r *MemoryUserRepo) Delete(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	delete(r.users, id)
	return u, nil
}

func (r *MemoryUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	u, ok := r.users[id]
	if !ok {
		return apperror.NewNotFound("user", strconv.FormatInt(id, 10))
	}
	u.LastLogin = &at
	return nil
}

func (r *MemoryUserRepo) ListDirectory(_ context.Context, f user.DirectoryFilter) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	f = f.Normalize()

	matched := make([]*user.User, 0)
	for _, u := range r.users {
		if matches(u, f) {
			matched = append(matched, clone(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	start := f.Offset()
	if start >= len(matched) {
		return []*user.User{}, nil
	}
	end := start + f.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func matches(u *user.User, f user.DirectoryFilter) bool {
	if !u.IsPublic {
		return false
	}
	if f.Gender != nil && u.Gender != *f.Gender {
		return false
	}
	if !inRange(u, user.FieldAge, u.Age, f.MinAge, f.MaxAge) {
		return false
	}
	if !inRange(u, user.FieldHeight, u.Height, f.MinHeight, f.MaxHeight) {
		return false
	}
	if f.Education != nil {
		if !u.Visible(user.FieldEducation) || u.Education == nil || *u.Education != *f.Education {
			return false
		}
	}
	return true
}

func inRange(u *user.User, field user.GatedField, v, lo, hi *int) bool {
	if lo == nil && hi == nil {
		return true
	}
	if !u.Visible(field) || v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	if hi != nil && *v > *hi {
		return false
	}
	return true
}

// Count reports how many records are stored.
func (r *MemoryUserRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// RecordingPublisher keeps every published event in order.
type RecordingPublisher struct {
	mu       sync.Mutex
	Events   []user.Event
	FailWith error
}

func (p *RecordingPublisher) PublishUserEvent(_ context.Context, evt user.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.Events = append(p.Events, evt)
	return nil
}

func (p *RecordingPublisher) Types() []user.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]user.EventType, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.Type
	}
	return out
}

// PlainHasher prefixes the password so tests stay fast and readable.
type PlainHasher struct{}

func (PlainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (PlainHasher) Verify(plain, digest string) bool { return digest == "hashed:"+plain }

// StaticTokens issues "token-<id>".
type StaticTokens struct {
	FailWith error
}

func (t StaticTokens) GenerateToken(userID int64) (string, error) {
	if t.FailWith != nil {
		return "", t.FailWith
	}
	return "token-" + strconv.FormatInt(userID, 10), nil
}

// StaticCaptcha accepts only Answer for ID.
type StaticCaptcha struct {
	ID     string
	Answer string
	Calls  int
}

func (c *StaticCaptcha) Verify(_ context.Context, id, answer string) (bool, error) {
	c.Calls++
	return id == c.ID && strings.EqualFold(answer, c.Answer), nil
}

// MemoryUploader stores uploads in memory under "mem://<folder>/<name>".
type MemoryUploader struct {
	mu       sync.Mutex
	Objects  map[string][]byte
	Deleted  []string
	FailWith error
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{Objects: map[string][]byte{}}
}

func (m *MemoryUploader) Upload(_ context.Context, file io.Reader, _ int64, folder, objectName, _ string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}
	url := "mem://" + folder + "/" + objectName
	m.mu.Lock()
	m.Objects[url] = buf.Bytes()
	m.mu.Unlock()
	return url, nil
}

func (m *MemoryUploader) Delete(_ context.Context, url string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Objects[url]; !ok {
		return errors.New("object not found")
	}
	delete(m.Objects, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}

func (m *MemoryUploader) Provider() string { return "memory" }

// MemoryCaptchaStore is a captcha.Store without expiry.
type MemoryCaptchaStore struct {
	mu      sync.Mutex
	Answers map[string]string
}

func NewMemoryCaptchaStore() *MemoryCaptchaStore {
	return &MemoryCaptchaStore{Answers: map[string]string{}}
}

func (s *MemoryCaptchaStore) Save(_ context.Context, id, answer string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Answers[id] = answer
	return nil
}

func (s *MemoryCaptchaStore) Take(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Answers[id]
	if !ok {
		return "", captcha.ErrChallengeNotFound
	}
	delete(s.Answers, id)
	return a, nil
}

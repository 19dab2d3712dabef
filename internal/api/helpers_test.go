package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slidesmith/slidesmith-api/internal/api/shared"
	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/generation"
	"github.com/slidesmith/slidesmith-api/internal/service/auth"
	"github.com/slidesmith/slidesmith-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for handler tests.
type fakeUserStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*domain.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// fakeJWTService returns a fixed token or error.
type fakeJWTService struct {
	token string
	err   error
}

func (s *fakeJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return s.token, s.err
}

func (s *fakeJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// fakePasswordVerifier accepts or rejects every password.
type fakePasswordVerifier struct {
	err error
}

func (v *fakePasswordVerifier) Compare(_, _ string) error {
	return v.err
}

// fakeGenerator is a canned generation.DocumentGenerator.
type fakeGenerator struct {
	doc        *domain.GeneratedDocument
	err        error
	lastKind   domain.DocumentKind
	lastFields generation.Fields
}

func (g *fakeGenerator) Generate(
	_ context.Context,
	kind domain.DocumentKind,
	fields generation.Fields,
) (*domain.GeneratedDocument, error) {
	g.lastKind = kind
	g.lastFields = fields
	return g.doc, g.err
}

// fakeSowStore is an in-memory store.SowStore scoped by owner.
type fakeSowStore struct {
	mu        sync.Mutex
	sows      map[uuid.UUID]*domain.Sow
	createErr error
}

func newFakeSowStore() *fakeSowStore {
	return &fakeSowStore{sows: make(map[uuid.UUID]*domain.Sow)}
}

func (s *fakeSowStore) Create(_ context.Context, sow *domain.Sow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.sows[sow.ID] = sow
	return nil
}

func (s *fakeSowStore) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Sow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sow, ok := s.sows[id]
	if !ok || sow.UserID != userID {
		return nil, store.ErrSowNotFound
	}
	// Hand out a copy, like a row scan would.
	found := *sow
	return &found, nil
}

func (s *fakeSowStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Sow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []*domain.Sow{}
	for _, sow := range s.sows {
		if sow.UserID == userID {
			result = append(result, sow)
		}
	}
	return result, nil
}

func (s *fakeSowStore) Update(_ context.Context, sow *domain.Sow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sows[sow.ID]
	if !ok || existing.UserID != sow.UserID {
		return store.ErrSowNotFound
	}
	s.sows[sow.ID] = sow
	return nil
}

func (s *fakeSowStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sow, ok := s.sows[id]
	if !ok || sow.UserID != userID {
		return store.ErrSowNotFound
	}
	delete(s.sows, id)
	return nil
}

// withUserID attaches an authenticated user ID to the request context, the
// way the auth middleware does.
func withUserID(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withPathParam attaches a chi URL parameter to the request context.
func withPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// testSlides returns a minimal valid slide sequence.
func testSlides() []domain.SlideRecord {
	return []domain.SlideRecord{
		{
			ID:          "slide-1",
			Type:        "cover",
			Template:    domain.TemplateCover,
			Title:       "Project Kickoff",
			Content:     "<h1>Project Kickoff</h1>",
			ContentType: domain.ContentTypeText,
		},
	}
}

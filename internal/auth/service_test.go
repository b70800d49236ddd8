package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/heatchat/auth-service/internal/models"
)

type fakeProvider struct {
	token       string
	profile     *Profile
	exchangeErr error
	profileErr  error
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if accessToken != f.token {
		return nil, fmt.Errorf("%w: bad credentials", ErrProfileFetchFailed)
	}
	return f.profile, nil
}

// fakeStore mimics the store's atomic find-or-create under a mutex.
type fakeStore struct {
	mu       sync.Mutex
	byGithub map[int64]*models.User
	creates  int
	fail     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byGithub: make(map[int64]*models.User)}
}

func (f *fakeStore) FindOrCreate(ctx context.Context, profile *Profile) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != nil {
		return nil, f.fail
	}
	if u, ok := f.byGithub[profile.ID]; ok {
		return u, nil
	}
	u := &models.User{
		ID:        uuid.NewString(),
		GithubID:  profile.ID,
		Login:     profile.Login,
		AvatarURL: profile.AvatarURL,
		Name:      profile.Name,
	}
	f.byGithub[profile.ID] = u
	f.creates++
	return u, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byGithub {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func octocatProvider() *fakeProvider {
	name := "The Octocat"
	return &fakeProvider{
		token: "tok_x",
		profile: &Profile{
			ID:        42,
			Login:     "octocat",
			AvatarURL: "http://github.com/octocat.png",
			Name:      &name,
		},
	}
}

func newTestService(t *testing.T, provider Provider, store Store) *Service {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	return NewService(provider, store, issuer)
}

func TestExecute_FirstLogin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, octocatProvider(), store)

	result, err := svc.Execute(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if store.creates != 1 {
		t.Errorf("expected exactly 1 user created, got %d", store.creates)
	}
	if result.User.GithubID != 42 {
		t.Errorf("expected github id 42, got %d", result.User.GithubID)
	}
	if result.User.Login != "octocat" {
		t.Errorf("expected login 'octocat', got %q", result.User.Login)
	}
	if result.User.ID == "" {
		t.Error("expected generated user id")
	}

	// Token subject matches the returned user
	claims := parseToken(t, result.Token)
	if sub, _ := claims.GetSubject(); sub != result.User.ID {
		t.Errorf("expected subject %q, got %q", result.User.ID, sub)
	}
	userClaim := claims["user"].(map[string]interface{})
	if userClaim["id"] != result.User.ID {
		t.Errorf("expected user claim id %q, got %v", result.User.ID, userClaim["id"])
	}
	if userClaim["name"] != "The Octocat" {
		t.Errorf("expected user claim name 'The Octocat', got %v", userClaim["name"])
	}
}

func TestExecute_RepeatLogin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, octocatProvider(), store)

	first, err := svc.Execute(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	second, err := svc.Execute(context.Background(), "def456")
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}

	if store.creates != 1 {
		t.Errorf("expected exactly 1 user created, got %d", store.creates)
	}
	if first.User.ID != second.User.ID {
		t.Errorf("expected stable user id, got %q then %q", first.User.ID, second.User.ID)
	}
}

func TestExecute_ConcurrentFirstLogins(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, octocatProvider(), store)

	const attempts = 16
	results := make([]*Result, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Execute(context.Background(), fmt.Sprintf("code-%d", i))
		}(i)
	}
	wg.Wait()

	if store.creates != 1 {
		t.Errorf("expected exactly 1 user created, got %d", store.creates)
	}
	for i := 0; i < attempts; i++ {
		if errs[i] != nil {
			t.Fatalf("Execute %d error: %v", i, errs[i])
		}
		if results[i].User.ID != results[0].User.ID {
			t.Errorf("expected all logins to resolve to the same user, got %q and %q",
				results[0].User.ID, results[i].User.ID)
		}
	}
}

func TestExecute_EmptyCode(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, octocatProvider(), store)

	_, err := svc.Execute(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidAuthorizationCode) {
		t.Errorf("expected ErrInvalidAuthorizationCode, got %v", err)
	}
	if store.creates != 0 {
		t.Errorf("expected no user created, got %d", store.creates)
	}
}

func TestExecute_ExchangeFailure(t *testing.T) {
	provider := octocatProvider()
	provider.exchangeErr = fmt.Errorf("%w: bad_verification_code", ErrInvalidAuthorizationCode)
	store := newFakeStore()
	svc := newTestService(t, provider, store)

	result, err := svc.Execute(context.Background(), "expired-code")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrInvalidAuthorizationCode) {
		t.Errorf("expected ErrInvalidAuthorizationCode, got %v", err)
	}
	if result != nil {
		t.Error("expected no result on failure")
	}
	if store.creates != 0 {
		t.Errorf("expected no user created, got %d", store.creates)
	}
}

func TestExecute_ProfileFailure(t *testing.T) {
	provider := octocatProvider()
	provider.profileErr = fmt.Errorf("%w: response missing account id", ErrProfileFetchFailed)
	store := newFakeStore()
	svc := newTestService(t, provider, store)

	_, err := svc.Execute(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrProfileFetchFailed) {
		t.Errorf("expected ErrProfileFetchFailed, got %v", err)
	}
	if store.creates != 0 {
		t.Errorf("expected no user created, got %d", store.creates)
	}
}

func TestExecute_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = errors.New("connection reset")
	svc := newTestService(t, octocatProvider(), store)

	_, err := svc.Execute(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUserPersistenceFailed) {
		t.Errorf("expected ErrUserPersistenceFailed, got %v", err)
	}
}

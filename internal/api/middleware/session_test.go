package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/mntc/quiz-server/internal/core/domain"
)

type stubStore struct {
	sessions map[string]*domain.Session
	getErr   error
}

func (s *stubStore) Create(context.Context, *domain.Session) error { return nil }

func (s *stubStore) Save(context.Context, *domain.Session) error { return nil }

func (s *stubStore) Destroy(context.Context, string) error { return nil }

func (s *stubStore) Get(_ context.Context, token string) (*domain.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func liveSession(token string) *domain.Session {
	now := time.Now()
	return &domain.Session{Token: token, Username: "alice", Level: 2, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
}

func requestWithCookie(t *testing.T, codec *CookieCodec, sess *domain.Session) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/question", nil)
	if sess != nil {
		cookie, err := codec.Issue(sess)
		if err != nil {
			t.Fatalf("issue cookie: %v", err)
		}
		req.AddCookie(cookie)
	}
	return req
}

func TestRequireSession_Valid(t *testing.T) {
	e := echo.New()
	codec := NewCookieCodec("secret", false)
	sess := liveSession("tok")
	store := &stubStore{sessions: map[string]*domain.Session{"tok": sess}}

	rec := httptest.NewRecorder()
	c := e.NewContext(requestWithCookie(t, codec, sess), rec)

	called := false
	handler := RequireSession(store, codec)(func(c echo.Context) error {
		called = true
		got, ok := SessionFrom(c)
		if !ok || got.Username != "alice" || got.Level != 2 {
			t.Fatalf("session not injected: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func assertRedirectsToLogin(t *testing.T, req *http.Request, store *stubStore, codec *CookieCodec) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireSession(store, codec)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireSession_NoCookie(t *testing.T) {
	codec := NewCookieCodec("secret", false)
	assertRedirectsToLogin(t, requestWithCookie(t, codec, nil), &stubStore{}, codec)
}

func TestRequireSession_ForeignSignature(t *testing.T) {
	sess := liveSession("tok")
	store := &stubStore{sessions: map[string]*domain.Session{"tok": sess}}
	forged := requestWithCookie(t, NewCookieCodec("attacker", false), sess)

	assertRedirectsToLogin(t, forged, store, NewCookieCodec("secret", false))
}

func TestRequireSession_UnknownSession(t *testing.T) {
	codec := NewCookieCodec("secret", false)
	req := requestWithCookie(t, codec, liveSession("destroyed"))

	assertRedirectsToLogin(t, req, &stubStore{sessions: map[string]*domain.Session{}}, codec)
}

func TestRequireSession_StoreError(t *testing.T) {
	e := echo.New()
	codec := NewCookieCodec("secret", false)
	store := &stubStore{getErr: errors.New("redis down")}
	rec := httptest.NewRecorder()
	c := e.NewContext(requestWithCookie(t, codec, liveSession("tok")), rec)

	handler := RequireSession(store, codec)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("secret", true)
	sess := liveSession("tok-123")

	cookie, err := codec.Issue(sess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.Name != CookieName {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	token, err := codec.Token(req)
	if err != nil || token != "tok-123" {
		t.Fatalf("expected tok-123, got %q (%v)", token, err)
	}
}

func TestCookieCodec_Expired(t *testing.T) {
	codec := NewCookieCodec("secret", false)
	past := time.Now().Add(-2 * time.Hour)
	sess := &domain.Session{Token: "old", CreatedAt: past, ExpiresAt: past.Add(time.Hour)}

	cookie, err := codec.Issue(sess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	if _, err := codec.Token(req); !errors.Is(err, ErrNoSessionCookie) {
		t.Fatalf("expected ErrNoSessionCookie, got %v", err)
	}
}

func TestCookieCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := NewCookieCodec("secret", false)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{ID: "tok"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: unsigned})

	if _, err := codec.Token(req); !errors.Is(err, ErrNoSessionCookie) {
		t.Fatalf("expected ErrNoSessionCookie, got %v", err)
	}
}

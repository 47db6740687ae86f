package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/session"

	"github.com/google/uuid"
)

type SessionConfig struct {
	Store      session.TokenStore
	CookieName string
	Secure     bool
	Logger     *slog.Logger
}

// Sessions gives every request its own visitor session in the context.
// The visitor is identified by a random id in a cookie, issued on first
// contact. A request that brings its own "Authorization: Bearer" header is
// served with that token alone and nothing is persisted for it.
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "esim_sid"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := visitorID(r, cfg.CookieName)
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := session.NewScoped(cfg.Store, sid)
			if tok, ok := bearer(r); ok {
				sess = session.NewScoped(session.NewMemoryStore(), sid)
				if err := sess.SetToken(r.Context(), tok); err != nil {
					cfg.Logger.Warn("session: bearer token rejected", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// visitorID returns the cookie's id when it is a well-formed uuid.
func visitorID(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	tok = strings.TrimSpace(tok)
	return tok, ok && tok != ""
}

// SessionID is the visitor id of the request's session, "" without one.
func SessionID(r *http.Request) string {
	if s := session.FromContext(r.Context()); s != nil {
		return s.ID()
	}
	return ""
}

package middleware

import (
	"net/http"

	"github.com/renomatch/renomatch-backend/api/responses"
	"github.com/renomatch/renomatch-backend/pkg/config"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/logger"
	"github.com/renomatch/renomatch-backend/pkg/session"
)

const sessionTokenHeader = "X-Session-Token"

// Session resolves the anonymous visitor token from the cookie, header, or
// query string, minting a fresh one when the visitor arrives without any. The
// resolved token lands in the request context and is echoed back on the
// response so cookie-less clients can persist it themselves.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := resolveToken(r, cfg.CookieName)
			if token == "" {
				minted, err := session.NewToken()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
					return
				}
				token = minted
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(sessionTokenHeader, token)

			ctx := WithSessionToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithSessionToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && session.IsWellFormed(cookie.Value) {
		return cookie.Value
	}
	if header := r.Header.Get(sessionTokenHeader); session.IsWellFormed(header) {
		return header
	}
	if query := r.URL.Query().Get("token"); session.IsWellFormed(query) {
		return query
	}
	return ""
}

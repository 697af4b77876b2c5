package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxSessionId CtxKey = iota
)

// ticket reads the session ticket from the Authorization header or, for
// clients that cannot set headers such as browser websockets, from the
// ticket query parameter.
func ticket(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	return r.URL.Query().Get("ticket")
}

// Ticket rejects requests without a valid session ticket and stores the
// session id it grants in the request context.
func Ticket(log *logrus.Logger, j *config.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := ticket(r)
			if t == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			sessionId, err := j.ParseTicket(t)
			if err != nil {
				log.WithError(err).Debug("rejected ticket")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionId, sessionId)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionId(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxSessionId).(string)
	return id, ok
}

// Package middlewarectx содержит HTTP middleware приложения.
//
// RateLimitMiddleware ограничивает частоту запросов по адресу клиента
// до того, как запрос достигнет бизнес-логики. Решение принимается
// целиком на стороне процесса, без обращения к хранилищам.
package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/notification-dispatcher/internal/http/response"
	"github.com/magabrotheeeer/notification-dispatcher/internal/metrics"
)

// Limiter описывает интерфейс ограничителя частоты запросов.
type Limiter interface {
	// Allow списывает токен клиента для пути, false при исчерпании.
	Allow(clientAddr, path string) bool
}

// RateLimitMiddleware возвращает HTTP middleware, которое отклоняет
// запрос со статусом 429, если корзина клиента для данного пути пуста.
func RateLimitMiddleware(log *slog.Logger, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientAddr := ClientAddr(r)
			if !limiter.Allow(clientAddr, r.URL.Path) {
				log.Warn("rate limit exceeded",
					slog.String("client_addr", clientAddr),
					slog.String("path", r.URL.Path))
				metrics.RateLimitRejections.Inc()
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("rate limit exceeded, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientAddr определяет адрес клиента: первый элемент X-Forwarded-For,
// затем X-Real-IP, затем адрес соединения — именно в этом порядке.
func ClientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

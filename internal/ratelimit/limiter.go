// Package ratelimit реализует ограничение частоты запросов по адресу клиента.
// Для каждой пары (адрес клиента, префикс пути) лениво создаётся свой
// token bucket с полосой, заданной правилом для этого префикса.
// Корзины живут до конца процесса: политика вытеснения не задана.
package ratelimit

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/notification-dispatcher/internal/config"
)

// Limiter — внедряемый экземпляр ограничителя. Внутреннее состояние
// защищено мьютексом: корзины разделяются всеми конкурентными
// запросами одного клиента, списание токена атомарно.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*rate.Limiter
	rules       []config.RateLimitRule
	defaultRule config.RateLimitRule
}

// New создает Limiter с правилами для префиксов путей и правилом по умолчанию.
func New(defaultRule config.RateLimitRule, rules []config.RateLimitRule) *Limiter {
	return &Limiter{
		buckets:     make(map[string]*rate.Limiter),
		rules:       rules,
		defaultRule: defaultRule,
	}
}

// Allow списывает один токен из корзины клиента для данного пути.
// Возвращает false при исчерпании корзины, токен при этом не списывается.
func (l *Limiter) Allow(clientAddr, path string) bool {
	r := l.matchRule(path)
	key := clientAddr + "|" + r.Prefix

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(float64(r.Tokens)/r.Window.Seconds()), r.Tokens)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow()
}

// matchRule подбирает правило по первому совпавшему префиксу пути,
// иначе возвращает правило по умолчанию.
func (l *Limiter) matchRule(path string) config.RateLimitRule {
	for _, r := range l.rules {
		if strings.HasPrefix(path, r.Prefix) {
			return r
		}
	}
	return l.defaultRule
}

package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/hotel-booking/internal/http/response"
)

// limiterIdleTTL через столько без запросов лимитер адреса удаляется.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors лимитеры по адресу клиента. Простаивающие записи вычищаются
// не чаще раза в idleTTL при очередном запросе.
type visitors struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
	byHost    map[string]*visitor
}

func newVisitors(rps float64, burst int, idleTTL time.Duration, now func() time.Time) *visitors {
	return &visitors{
		rps:       rate.Limit(rps),
		burst:     burst,
		idleTTL:   idleTTL,
		now:       now,
		lastSweep: now(),
		byHost:    make(map[string]*visitor),
	}
}

func (v *visitors) limiterFor(host string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if now.Sub(v.lastSweep) >= v.idleTTL {
		for h, vis := range v.byHost {
			if now.Sub(vis.lastSeen) >= v.idleTTL {
				delete(v.byHost, h)
			}
		}
		v.lastSweep = now
	}

	vis, ok := v.byHost[host]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.rps, v.burst)}
		v.byHost[host] = vis
	}
	vis.lastSeen = now
	return vis.limiter
}

func (v *visitors) size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.byHost)
}

// RateLimitMiddleware ограничивает частоту запросов с одного адреса.
func RateLimitMiddleware(log *slog.Logger, rps float64, burst int) func(http.Handler) http.Handler {
	clients := newVisitors(rps, burst, limiterIdleTTL, time.Now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !clients.limiterFor(host).Allow() {
				log.Warn("too many requests", slog.String("remote", host))
				response.Fail(w, r, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

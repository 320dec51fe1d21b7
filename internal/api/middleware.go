package api

import (
	"errors"
	"log"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"job-board/internal/auth"
	"job-board/internal/storage"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests prints method, path, status and duration for every request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[HTTP] %s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// cors allows credentialed requests from a single configured origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" && r.Header.Get("Origin") == origin {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ipLimiter hands out one token bucket per client IP. At most maxClients
// buckets are kept; new IPs are refused while the table is full of
// recently active ones.
type ipLimiter struct {
	mu         sync.Mutex
	clients    map[string]*limiterEntry
	limit      rate.Limit
	burst      int
	maxClients int
	lastSweep  time.Time
	now        func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	defaultMaxClients = 10000
	limiterIdleAfter  = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

// newIPLimiter allows n requests per window per IP.
func newIPLimiter(n int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		clients:    make(map[string]*limiterEntry),
		limit:      rate.Every(window / time.Duration(n)),
		burst:      n,
		maxClients: defaultMaxClients,
		now:        time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.clients[ip]
	if !ok {
		if len(l.clients) >= l.maxClients {
			l.sweep(now)
		}
		if len(l.clients) >= l.maxClients {
			log.Printf("[RateLimit] client table full (%d), refusing %s", len(l.clients), ip)
			return false
		}
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops idle clients, at most once per limiterSweepEvery.
func (l *ipLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterSweepEvery {
		return
	}
	l.lastSweep = now
	for k, v := range l.clients {
		if now.Sub(v.lastSeen) > limiterIdleAfter {
			delete(l.clients, k)
		}
	}
}

// proxySet lists the addresses allowed to report a client IP through
// X-Forwarded-For.
type proxySet []netip.Prefix

// parseProxies accepts single IPs and CIDRs. Bad entries are logged and skipped.
func parseProxies(entries []string) proxySet {
	var set proxySet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			set = append(set, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			log.Printf("[RateLimit] ignoring invalid trusted proxy %q", e)
			continue
		}
		addr = addr.Unmap()
		set = append(set, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return set
}

func (s proxySet) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// clientIP returns the connection's peer address. When the peer is a trusted
// proxy, X-Forwarded-For is walked from the right and the first address not
// belonging to a trusted proxy wins.
func (s proxySet) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !s.trusts(peer) {
		return peer
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			return peer
		}
		if !s.trusts(hop) {
			return hop
		}
	}
	return peer
}

func (a *API) limitLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.loginLimiter.allow(a.proxies.clientIP(r)) {
			writeError(w, r, apiError(http.StatusTooManyRequests, "Too many login attempts, please try again later"))
			return
		}
		next(w, r)
	}
}

// requireRole authenticates the caller and checks their role. The account
// must still exist.
func (a *API) requireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				writeError(w, r, apiError(http.StatusUnauthorized, "Unauthorized request"))
				return
			}
			claims, err := a.tokens.ParseAccess(token)
			if err != nil {
				writeError(w, r, apiError(http.StatusUnauthorized, "Invalid access token"))
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeError(w, r, apiError(http.StatusForbidden, "You are not allowed to access this resource"))
				return
			}
			if _, err := a.account(claims.Role).profile(r.Context(), claims.ID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					writeError(w, r, apiError(http.StatusUnauthorized, "Invalid access token"))
					return
				}
				writeError(w, r, err)
				return
			}
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{ID: claims.ID, Role: claims.Role})
			next(w, r.WithContext(ctx))
		}
	}
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

func (a *API) setAuthCookies(w http.ResponseWriter, pair auth.TokenPair) {
	http.SetCookie(w, a.cookie(auth.AccessCookie, pair.AccessToken, a.tokens.AccessTTL()))
	http.SetCookie(w, a.cookie(auth.RefreshCookie, pair.RefreshToken, a.tokens.RefreshTTL()))
}

func (a *API) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{auth.AccessCookie, auth.RefreshCookie} {
		c := a.cookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (a *API) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

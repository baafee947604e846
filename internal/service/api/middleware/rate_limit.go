package middleware

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/darkkaiser/msdk-importer/internal/service/api/constants"
	"github.com/darkkaiser/msdk-importer/internal/service/api/httputil"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// maxIPRateLimiters 보관하는 클라이언트 Limiter 수의 상한
	maxIPRateLimiters = 10000

	headerRetryAfter  = "Retry-After"
	retryAfterSeconds = 1
)

// ipRateLimiter 클라이언트 IP마다 별도의 토큰 버킷을 둡니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter

	rate  rate.Limit
	burst int
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter := i.limiters[ip]
	i.mu.RUnlock()

	if limiter != nil {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if limiter = i.limiters[ip]; limiter != nil {
		return limiter
	}

	if len(i.limiters) >= maxIPRateLimiters {
		i.evictOneLocked()
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// evictOneLocked 임의의 항목 하나를 제거합니다. 맵 순회 순서가 무작위이므로 특정 IP가 계속 제거되지는 않습니다.
func (i *ipRateLimiter) evictOneLocked() {
	for ip := range i.limiters {
		delete(i.limiters, ip)
		return
	}
}

// RateLimit 클라이언트 IP별 요청 속도를 제한합니다. 한도를 넘은 요청에는 429와 Retry-After 헤더로 응답합니다.
// 설정값은 환경설정 검증을 거친 값이어야 하며, 0 이하이면 패닉이 발생합니다.
func RateLimit(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic(fmt.Sprintf("RateLimit: requestsPerSecond는 양수여야 합니다 (현재값: %v)", requestsPerSecond))
	}
	if burst <= 0 {
		panic(fmt.Sprintf("RateLimit: burst는 양수여야 합니다 (현재값: %d)", burst))
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if limiter.getLimiter(ip).Allow() {
				return next(c)
			}

			req := c.Request()
			applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
				"remote_ip": ip,
				"method":    req.Method,
				"path":      req.URL.Path,
			}).Warn("요청 속도 제한 초과로 임포트 API 요청을 거부합니다")

			c.Response().Header().Set(headerRetryAfter, strconv.Itoa(retryAfterSeconds))

			return httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)
		}
	}
}

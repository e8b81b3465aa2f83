package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"society-console/internal/security"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type viewerKey struct{}

// ViewerFrom 取出认证中间件放入的安全上下文
func ViewerFrom(ctx context.Context) (security.Context, bool) {
	v, ok := ctx.Value(viewerKey{}).(security.Context)
	return v, ok
}

// RequireViewer 校验 Bearer 令牌并解析安全上下文；无法解析的身份一律拒绝
func RequireViewer(secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, Fail("missing bearer token"))
				return
			}
			viewer, err := security.ContextFromToken(secret, raw)
			if err != nil {
				if errors.Is(err, security.ErrTokenExpired) {
					writeJSON(w, http.StatusUnauthorized, TokenExpired())
					return
				}
				logger.Debug("Rejected viewer token", zap.String("path", r.URL.Path), zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, Fail("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewerKey{}, viewer)))
		})
	}
}

// RequireCapability 要求查看者具备指定能力
func RequireCapability(capability security.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := ViewerFrom(r.Context())
			if !ok || !viewer.Can(capability) {
				writeJSON(w, http.StatusForbidden, Fail("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger 以 debug 级别记录每个请求
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}

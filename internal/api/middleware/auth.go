package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

const (
	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgUserBlocked   = "пользователь заблокирован"
)

// IdentityClient интерфейс клиента identity-сервиса
type IdentityClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*identity.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth аутентификационный middleware: извлекает X-User-ID и разрешает
// роль через identity-сервис. При деградации identity-сервиса запрос
// пропускается с ролью user - чтения важнее точной роли
type Auth struct {
	identity IdentityClient
	logger   Logger
}

// NewAuth создает аутентификационный middleware
func NewAuth(identityClient IdentityClient, logger Logger) *Auth {
	return &Auth{
		identity: identityClient,
		logger:   logger,
	}
}

// Handle проверяет заголовок X-User-ID и кладет userID и роль в контекст
func (a *Auth) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			a.logger.Warn("Auth: missing X-User-ID header for %s %s", r.Method, r.URL.Path)
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			a.logger.Warn("Auth: invalid X-User-ID header %q for %s %s", userIDStr, r.Method, r.URL.Path)
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := identity.RoleUser
		user, err := a.identity.GetUserWithGracefulDegradation(r.Context(), userID)
		if err != nil {
			a.logger.Warn("Auth: identity lookup degraded for user id=%d: %v", userID, err)
		} else {
			if user.Blocked {
				a.logger.Warn("Auth: blocked user id=%d rejected for %s %s", userID, r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgUserBlocked)
				return
			}
			role = user.Role
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetUserRole извлекает роль пользователя из контекста запроса
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleKey).(string)
	return role, ok
}

// IsAdmin проверяет, что запрос выполняется от имени администратора
func IsAdmin(ctx context.Context) bool {
	role, ok := GetUserRole(ctx)
	return ok && role == identity.RoleAdmin
}

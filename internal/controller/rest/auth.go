package rest

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Freeeeeet/school_timetable/internal/model"
)

const (
	tokenIssuer = "school-timetable"
	sessionKey  = "session"
)

// Claims - содержимое bearer токена
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// IssueToken подписывает HS256 токен для сессии пользователя
func IssueToken(secret []byte, s model.Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  s.Name,
		Roles: s.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken проверяет подпись и срок токена и собирает из него сессию
func ParseToken(secret []byte, raw string) (*model.Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse token subject: %w", err)
	}
	return &model.Session{UserID: userID, Name: claims.Name, Roles: claims.Roles}, nil
}

// authMiddleware кладёт сессию из заголовка Authorization в c.Locals
func authMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		s, err := ParseToken(secret, strings.TrimSpace(raw))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(sessionKey, s)
		return c.Next()
	}
}

func requireAdmin(c *fiber.Ctx) error {
	if !session(c).IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "admin role required")
	}
	return c.Next()
}

// session возвращает сессию текущего запроса; без authMiddleware - пустую
func session(c *fiber.Ctx) *model.Session {
	if s, ok := c.Locals(sessionKey).(*model.Session); ok && s != nil {
		return s
	}
	return &model.Session{}
}

package model

import "github.com/google/uuid"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// Session - явный контекст текущего пользователя, передаётся в сервисы вместо глобального токена
type Session struct {
	UserID uuid.UUID
	Name   string
	Roles  []string
}

// HasRole проверяет наличие роли
func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin - администратор школы
func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

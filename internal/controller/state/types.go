package state

import "time"

// UserState представляет текущий шаг пользователя в мастере
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Мастер перевода учеников
	StatePromotionSelect    UserState = "promotion_select_source"
	StatePromotionPreview   UserState = "promotion_preview"
	StatePromotionConfirmed UserState = "promotion_confirmed"
	StatePromotionCompleted UserState = "promotion_completed"

	// Мастер планирования собрания
	StateMeetingDetails      UserState = "meeting_details"
	StateMeetingParticipants UserState = "meeting_participants"
	StateMeetingSchedule     UserState = "meeting_schedule"
	StateMeetingReview       UserState = "meeting_review"
	StateMeetingScheduled    UserState = "meeting_scheduled"
)

// UserData хранит временные данные пользователя во время работы мастера
type UserData struct {
	State     UserState
	Data      map[string]interface{}
	UpdatedAt time.Time
}

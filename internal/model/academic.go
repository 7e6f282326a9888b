package model

import (
	"time"

	"github.com/google/uuid"
)

type AcademicYear struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsCurrent bool      `json:"isCurrent"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClassSection - класс/параллель (например, "7-Б") внутри курса и потока
type ClassSection struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Course    string    `json:"course"`
	Stream    string    `json:"stream"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
}

type Subject struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	WeeklyPeriod int       `json:"weeklyPeriods"` // информативно, без проверки лимита
	CreatedAt    time.Time `json:"createdAt"`
}

type Teacher struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Student с текущим зачислением в класс на учебный год
type Student struct {
	ID             uuid.UUID  `json:"id"`
	FullName       string     `json:"fullName"`
	AdmissionNo    string     `json:"admissionNo"`
	ClassSectionID *uuid.UUID `json:"classSectionId"`
	AcademicYearID *uuid.UUID `json:"academicYearId"`
	CreatedAt      time.Time  `json:"createdAt"`
}

package models

import "time"

type AgeGroup string

const (
	AgeGroupSenior AgeGroup = "senior"
	AgeGroupJunior AgeGroup = "junior"
)

type ScheduleType string

const (
	ScheduleMonWedFri ScheduleType = "mon_wed_fri"
	ScheduleTueThu    ScheduleType = "tue_thu"
	ScheduleOther     ScheduleType = "other"
)

type SkillLevel string

const (
	SkillBeginner    SkillLevel = "beginner"
	SkillExperienced SkillLevel = "experienced"
)

// Group - учебная группа с общим расписанием тренировок
type Group struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	AgeGroup                AgeGroup         `json:"age_group"`
	ScheduleType            ScheduleType     `json:"schedule_type"`
	SkillLevel              SkillLevel       `json:"skill_level"`
	DefaultSubscriptionType SubscriptionType `json:"default_subscription_type,omitempty"`
	IsActive                bool             `json:"is_active"`
	StudentCount            int              `json:"student_count"`
	TrainerID               string           `json:"trainer_id,omitempty"`
	CreatedAt               time.Time        `json:"created_at,omitempty"`
}

// GroupInput is the create/update payload.
type GroupInput struct {
	Name                    string           `json:"name" validate:"required,notblank,max=100"`
	AgeGroup                AgeGroup         `json:"age_group" validate:"required,oneof=senior junior"`
	ScheduleType            ScheduleType     `json:"schedule_type" validate:"required,oneof=mon_wed_fri tue_thu other"`
	SkillLevel              SkillLevel       `json:"skill_level" validate:"required,oneof=beginner experienced"`
	DefaultSubscriptionType SubscriptionType `json:"default_subscription_type" validate:"omitempty,oneof=8_sessions 12_sessions"`
	IsActive                *bool            `json:"is_active,omitempty"`
	Schedule                map[string]any   `json:"schedule"`
}

func (g AgeGroup) Label() string {
	if g == AgeGroupSenior {
		return "Старшие"
	}
	return "Младшие"
}

func (s ScheduleType) Label() string {
	switch s {
	case ScheduleMonWedFri:
		return "ПН-СР-ПТ"
	case ScheduleTueThu:
		return "ВТ-ЧТ"
	default:
		return "Свободное"
	}
}

func (s SkillLevel) Label() string {
	if s == SkillExperienced {
		return "Опытные"
	}
	return "Новички"
}

package models

import "time"

type SubscriptionType string

const (
	Subscription8  SubscriptionType = "8_sessions"
	Subscription12 SubscriptionType = "12_sessions"
)

func (t SubscriptionType) OrDefault() SubscriptionType {
	if t == Subscription12 {
		return Subscription12
	}
	return Subscription8
}

func (t SubscriptionType) Label() string {
	if t == Subscription12 {
		return "12 занятий"
	}
	return "8 занятий"
}

type Subscription struct {
	ID                string           `json:"id"`
	StudentID         string           `json:"student_id"`
	SubscriptionType  SubscriptionType `json:"subscription_type"`
	Price             Money            `json:"price"`
	StartDate         Date             `json:"start_date"`
	ExpiryDate        Date             `json:"expiry_date,omitempty"`
	TotalSessions     int              `json:"total_sessions"`
	RemainingSessions int              `json:"remaining_sessions"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at,omitempty"`
}

type SubscriptionInput struct {
	StudentID        string           `json:"student_id" validate:"required,uuid"`
	SubscriptionType SubscriptionType `json:"subscription_type" validate:"required,oneof=8_sessions 12_sessions"`
	Price            Money            `json:"price" validate:"gte=0"`
	StartDate        Date             `json:"start_date"`
}

type SubscriptionUpdate struct {
	Price    *Money `json:"price,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

package models

import "time"

type PaymentType string

const (
	PaymentFull     PaymentType = "full"
	PaymentPartial  PaymentType = "partial"
	PaymentDiscount PaymentType = "discount"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPaid:
		return "Оплачено"
	case PaymentPending:
		return "Ожидается"
	default:
		return "Просрочено"
	}
}

type Payment struct {
	ID               string           `json:"id"`
	StudentID        string           `json:"student_id"`
	SubscriptionID   string           `json:"subscription_id,omitempty"`
	Amount           Money            `json:"amount"`
	PaymentType      PaymentType      `json:"payment_type"`
	PaymentDate      Date             `json:"payment_date"`
	PaymentMonth     Date             `json:"payment_month"`
	Status           PaymentStatus    `json:"status"`
	Notes            string           `json:"notes,omitempty"`
	StudentName      string           `json:"student_name,omitempty"`
	SubscriptionType SubscriptionType `json:"subscription_type,omitempty"`
	CreatedAt        time.Time        `json:"created_at,omitempty"`
}

type PaymentInput struct {
	StudentID      string        `json:"student_id" validate:"required,uuid"`
	SubscriptionID string        `json:"subscription_id,omitempty" validate:"omitempty,uuid"`
	Amount         Money         `json:"amount" validate:"gte=0"`
	PaymentType    PaymentType   `json:"payment_type" validate:"required,oneof=full partial discount"`
	PaymentDate    Date          `json:"payment_date"`
	PaymentMonth   Date          `json:"payment_month"`
	Status         PaymentStatus `json:"status" validate:"required,oneof=paid pending overdue"`
	Notes          string        `json:"notes,omitempty"`
}

type PaymentUpdate struct {
	Amount *Money  `json:"amount,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

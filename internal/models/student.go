package models

// Student - ученик с основной и бонусными группами
type Student struct {
	ID                 string           `json:"id"`
	FullName           string           `json:"full_name"`
	BirthDate          Date             `json:"birth_date"`
	Phone              string           `json:"phone,omitempty"`
	Email              string           `json:"email,omitempty"`
	GroupID            string           `json:"group_id"`
	GroupName          string           `json:"group_name,omitempty"`
	AdditionalGroupIDs []string         `json:"additional_group_ids"`
	SubscriptionType   SubscriptionType `json:"subscription_type,omitempty"`
	IsActive           bool             `json:"is_active"`
	Notes              string           `json:"notes,omitempty"`
	RegistrationDate   Date             `json:"registration_date,omitempty"`
}

// StudentInput is the create/update payload.
type StudentInput struct {
	FullName           string   `json:"full_name" validate:"required,notblank,max=100"`
	BirthDate          Date     `json:"birth_date"`
	Phone              *string  `json:"phone" validate:"omitempty,max=20"`
	Email              *string  `json:"email" validate:"omitempty,email"`
	GroupID            string   `json:"group_id" validate:"required,uuid"`
	AdditionalGroupIDs []string `json:"additional_group_ids" validate:"dive,uuid"`
	IsActive           *bool    `json:"is_active,omitempty"`
	Notes              *string  `json:"notes"`
}

// BonusGroups returns the additional groups with the primary group removed.
func BonusGroups(primary string, additional []string) []string {
	out := make([]string, 0, len(additional))
	seen := make(map[string]bool, len(additional))
	for _, id := range additional {
		if id == "" || id == primary || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

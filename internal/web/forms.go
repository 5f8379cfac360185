package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sambo-academy-admin/internal/models"
)

// monthParam reads ?month=YYYY-MM, falling back to the month of today.
func monthParam(r *http.Request, today models.Date) models.Month {
	if m, err := models.ParseMonth(r.FormValue("month")); err == nil {
		return m
	}
	return models.MonthOf(today.Time)
}

func dateParam(r *http.Request, key string) models.Date {
	d, _ := models.ParseDate(strings.TrimSpace(r.FormValue(key)))
	return d
}

func shiftMonth(m models.Month, n int) models.Month {
	return models.MonthOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

func intValue(r *http.Request, key string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	return v
}

func optionalInt(r *http.Request, key string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return nil
	}
	return &v
}

func optionalString(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// formValues reads a multi-value field. The handler parses the form first.
func formValues(r *http.Request, key string) []string {
	return r.Form[key]
}

func checkbox(r *http.Request, key string) *bool {
	v := r.FormValue(key) != ""
	return &v
}

// link builds a path with non-empty query parameters, in key order.
func link(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func groupInput(r *http.Request) *models.GroupInput {
	return &models.GroupInput{
		Name:                    strings.TrimSpace(r.FormValue("name")),
		AgeGroup:                models.AgeGroup(r.FormValue("age_group")),
		ScheduleType:            models.ScheduleType(r.FormValue("schedule_type")),
		SkillLevel:              models.SkillLevel(r.FormValue("skill_level")),
		DefaultSubscriptionType: models.SubscriptionType(r.FormValue("default_subscription_type")),
		IsActive:                checkbox(r, "is_active"),
	}
}

func studentInput(r *http.Request) *models.StudentInput {
	return &models.StudentInput{
		FullName:           strings.TrimSpace(r.FormValue("full_name")),
		BirthDate:          dateParam(r, "birth_date"),
		Phone:              optionalString(r, "phone"),
		Email:              optionalString(r, "email"),
		GroupID:            r.FormValue("group_id"),
		AdditionalGroupIDs: formValues(r, "additional_group_ids"),
		IsActive:           checkbox(r, "is_active"),
		Notes:              optionalString(r, "notes"),
	}
}

func tournamentInput(r *http.Request) *models.TournamentInput {
	return &models.TournamentInput{
		Name:           strings.TrimSpace(r.FormValue("name")),
		TournamentDate: dateParam(r, "tournament_date"),
		Location:       strings.TrimSpace(r.FormValue("location")),
		Description:    optionalString(r, "description"),
	}
}

func participationInput(r *http.Request) *models.ParticipationInput {
	return &models.ParticipationInput{
		StudentID:      r.FormValue("student_id"),
		Place:          optionalInt(r, "place"),
		TotalFights:    intValue(r, "total_fights"),
		Wins:           intValue(r, "wins"),
		Losses:         intValue(r, "losses"),
		WeightCategory: optionalString(r, "weight_category"),
		Notes:          optionalString(r, "notes"),
	}
}

func pricesInput(r *http.Request) *models.Prices {
	return &models.Prices{
		Subscription8Senior:  intValue(r, "subscription_8_senior_price"),
		Subscription8Junior:  intValue(r, "subscription_8_junior_price"),
		Subscription12Senior: intValue(r, "subscription_12_senior_price"),
		Subscription12Junior: intValue(r, "subscription_12_junior_price"),
	}
}

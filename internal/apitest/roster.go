package apitest

import (
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sambo-academy-admin/internal/models"
)

// AddGroup seeds an active group.
func (b *Backend) AddGroup(name string, age models.AgeGroup, schedule models.ScheduleType) *models.Group {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := &models.Group{
		ID:           uuid.NewString(),
		Name:         name,
		AgeGroup:     age,
		ScheduleType: schedule,
		SkillLevel:   models.SkillBeginner,
		IsActive:     true,
	}
	b.groups[g.ID] = g
	copied := *g
	return &copied
}

// AddStudent seeds an active student of groupID with optional bonus groups.
func (b *Backend) AddStudent(name, groupID string, additional ...string) *models.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &models.Student{
		ID:                 uuid.NewString(),
		FullName:           name,
		BirthDate:          models.NewDate(2012, time.March, 1),
		GroupID:            groupID,
		AdditionalGroupIDs: append([]string{}, additional...),
		IsActive:           true,
		RegistrationDate:   models.NewDate(2025, time.September, 1),
	}
	b.students[s.ID] = s
	return b.studentView(s)
}

// SetStudentActive flips a seeded student's is_active flag.
func (b *Backend) SetStudentActive(id string, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.students[id]; ok {
		s.IsActive = active
	}
}

func (b *Backend) Groups() []models.Group {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.groupList()
}

func (b *Backend) Students() []models.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Student, 0, len(b.students))
	for _, s := range b.students {
		out = append(out, *b.studentView(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}

func (b *Backend) groupList() []models.Group {
	out := make([]models.Group, 0, len(b.groups))
	for _, g := range b.groups {
		copied := *g
		copied.StudentCount = 0
		for _, s := range b.students {
			if s.GroupID == g.ID && s.IsActive {
				copied.StudentCount++
			}
		}
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// studentView adds the fields the API derives: group name and the type of
// the latest active subscription.
func (b *Backend) studentView(s *models.Student) *models.Student {
	copied := *s
	copied.AdditionalGroupIDs = append([]string{}, s.AdditionalGroupIDs...)
	if g, ok := b.groups[s.GroupID]; ok {
		copied.GroupName = g.Name
	}
	if sub := b.activeSubscription(s.ID); sub != nil {
		copied.SubscriptionType = sub.SubscriptionType
	}
	return &copied
}

func (b *Backend) activeSubscription(studentID string) *models.Subscription {
	var latest *models.Subscription
	for _, sub := range b.subscriptions {
		if sub.StudentID != studentID || !sub.IsActive {
			continue
		}
		if latest == nil || sub.StartDate.After(latest.StartDate) {
			latest = sub
		}
	}
	return latest
}

func (b *Backend) listGroups(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.groupList())
}

func (b *Backend) getGroup(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.groups[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func applyGroup(g *models.Group, in *models.GroupInput) {
	g.Name = in.Name
	g.AgeGroup = in.AgeGroup
	g.ScheduleType = in.ScheduleType
	g.SkillLevel = in.SkillLevel
	g.DefaultSubscriptionType = in.DefaultSubscriptionType
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
}

func (b *Backend) createGroup(w http.ResponseWriter, r *http.Request) {
	var in models.GroupInput
	if !decode(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeValidation(w, "name", "field required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	g := &models.Group{ID: uuid.NewString(), IsActive: true, CreatedAt: time.Now()}
	applyGroup(g, &in)
	b.groups[g.ID] = g
	writeJSON(w, http.StatusCreated, g)
}

func (b *Backend) updateGroup(w http.ResponseWriter, r *http.Request) {
	var in models.GroupInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.groups[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	applyGroup(g, &in)
	writeJSON(w, http.StatusOK, g)
}

func (b *Backend) deleteGroup(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.groups[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	for _, s := range b.students {
		if s.GroupID == id {
			writeDetail(w, http.StatusBadRequest, "В группе есть ученики")
			return
		}
	}
	delete(b.groups, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listStudents(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group_id")
	activeOnly := r.URL.Query().Get("is_active") == "true"

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Student{}
	for _, s := range b.students {
		if groupID != "" && s.GroupID != groupID && !slices.Contains(s.AdditionalGroupIDs, groupID) {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *b.studentView(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getStudent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Student not found")
		return
	}
	writeJSON(w, http.StatusOK, b.studentView(s))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (b *Backend) applyStudent(w http.ResponseWriter, s *models.Student, in *models.StudentInput) bool {
	if in.FullName == "" {
		writeValidation(w, "full_name", "field required")
		return false
	}
	if _, ok := b.groups[in.GroupID]; !ok {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return false
	}
	if slices.Contains(in.AdditionalGroupIDs, in.GroupID) {
		writeDetail(w, http.StatusBadRequest, "Основная группа не может быть дополнительной")
		return false
	}
	s.FullName = in.FullName
	s.BirthDate = in.BirthDate
	s.Phone = deref(in.Phone)
	s.Email = deref(in.Email)
	s.GroupID = in.GroupID
	s.AdditionalGroupIDs = append([]string{}, in.AdditionalGroupIDs...)
	s.Notes = deref(in.Notes)
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	return true
}

func (b *Backend) createStudent(w http.ResponseWriter, r *http.Request) {
	var in models.StudentInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &models.Student{ID: uuid.NewString(), IsActive: true, RegistrationDate: models.DateOf(time.Now())}
	if !b.applyStudent(w, s, &in) {
		return
	}
	b.students[s.ID] = s
	writeJSON(w, http.StatusCreated, b.studentView(s))
}

func (b *Backend) updateStudent(w http.ResponseWriter, r *http.Request) {
	var in models.StudentInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Student not found")
		return
	}
	updated := *s
	if !b.applyStudent(w, &updated, &in) {
		return
	}
	*s = updated
	writeJSON(w, http.StatusOK, b.studentView(s))
}

func (b *Backend) deleteStudent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.students[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Student not found")
		return
	}
	delete(b.students, id)
	w.WriteHeader(http.StatusNoContent)
}

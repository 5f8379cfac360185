package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sambo-academy-admin/internal/models"
)

func (b *Backend) SetPrices(p models.Prices) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prices = p
}

func (b *Backend) Prices() models.Prices {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prices
}

// AddSubscription seeds a subscription starting on the first of this month.
func (b *Backend) AddSubscription(studentID string, t models.SubscriptionType, price models.Money, active bool) *models.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := newSubscription(&models.SubscriptionInput{
		StudentID:        studentID,
		SubscriptionType: t,
		Price:            price,
		StartDate:        models.MonthOf(time.Now()).FirstDay(),
	})
	sub.IsActive = active
	b.subscriptions[sub.ID] = sub
	copied := *sub
	return &copied
}

// AddPayment seeds a paid full payment for month.
func (b *Backend) AddPayment(studentID, subscriptionID string, amount models.Money, month models.Month) *models.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.newPayment(&models.PaymentInput{
		StudentID:      studentID,
		SubscriptionID: subscriptionID,
		Amount:         amount,
		PaymentType:    models.PaymentFull,
		PaymentDate:    month.FirstDay(),
		PaymentMonth:   month.FirstDay(),
		Status:         models.PaymentPaid,
	})
	b.payments[p.ID] = p
	copied := *p
	return &copied
}

func (b *Backend) Subscriptions(studentID string) []models.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.subscriptionsOf(studentID)
}

func (b *Backend) Payments(studentID string) []models.Payment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Payment{}
	for _, p := range b.payments {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	return out
}

func (b *Backend) subscriptionsOf(studentID string) []models.Subscription {
	out := []models.Subscription{}
	for _, sub := range b.subscriptions {
		if sub.StudentID == studentID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out
}

func newSubscription(in *models.SubscriptionInput) *models.Subscription {
	total := 8
	if in.SubscriptionType == models.Subscription12 {
		total = 12
	}
	return &models.Subscription{
		ID:                uuid.NewString(),
		StudentID:         in.StudentID,
		SubscriptionType:  in.SubscriptionType,
		Price:             in.Price,
		StartDate:         in.StartDate,
		ExpiryDate:        models.DateOf(in.StartDate.AddDate(0, 0, 30)),
		TotalSessions:     total,
		RemainingSessions: total,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}
}

func (b *Backend) newPayment(in *models.PaymentInput) *models.Payment {
	p := &models.Payment{
		ID:             uuid.NewString(),
		StudentID:      in.StudentID,
		SubscriptionID: in.SubscriptionID,
		Amount:         in.Amount,
		PaymentType:    in.PaymentType,
		PaymentDate:    in.PaymentDate,
		PaymentMonth:   in.PaymentMonth,
		Status:         in.Status,
		Notes:          in.Notes,
		CreatedAt:      time.Now(),
	}
	if s, ok := b.students[in.StudentID]; ok {
		p.StudentName = s.FullName
	}
	if sub, ok := b.subscriptions[in.SubscriptionID]; ok {
		p.SubscriptionType = sub.SubscriptionType
	}
	return p
}

func (b *Backend) createSubscription(w http.ResponseWriter, r *http.Request) {
	var in models.SubscriptionInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[in.StudentID]; !ok {
		writeDetail(w, http.StatusNotFound, "Student not found")
		return
	}
	sub := newSubscription(&in)
	b.subscriptions[sub.ID] = sub
	writeJSON(w, http.StatusCreated, sub)
}

func (b *Backend) studentSubscriptions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.subscriptionsOf(chi.URLParam(r, "id")))
}

func (b *Backend) updateSubscription(w http.ResponseWriter, r *http.Request) {
	var upd models.SubscriptionUpdate
	if !decode(w, r, &upd) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subscriptions[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Subscription not found")
		return
	}
	if upd.Price != nil {
		sub.Price = *upd.Price
	}
	if upd.IsActive != nil {
		sub.IsActive = *upd.IsActive
	}
	writeJSON(w, http.StatusOK, sub)
}

func (b *Backend) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.subscriptions[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Subscription not found")
		return
	}
	delete(b.subscriptions, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) createPayment(w http.ResponseWriter, r *http.Request) {
	var in models.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[in.StudentID]; !ok {
		writeDetail(w, http.StatusNotFound, "Student not found")
		return
	}
	p := b.newPayment(&in)
	b.payments[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) monthPayments(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(chi.URLParam(r, "year"))
	month, _ := strconv.Atoi(chi.URLParam(r, "month"))
	if month < 1 || month > 12 {
		writeDetail(w, http.StatusBadRequest, "Invalid month")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Payment{}
	for _, p := range b.payments {
		if p.PaymentMonth.Year() == year && int(p.PaymentMonth.Month()) == month {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) updatePayment(w http.ResponseWriter, r *http.Request) {
	var upd models.PaymentUpdate
	if !decode(w, r, &upd) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.payments[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Payment not found")
		return
	}
	if upd.Amount != nil {
		p.Amount = *upd.Amount
	}
	if upd.Notes != nil {
		p.Notes = *upd.Notes
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deletePayment(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, ok := b.payments[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Payment not found")
		return
	}
	delete(b.payments, id)
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return def
}

func (b *Backend) paymentSummary(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().Year())

	b.mu.Lock()
	defer b.mu.Unlock()
	byMonth := make(map[int]*models.MonthlyPaymentSummary)
	for _, p := range b.payments {
		if p.PaymentMonth.Year() != year {
			continue
		}
		m := int(p.PaymentMonth.Month())
		s, ok := byMonth[m]
		if !ok {
			s = &models.MonthlyPaymentSummary{Year: year, Month: m}
			byMonth[m] = s
		}
		s.TotalAmount += p.Amount
		s.PaymentCount++
		switch p.Status {
		case models.PaymentPaid:
			s.PaidCount++
		case models.PaymentPending:
			s.PendingCount++
		case models.PaymentOverdue:
			s.OverdueCount++
		}
	}
	out := []models.MonthlyPaymentSummary{}
	for _, s := range byMonth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) unpaidStudents(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	first := models.NewDate(year, time.Month(month), 1)

	b.mu.Lock()
	defer b.mu.Unlock()
	report := models.UnpaidReport{Year: year, Month: month, Students: []models.UnpaidStudent{}}
	for _, s := range b.students {
		if !s.IsActive || b.paidFor(s.ID, first) {
			continue
		}
		u := models.UnpaidStudent{StudentID: s.ID, FullName: s.FullName, Phone: s.Phone, Email: s.Email}
		if g, ok := b.groups[s.GroupID]; ok {
			u.GroupName = g.Name
		}
		if sub := b.activeSubscription(s.ID); sub != nil {
			u.DebtAmount = sub.Price
		}
		report.Students = append(report.Students, u)
	}
	sort.Slice(report.Students, func(i, j int) bool { return report.Students[i].FullName < report.Students[j].FullName })
	report.TotalUnpaid = len(report.Students)
	writeJSON(w, http.StatusOK, report)
}

func (b *Backend) paidFor(studentID string, month models.Date) bool {
	for _, p := range b.payments {
		if p.StudentID == studentID && p.Status == models.PaymentPaid && p.PaymentMonth.Equal(month) {
			return true
		}
	}
	return false
}

package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sambo-academy-admin/internal/export"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
)

type paymentsPage struct {
	*service.PaymentsView
	PrevMonth models.Month
	NextMonth models.Month
	// Custom is the row whose custom payment form is open.
	Custom  *service.PaymentRow
	Details *service.PaymentDetails
}

func (p paymentsPage) groupID() string {
	if p.Group == nil {
		return ""
	}
	return p.Group.ID
}

func (p paymentsPage) MonthLink(m models.Month) string {
	return link("/payments", "group", p.groupID(), "month", m.String())
}

func (p paymentsPage) ModalLink(modal, key, id string) string {
	return link("/payments", "group", p.groupID(), "month", p.Month.String(), "modal", modal, key, id)
}

func (p paymentsPage) ExportLink() string {
	return link("/payments/export", "group", p.groupID(), "month", p.Month.String())
}

func (p paymentsPage) BackLink() string {
	return p.MonthLink(p.Month)
}

func (h *Handler) paymentsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	month := monthParam(r, h.today())

	view, err := h.payments.Load(ctx, q.Get("group"), month)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}

	data := paymentsPage{
		PaymentsView: view,
		PrevMonth:    shiftMonth(month, -1),
		NextMonth:    shiftMonth(month, 1),
	}

	switch q.Get("modal") {
	case "custom":
		for i := range view.Rows {
			if view.Rows[i].Student.ID == q.Get("student") {
				data.Custom = &view.Rows[i]
			}
		}
	case "details":
		if view.Group != nil && q.Get("payment") != "" {
			details, err := h.payments.Details(ctx, view.Group.ID, q.Get("payment"), month)
			if err != nil {
				h.fail(w, r, err, data.BackLink())
				return
			}
			data.Details = details
		}
	}

	h.render(w, r, http.StatusOK, "payments", "Оплаты", data)
}

func paymentsBack(r *http.Request, month models.Month) string {
	return link("/payments", "group", r.FormValue("group"), "month", month.String())
}

func (h *Handler) quickPayment(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r, h.today())
	back := paymentsBack(r, month)

	p, err := h.payments.QuickStandardPayment(r.Context(), r.FormValue("group"), r.FormValue("student"), month)
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.success(w, r, back, "Оплата "+p.Amount.String()+" ₽ сохранена")
}

func (h *Handler) customPayment(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r, h.today())
	back := paymentsBack(r, month)

	amount, _ := models.ParseMoney(r.FormValue("amount"))
	in := &service.CustomPayment{
		GroupID:          r.FormValue("group"),
		StudentID:        r.FormValue("student"),
		Month:            month,
		SubscriptionType: models.SubscriptionType(r.FormValue("subscription_type")),
		Amount:           amount,
		Notes:            strings.TrimSpace(r.FormValue("notes")),
	}
	p, err := h.payments.CustomPayment(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, link("/payments", "group", in.GroupID, "month", month.String(), "modal", "custom", "student", in.StudentID))
		return
	}
	h.success(w, r, back, "Оплата "+p.Amount.String()+" ₽ сохранена")
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r, h.today())
	id := chi.URLParam(r, "id")
	back := paymentsBack(r, month)

	amount, err := models.ParseMoney(r.FormValue("amount"))
	if err != nil || amount <= 0 {
		h.fail(w, r, service.Invalid("amount", "введите сумму больше нуля"),
			link("/payments", "group", r.FormValue("group"), "month", month.String(), "modal", "details", "payment", id))
		return
	}
	if err := h.payments.UpdatePayment(r.Context(), month, id, amount, strings.TrimSpace(r.FormValue("notes"))); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.success(w, r, back, "Оплата изменена")
}

func (h *Handler) cancelPayment(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r, h.today())
	back := paymentsBack(r, month)

	if err := h.payments.CancelPayment(r.Context(), month, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.success(w, r, back, "Оплата отменена")
}

func (h *Handler) exportPayments(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r, h.today())
	view, err := h.payments.Load(r.Context(), r.FormValue("group"), month)
	if err != nil {
		h.fail(w, r, err, paymentsBack(r, month))
		return
	}
	if view.Group == nil {
		h.fail(w, r, service.Invalid("group", "выберите группу"), paymentsBack(r, month))
		return
	}

	var buf bytes.Buffer
	if err := export.PaymentsLedger(&buf, view); err != nil {
		h.fail(w, r, err, paymentsBack(r, month))
		return
	}
	h.sendFile(w, export.PaymentsFileName(month), buf.Bytes())
}

func (h *Handler) sendFile(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warn("write file", zap.String("file", name), zap.Error(err))
	}
}

package web

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"sambo-academy-admin/internal/export"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
	statistics_service "sambo-academy-admin/internal/service/statistics"
)

type statisticsPage struct {
	*service.StatisticsView
	Months []models.Month
}

func (p statisticsPage) TabLink(tab service.StatisticsTab) string {
	return link("/statistics", "tab", string(tab), "month", p.Month.String())
}

// ToggleLink opens or closes one group's detail, keeping the others as they are.
func (p statisticsPage) ToggleLink(groupID string) string {
	expanded := statistics_service.ToggleExpanded(p.Expanded, groupID)
	return link("/statistics", "tab", string(p.Tab), "month", p.Month.String(), "expanded", strings.Join(expanded, ","))
}

func (p statisticsPage) Detail(groupID string) *models.GroupAttendanceDetail {
	return p.Details[groupID]
}

func (p statisticsPage) UnpaidExportLink() string {
	return link("/statistics/unpaid/export", "month", p.Month.String())
}

func (h *Handler) statisticsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.StatisticsRequest{
		Tab:   service.ParseTab(q.Get("tab")),
		Month: monthParam(r, h.today()),
	}
	if v := q.Get("expanded"); v != "" {
		req.Expanded = strings.Split(v, ",")
	}

	view, err := h.statistics.Load(r.Context(), req)
	if err != nil {
		h.loadFailed(w, r, err)
		return
	}

	data := statisticsPage{StatisticsView: view}
	for _, y := range view.Years {
		for m := 12; m >= 1; m-- {
			data.Months = append(data.Months, models.Month{Year: y, Month: time.Month(m)})
		}
	}
	h.render(w, r, http.StatusOK, "statistics", "Статистика", data)
}

func (h *Handler) exportUnpaid(w http.ResponseWriter, r *http.Request) {
	month := monthParam(r, h.today())
	back := link("/statistics", "tab", string(service.TabUnpaid), "month", month.String())

	report, err := h.payments.Unpaid(r.Context(), month)
	if err != nil {
		h.fail(w, r, err, back)
		return
	}

	var buf bytes.Buffer
	if err := export.UnpaidStudents(&buf, report); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.sendFile(w, export.UnpaidFileName(month), buf.Bytes())
}

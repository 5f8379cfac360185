package attendance

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type attendanceRepository struct {
	api *apiclient.Client
}

func NewAttendanceRepository(api *apiclient.Client) repository.AttendanceRepository {
	return &attendanceRepository{api: api}
}

func (r *attendanceRepository) GetByDate(ctx context.Context, groupID string, date models.Date) ([]models.AttendanceEntry, error) {
	var entries []models.AttendanceEntry
	path := "/attendance/date/" + url.PathEscape(groupID) + "/" + date.String()
	if err := r.api.Get(ctx, path, &entries); err != nil {
		return nil, errors.Wrapf(err, "attendance of group %s on %s", groupID, date)
	}
	return entries, nil
}

func (r *attendanceRepository) Mark(ctx context.Context, batch *models.AttendanceBatch) error {
	if err := r.api.Post(ctx, "/attendance/mark", batch, nil); err != nil {
		return errors.Wrapf(err, "mark attendance of group %s on %s", batch.GroupID, batch.SessionDate)
	}
	return nil
}

func monthQuery(month models.Month) string {
	q := url.Values{}
	q.Set("year", strconv.Itoa(month.Year))
	q.Set("month", strconv.Itoa(int(month.Month)))
	return q.Encode()
}

func (r *attendanceRepository) Summary(ctx context.Context, month models.Month) (*models.AttendanceSummary, error) {
	var summary models.AttendanceSummary
	if err := r.api.Get(ctx, "/attendance/statistics/summary?"+monthQuery(month), &summary); err != nil {
		return nil, errors.Wrapf(err, "attendance summary for %s", month)
	}
	return &summary, nil
}

func (r *attendanceRepository) GroupDetail(ctx context.Context, groupID string, month models.Month) (*models.GroupAttendanceDetail, error) {
	var detail models.GroupAttendanceDetail
	path := "/attendance/statistics/group-detail/" + url.PathEscape(groupID) + "?" + monthQuery(month)
	if err := r.api.Get(ctx, path, &detail); err != nil {
		return nil, errors.Wrapf(err, "attendance detail of group %s for %s", groupID, month)
	}
	return &detail, nil
}

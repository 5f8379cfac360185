package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type paymentRepository struct {
	api *apiclient.Client
}

func NewPaymentRepository(api *apiclient.Client) repository.PaymentRepository {
	return &paymentRepository{api: api}
}

func (r *paymentRepository) GetByMonth(ctx context.Context, month models.Month) ([]models.Payment, error) {
	var payments []models.Payment
	path := fmt.Sprintf("/payments/month/%d/%02d", month.Year, int(month.Month))
	if err := r.api.Get(ctx, path, &payments); err != nil {
		return nil, errors.Wrapf(err, "list payments for %s", month)
	}
	return payments, nil
}

func (r *paymentRepository) Create(ctx context.Context, in *models.PaymentInput) (*models.Payment, error) {
	var payment models.Payment
	if err := r.api.Post(ctx, "/payments", in, &payment); err != nil {
		return nil, errors.Wrap(err, "create payment")
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, id string, upd *models.PaymentUpdate) (*models.Payment, error) {
	var payment models.Payment
	if err := r.api.Put(ctx, "/payments/"+url.PathEscape(id), upd, &payment); err != nil {
		return nil, errors.Wrapf(err, "update payment %s", id)
	}
	return &payment, nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.api.Delete(ctx, "/payments/"+url.PathEscape(id)), "delete payment %s", id)
}

func (r *paymentRepository) YearSummary(ctx context.Context, year int) ([]models.MonthlyPaymentSummary, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))

	var summary []models.MonthlyPaymentSummary
	if err := r.api.Get(ctx, "/payments/statistics/summary?"+q.Encode(), &summary); err != nil {
		return nil, errors.Wrapf(err, "payment summary for %d", year)
	}
	return summary, nil
}

func (r *paymentRepository) Unpaid(ctx context.Context, month models.Month) (*models.UnpaidReport, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(month.Year))
	q.Set("month", strconv.Itoa(int(month.Month)))

	var report models.UnpaidReport
	if err := r.api.Get(ctx, "/payments/unpaid-students?"+q.Encode(), &report); err != nil {
		return nil, errors.Wrapf(err, "unpaid students for %s", month)
	}
	return &report, nil
}

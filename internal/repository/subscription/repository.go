package subscription

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type subscriptionRepository struct {
	api *apiclient.Client
}

func NewSubscriptionRepository(api *apiclient.Client) repository.SubscriptionRepository {
	return &subscriptionRepository{api: api}
}

func (r *subscriptionRepository) GetByStudentID(ctx context.Context, studentID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := r.api.Get(ctx, "/subscriptions/student/"+url.PathEscape(studentID), &subs); err != nil {
		return nil, errors.Wrapf(err, "list subscriptions of student %s", studentID)
	}
	return subs, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, in *models.SubscriptionInput) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.api.Post(ctx, "/subscriptions", in, &sub); err != nil {
		return nil, errors.Wrap(err, "create subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, id string, upd *models.SubscriptionUpdate) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.api.Put(ctx, "/subscriptions/"+url.PathEscape(id), upd, &sub); err != nil {
		return nil, errors.Wrapf(err, "update subscription %s", id)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.api.Delete(ctx, "/subscriptions/"+url.PathEscape(id)), "delete subscription %s", id)
}

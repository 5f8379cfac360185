package student

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"sambo-academy-admin/internal/apiclient"
	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
)

type studentRepository struct {
	api *apiclient.Client
}

func NewStudentRepository(api *apiclient.Client) repository.StudentRepository {
	return &studentRepository{api: api}
}

func (r *studentRepository) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	q := url.Values{}
	if filter.GroupID != "" {
		q.Set("group_id", filter.GroupID)
	}
	if filter.ActiveOnly {
		q.Set("is_active", "true")
	}
	path := "/students"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var students []models.Student
	if err := r.api.Get(ctx, path, &students); err != nil {
		return nil, errors.Wrap(err, "list students")
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.api.Get(ctx, "/students/"+url.PathEscape(id), &student); err != nil {
		return nil, errors.Wrapf(err, "get student %s", id)
	}
	return &student, nil
}

func (r *studentRepository) Create(ctx context.Context, in *models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := r.api.Post(ctx, "/students", in, &student); err != nil {
		return nil, errors.Wrap(err, "create student")
	}
	return &student, nil
}

func (r *studentRepository) Update(ctx context.Context, id string, in *models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := r.api.Put(ctx, "/students/"+url.PathEscape(id), in, &student); err != nil {
		return nil, errors.Wrapf(err, "update student %s", id)
	}
	return &student, nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.api.Delete(ctx, "/students/"+url.PathEscape(id)), "delete student %s", id)
}

package student_service

import (
	"context"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

type studentService struct {
	studentRepo repository.StudentRepository
}

func NewStudentService(studentRepo repository.StudentRepository) service.StudentService {
	return &studentService{studentRepo: studentRepo}
}

func (s *studentService) ListActive(ctx context.Context, groupID string) ([]models.Student, error) {
	return s.studentRepo.List(ctx, repository.StudentFilter{GroupID: groupID, ActiveOnly: true})
}

func (s *studentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// prepare drops the primary group from the bonus groups before validation,
// so a student never attends the same group twice.
func prepare(in *models.StudentInput) error {
	in.AdditionalGroupIDs = models.BonusGroups(in.GroupID, in.AdditionalGroupIDs)
	if err := service.Validate(in); err != nil {
		return err
	}
	if in.BirthDate.IsZero() {
		return service.Invalid("birth_date", "укажите дату рождения")
	}
	return nil
}

func (s *studentService) Create(ctx context.Context, in *models.StudentInput) (*models.Student, error) {
	if err := prepare(in); err != nil {
		return nil, err
	}
	return s.studentRepo.Create(ctx, in)
}

func (s *studentService) Update(ctx context.Context, id string, in *models.StudentInput) (*models.Student, error) {
	if err := prepare(in); err != nil {
		return nil, err
	}
	return s.studentRepo.Update(ctx, id, in)
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	return s.studentRepo.Delete(ctx, id)
}

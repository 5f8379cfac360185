package group_service

import (
	"context"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/repository"
	"sambo-academy-admin/internal/service"
)

type groupService struct {
	groupRepo   repository.GroupRepository
	studentRepo repository.StudentRepository
}

func NewGroupService(groupRepo repository.GroupRepository, studentRepo repository.StudentRepository) service.GroupService {
	return &groupService{
		groupRepo:   groupRepo,
		studentRepo: studentRepo,
	}
}

func (s *groupService) GetAll(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.GetAll(ctx)
}

func (s *groupService) GetByID(ctx context.Context, id string) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func prepare(in *models.GroupInput) error {
	if err := service.Validate(in); err != nil {
		return err
	}
	// расписание задаётся типом, объект отправляется пустым
	if in.Schedule == nil {
		in.Schedule = map[string]any{}
	}
	return nil
}

func (s *groupService) Create(ctx context.Context, in *models.GroupInput) (*models.Group, error) {
	if err := prepare(in); err != nil {
		return nil, err
	}
	return s.groupRepo.Create(ctx, in)
}

func (s *groupService) Update(ctx context.Context, id string, in *models.GroupInput) (*models.Group, error) {
	if err := prepare(in); err != nil {
		return nil, err
	}
	return s.groupRepo.Update(ctx, id, in)
}

func (s *groupService) Delete(ctx context.Context, id string) error {
	return s.groupRepo.Delete(ctx, id)
}

func (s *groupService) Dashboard(ctx context.Context) (*service.DashboardView, error) {
	groups, err := s.groupRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.List(ctx, repository.StudentFilter{})
	if err != nil {
		return nil, err
	}

	view := &service.DashboardView{
		Groups:       groups,
		GroupCount:   len(groups),
		StudentCount: len(students),
	}
	for _, st := range students {
		if st.IsActive {
			view.ActiveStudentCount++
		}
	}
	return view, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/set-night/earnhub/internal/domain"
)

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create builds a task from form values keyed by field name. Every field
// is validated before anything is stored.
func (s *TaskService) Create(ctx context.Context, values map[string]string) (*domain.Task, error) {
	t := &domain.Task{}
	for _, spec := range domain.TaskFields {
		if err := applyField(spec, values[spec.Name], func(v string) error {
			return t.Set(domain.TaskField(spec.Name), v)
		}); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// UpdateField changes one field of an existing task.
func (s *TaskService) UpdateField(ctx context.Context, id int64, field, raw string) (*domain.Task, error) {
	spec, ok := domain.LookupField(domain.TaskFields, field)
	if !ok {
		return nil, fmt.Errorf("task field %q: %w", field, domain.ErrUnknownField)
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyField(spec, raw, func(v string) error {
		return t.Set(domain.TaskField(spec.Name), v)
	}); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteTask(ctx, id)
}

// applyField normalizes raw for spec and hands the result to set.
func applyField(spec domain.FieldSpec, raw string, set func(string) error) error {
	value, err := spec.Normalize(raw)
	if err != nil {
		return err
	}
	if err := set(value); err != nil {
		return fmt.Errorf("%s: %w", spec.Label, err)
	}
	return nil
}

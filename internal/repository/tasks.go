package repository

import (
	"context"
	"fmt"

	"github.com/set-night/earnhub/internal/domain"
)

const taskColumns = `id, name, description, channel_id, points, created_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ChannelID, &t.Points, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (q *Queries) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	rows, err := q.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (q *Queries) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(q.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, domain.ErrTaskNotFound)
	}
	return t, nil
}

// CreateTask inserts t and fills in its ID and CreatedAt.
func (q *Queries) CreateTask(ctx context.Context, t *domain.Task) error {
	return q.db.QueryRow(ctx, `
		INSERT INTO tasks (name, description, channel_id, points)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		t.Name, t.Description, t.ChannelID, t.Points).Scan(&t.ID, &t.CreatedAt)
}

func (q *Queries) UpdateTask(ctx context.Context, t *domain.Task) error {
	tag, err := q.db.Exec(ctx, `
		UPDATE tasks SET name = $2, description = $3, channel_id = $4, points = $5
		WHERE id = $1`,
		t.ID, t.Name, t.Description, t.ChannelID, t.Points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (q *Queries) DeleteTask(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// InsertTaskCompletion records the completion; inserted is false when the
// user had already completed the task.
func (q *Queries) InsertTaskCompletion(ctx context.Context, userID, taskID int64) (inserted bool, err error) {
	tag, err := q.db.Exec(ctx, `
		INSERT INTO task_completions (user_id, task_id) VALUES ($1, $2)
		ON CONFLICT (user_id, task_id) DO NOTHING`, userID, taskID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (q *Queries) CountTasks(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM tasks`).Scan(&n)
	return n, err
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/noah-isme/mergington-activities-api/internal/models"
)

// FileTeacherRepository reads teacher accounts from a JSON file. The file is
// re-read on every call so credential edits apply without a restart.
type FileTeacherRepository struct {
	path string
}

// NewFileTeacherRepository creates a repository backed by the given users file.
func NewFileTeacherRepository(path string) *FileTeacherRepository {
	return &FileTeacherRepository{path: path}
}

// List returns every teacher in file order.
func (r *FileTeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read users file %s: %w", r.path, err)
	}
	var dir models.TeacherDirectory
	if err := json.Unmarshal(raw, &dir); err != nil {
		return nil, fmt.Errorf("decode users file %s: %w", r.path, err)
	}
	return dir.Teachers, nil
}

// FindByUsername returns the teacher with an exactly matching username.
func (r *FileTeacherRepository) FindByUsername(ctx context.Context, username string) (*models.Teacher, error) {
	teachers, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if teachers[i].Username == username {
			return &teachers[i], nil
		}
	}
	return nil, ErrTeacherNotFound
}

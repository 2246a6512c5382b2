package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-absensi-api/internal/models"
)

// SubjectRepository persists subjects.
type SubjectRepository struct {
	codeNameStore
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{codeNameStore{db: db, table: "subjects", label: "subject", refTable: "schedules", refColumn: "subject_id"}}
}

// List returns subjects matching the filter.
func (r *SubjectRepository) List(ctx context.Context, filter models.CodeNameFilter) ([]models.Subject, int, error) {
	var subjects []models.Subject
	total, err := r.list(ctx, filter, &subjects)
	return subjects, total, err
}

// FindByID loads a subject.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.get(ctx, id, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	stampNew(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	return r.insert(ctx, subject)
}

// Update modifies a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	return r.update(ctx, subject)
}

// MajorRepository persists majors.
type MajorRepository struct {
	codeNameStore
}

// NewMajorRepository constructs a major repository.
func NewMajorRepository(db *sqlx.DB) *MajorRepository {
	return &MajorRepository{codeNameStore{db: db, table: "majors", label: "major", refTable: "classes", refColumn: "major_id"}}
}

// List returns majors matching the filter.
func (r *MajorRepository) List(ctx context.Context, filter models.CodeNameFilter) ([]models.Major, int, error) {
	var majors []models.Major
	total, err := r.list(ctx, filter, &majors)
	return majors, total, err
}

// FindByID loads a major.
func (r *MajorRepository) FindByID(ctx context.Context, id string) (*models.Major, error) {
	var major models.Major
	if err := r.get(ctx, id, &major); err != nil {
		return nil, err
	}
	return &major, nil
}

// Create inserts a major.
func (r *MajorRepository) Create(ctx context.Context, major *models.Major) error {
	stampNew(&major.ID, &major.CreatedAt, &major.UpdatedAt)
	return r.insert(ctx, major)
}

// Update modifies a major.
func (r *MajorRepository) Update(ctx context.Context, major *models.Major) error {
	major.UpdatedAt = time.Now().UTC()
	return r.update(ctx, major)
}

// codeNameStore holds the queries shared by the (id, code, name) master tables.
type codeNameStore struct {
	db        *sqlx.DB
	table     string
	label     string
	refTable  string
	refColumn string
}

const codeNameColumns = `id, code, name, created_at, updated_at`

func stampNew(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	*createdAt = now
	*updatedAt = now
}

func (s codeNameStore) list(ctx context.Context, filter models.CodeNameFilter, dest interface{}) (int, error) {
	base := "FROM " + s.table + " WHERE 1=1"
	var args []interface{}
	if filter.Search != "" {
		base += " AND (LOWER(name) LIKE $1 OR LOWER(code) LIKE $1)"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	sortColumn, order := sortClause(filter.SortBy, filter.SortOrder, map[string]string{
		"code":       "code",
		"name":       "name",
		"created_at": "created_at",
	}, "name", "ASC")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", codeNameColumns, base, sortColumn, order, limit, offset)
	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return 0, fmt.Errorf("list %ss: %w", s.label, err)
	}
	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return 0, fmt.Errorf("count %ss: %w", s.label, err)
	}
	return total, nil
}

func (s codeNameStore) get(ctx context.Context, id string, dest interface{}) error {
	if err := s.db.GetContext(ctx, dest, "SELECT "+codeNameColumns+" FROM "+s.table+" WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("find %s: %w", s.label, err)
	}
	return nil
}

func (s codeNameStore) insert(ctx context.Context, arg interface{}) error {
	query := "INSERT INTO " + s.table + " (id, code, name, created_at, updated_at) VALUES (:id, :code, :name, :created_at, :updated_at)"
	if _, err := s.db.NamedExecContext(ctx, query, arg); err != nil {
		return fmt.Errorf("create %s: %w", s.label, err)
	}
	return nil
}

func (s codeNameStore) update(ctx context.Context, arg interface{}) error {
	query := "UPDATE " + s.table + " SET code = :code, name = :name, updated_at = :updated_at WHERE id = :id"
	if _, err := s.db.NamedExecContext(ctx, query, arg); err != nil {
		return fmt.Errorf("update %s: %w", s.label, err)
	}
	return nil
}

// ExistsByCode checks whether another row uses the code.
func (s codeNameStore) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM " + s.table + " WHERE UPPER(code) = UPPER($1)"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := s.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s code: %w", s.label, err)
	}
	return true, nil
}

// CountReferences returns how many dependent rows point at the record.
func (s codeNameStore) CountReferences(ctx context.Context, id string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", s.refTable, s.refColumn)
	if err := s.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count %s references: %w", s.label, err)
	}
	return count, nil
}

// Delete removes the record.
func (s codeNameStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table+" WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete %s: %w", s.label, err)
	}
	return nil
}

// Package store handles SQLite persistence of roster snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/classboard/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dayLayout = "2006-01-02"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps SQLite access for roster and activity data.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, log: log.Named("store")}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	store.log.Debug("opened database", zap.String("path", path))
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			grade INTEGER NOT NULL,
			teacher TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			class_id TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			enrolled_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			subject TEXT NOT NULL,
			credits INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			day TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			completions INTEGER NOT NULL,
			score_sum REAL NOT NULL,
			PRIMARY KEY (student_id, course_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_day ON attempts(day);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// Seed writes a snapshot in one transaction. Existing rows with the same ids
// are updated in place.
func (s *Store) Seed(ctx context.Context, snap model.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, c := range snap.Classes {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO classes (id, name, grade, teacher) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, grade = excluded.grade, teacher = excluded.teacher`,
			c.ID, c.Name, c.Grade, c.Teacher); err != nil {
			return fmt.Errorf("failed to insert class %s: %w", c.ID, err)
		}
	}
	for _, st := range snap.Students {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO students (id, first_name, last_name, class_id, email, enrolled_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET first_name = excluded.first_name, last_name = excluded.last_name,
			 class_id = excluded.class_id, email = excluded.email, enrolled_at = excluded.enrolled_at`,
			st.ID, st.FirstName, st.LastName, st.ClassID, st.Email, st.EnrolledAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to insert student %s: %w", st.ID, err)
		}
	}
	for _, c := range snap.Courses {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO courses (id, title, subject, credits) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET title = excluded.title, subject = excluded.subject, credits = excluded.credits`,
			c.ID, c.Title, c.Subject, c.Credits); err != nil {
			return fmt.Errorf("failed to insert course %s: %w", c.ID, err)
		}
	}
	if len(snap.Attempts) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO attempts (student_id, course_id, day, attempts, completions, score_sum)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, a := range snap.Attempts {
			if _, err = stmt.ExecContext(ctx, a.StudentID, a.CourseID, a.Day.Format(dayLayout), a.Attempts, a.Completions, a.ScoreSum); err != nil {
				return fmt.Errorf("failed to insert attempt: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	s.log.Info("seeded snapshot",
		zap.Int("classes", len(snap.Classes)),
		zap.Int("students", len(snap.Students)),
		zap.Int("courses", len(snap.Courses)),
		zap.Int("attempts", len(snap.Attempts)))
	return nil
}

// ListClasses returns all classes ordered by grade and name.
func (s *Store) ListClasses(ctx context.Context) ([]model.Class, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, grade, teacher FROM classes ORDER BY grade, name`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Grade, &c.Teacher); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStudents returns students in enrollment order, with class names.
func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.id, s.first_name, s.last_name, s.class_id, COALESCE(c.name, ''), s.email, s.enrolled_at
		FROM students s
		LEFT JOIN classes c ON c.id = s.class_id
		ORDER BY s.enrolled_at ASC, s.id ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []model.Student
	for rows.Next() {
		var st model.Student
		var enrolledAt string
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName, &st.ClassID, &st.ClassName, &st.Email, &enrolledAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, enrolledAt)
		if err != nil {
			return nil, err
		}
		st.EnrolledAt = parsed
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCourses returns all courses in insertion order.
func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, subject, credits FROM courses ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Subject, &c.Credits); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetClass returns one class.
func (s *Store) GetClass(ctx context.Context, id string) (model.Class, error) {
	var c model.Class
	err := s.db.QueryRowContext(ctx, `SELECT id, name, grade, teacher FROM classes WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Grade, &c.Teacher)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Class{}, fmt.Errorf("class %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Class{}, err
	}
	return c, nil
}

// FindClass returns the class whose id matches ref or whose name matches it
// case-insensitively.
func (s *Store) FindClass(ctx context.Context, ref string) (model.Class, error) {
	var c model.Class
	err := s.db.QueryRowContext(ctx, `SELECT id, name, grade, teacher FROM classes
		WHERE id = ? OR name = ? COLLATE NOCASE
		ORDER BY id = ? DESC, grade, name LIMIT 1`, ref, ref, ref).
		Scan(&c.ID, &c.Name, &c.Grade, &c.Teacher)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Class{}, fmt.Errorf("class %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return model.Class{}, err
	}
	return c, nil
}

// FindCourse returns the course whose id matches ref or whose title matches
// it case-insensitively.
func (s *Store) FindCourse(ctx context.Context, ref string) (model.Course, error) {
	var c model.Course
	err := s.db.QueryRowContext(ctx, `SELECT id, title, subject, credits FROM courses
		WHERE id = ? OR title = ? COLLATE NOCASE
		ORDER BY id = ? DESC, rowid LIMIT 1`, ref, ref, ref).
		Scan(&c.ID, &c.Title, &c.Subject, &c.Credits)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Course{}, fmt.Errorf("course %q: %w", ref, ErrNotFound)
	}
	if err != nil {
		return model.Course{}, err
	}
	return c, nil
}

// DeleteStudents removes students and their attempts. It returns the number
// of students deleted.
func (s *Store) DeleteStudents(ctx context.Context, ids []string) (int64, error) {
	return s.deleteByID(ctx, "students", ids)
}

// DeleteClasses removes classes with their students and attempts.
func (s *Store) DeleteClasses(ctx context.Context, ids []string) (int64, error) {
	return s.deleteByID(ctx, "classes", ids)
}

// DeleteCourses removes courses and their attempts.
func (s *Store) DeleteCourses(ctx context.Context, ids []string) (int64, error) {
	return s.deleteByID(ctx, "courses", ids)
}

func (s *Store) deleteByID(ctx context.Context, table string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders, args := inClause(ids)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id IN (%s)`, table, placeholders), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	s.log.Info("deleted rows", zap.String("table", table), zap.Int64("count", n))
	return n, nil
}

// ListDayActivity sums attempts per day, oldest first.
func (s *Store) ListDayActivity(ctx context.Context, cfg model.StatsConfig) ([]model.DayActivity, error) {
	where, args := activityFilter(cfg)
	query := fmt.Sprintf(`SELECT a.day, SUM(a.attempts), SUM(a.completions), SUM(a.score_sum)
		FROM attempts a
		JOIN students s ON s.id = a.student_id
		WHERE %s
		GROUP BY a.day
		ORDER BY a.day ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []model.DayActivity
	for rows.Next() {
		var d model.DayActivity
		var day string
		if err := rows.Scan(&day, &d.Attempts, &d.Completions, &d.ScoreSum); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(dayLayout, day, time.UTC)
		if err != nil {
			return nil, err
		}
		d.Day = parsed
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCourseActivity sums attempts per course, in course insertion order.
// Courses without activity are omitted.
func (s *Store) ListCourseActivity(ctx context.Context, cfg model.StatsConfig) ([]model.CourseActivity, error) {
	where, args := activityFilter(cfg)
	query := fmt.Sprintf(`SELECT c.id, c.title, SUM(a.attempts), SUM(a.completions), SUM(a.score_sum)
		FROM attempts a
		JOIN students s ON s.id = a.student_id
		JOIN courses c ON c.id = a.course_id
		WHERE %s
		GROUP BY c.id
		ORDER BY c.rowid ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []model.CourseActivity
	for rows.Next() {
		var c model.CourseActivity
		if err := rows.Scan(&c.CourseID, &c.Title, &c.Attempts, &c.Completions, &c.ScoreSum); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStudentProgress sums attempts per student.
func (s *Store) ListStudentProgress(ctx context.Context, cfg model.StatsConfig) ([]model.StudentProgress, error) {
	where, args := activityFilter(cfg)
	query := fmt.Sprintf(`SELECT a.student_id, SUM(a.attempts), SUM(a.completions), SUM(a.score_sum)
		FROM attempts a
		JOIN students s ON s.id = a.student_id
		WHERE %s
		GROUP BY a.student_id`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var out []model.StudentProgress
	for rows.Next() {
		var p model.StudentProgress
		if err := rows.Scan(&p.StudentID, &p.Attempts, &p.Completions, &p.ScoreSum); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func activityFilter(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.ClassID != "" {
		clauses = append(clauses, "s.class_id = ?")
		args = append(args, cfg.ClassID)
	}
	if cfg.CourseID != "" {
		clauses = append(clauses, "a.course_id = ?")
		args = append(args, cfg.CourseID)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "a.day >= ?")
		args = append(args, cfg.Since.Format(dayLayout))
	}
	return strings.Join(clauses, " AND "), args
}

func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

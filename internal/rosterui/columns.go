package rosterui

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/verte-zerg/classboard/internal/dataset"
	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/store"
)

// Entity names accepted by the roster screen and the list command.
const (
	EntityStudents = "students"
	EntityClasses  = "classes"
	EntityCourses  = "courses"
)

// EntityNames lists the browsable entities.
var EntityNames = []string{EntityStudents, EntityClasses, EntityCourses}

// Entity describes one browsable record type.
type Entity[T any] struct {
	Name    string
	Columns []dataset.Column[T]
	// Widths holds the display width of each column.
	Widths []int
	Key    func(T) string
	Load   func(ctx context.Context) ([]T, error)
	Delete func(ctx context.Context, ids []string) (int64, error)
}

// Students describes the student roster backed by st.
func Students(st *store.Store) Entity[model.Student] {
	e := Entity[model.Student]{
		Name:    EntityStudents,
		Columns: StudentColumns(),
		Widths:  []int{24, 6, 30, 10},
		Key:     func(s model.Student) string { return s.ID },
	}
	if st != nil {
		e.Load = st.ListStudents
		e.Delete = st.DeleteStudents
	}
	return e
}

// Classes describes the class list backed by st.
func Classes(st *store.Store) Entity[model.Class] {
	e := Entity[model.Class]{
		Name:    EntityClasses,
		Columns: ClassColumns(),
		Widths:  []int{8, 6, 24},
		Key:     func(c model.Class) string { return c.ID },
	}
	if st != nil {
		e.Load = st.ListClasses
		e.Delete = st.DeleteClasses
	}
	return e
}

// Courses describes the course catalog backed by st.
func Courses(st *store.Store) Entity[model.Course] {
	e := Entity[model.Course]{
		Name:    EntityCourses,
		Columns: CourseColumns(),
		Widths:  []int{24, 14, 8},
		Key:     func(c model.Course) string { return c.ID },
	}
	if st != nil {
		e.Load = st.ListCourses
		e.Delete = st.DeleteCourses
	}
	return e
}

// StudentColumns returns the student table columns.
func StudentColumns() []dataset.Column[model.Student] {
	return []dataset.Column[model.Student]{
		{
			Key:        "name",
			Title:      "Name",
			Accessor:   func(s model.Student) any { return s.FullName() },
			Sortable:   true,
			Searchable: true,
		},
		{
			Key:        "class",
			Title:      "Class",
			Accessor:   func(s model.Student) any { return s.ClassName },
			Sortable:   true,
			Searchable: true,
		},
		{
			Key:        "email",
			Title:      "Email",
			Accessor:   func(s model.Student) any { return s.Email },
			Searchable: true,
		},
		{
			Key:      "enrolled",
			Title:    "Enrolled",
			Accessor: func(s model.Student) any { return s.EnrolledAt },
			Render:   func(s model.Student) string { return s.EnrolledAt.Format("2006-01-02") },
			Sortable: true,
		},
	}
}

// ClassColumns returns the class table columns.
func ClassColumns() []dataset.Column[model.Class] {
	return []dataset.Column[model.Class]{
		{
			Key:        "name",
			Title:      "Class",
			Accessor:   func(c model.Class) any { return c.Name },
			Sortable:   true,
			Searchable: true,
		},
		{
			Key:      "grade",
			Title:    "Grade",
			Accessor: func(c model.Class) any { return c.Grade },
			Sortable: true,
		},
		{
			Key:        "teacher",
			Title:      "Teacher",
			Accessor:   func(c model.Class) any { return c.Teacher },
			Sortable:   true,
			Searchable: true,
		},
	}
}

// CourseColumns returns the course table columns.
func CourseColumns() []dataset.Column[model.Course] {
	return []dataset.Column[model.Course]{
		{
			Key:        "title",
			Title:      "Title",
			Accessor:   func(c model.Course) any { return c.Title },
			Sortable:   true,
			Searchable: true,
		},
		{
			Key:        "subject",
			Title:      "Subject",
			Accessor:   func(c model.Course) any { return c.Subject },
			Sortable:   true,
			Searchable: true,
		},
		{
			Key:      "credits",
			Title:    "Credits",
			Accessor: func(c model.Course) any { return c.Credits },
			Render:   func(c model.Course) string { return fmt.Sprintf("%d cr", c.Credits) },
			Sortable: true,
		},
	}
}

// ParseLocale parses a BCP 47 tag for string collation. An empty string
// selects the root collation.
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag, nil
}

// ResolveSort validates a sort column key. An empty key means source order.
func ResolveSort[T any](columns []dataset.Column[T], key string, desc bool) (dataset.SortState, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return dataset.SortState{}, nil
	}
	col, ok := dataset.FindColumn(columns, key)
	if !ok || !col.Sortable {
		return dataset.SortState{}, fmt.Errorf("unknown sort column %q (expected one of %s)", key, strings.Join(sortableKeys(columns), ", "))
	}
	dir := dataset.Asc
	if desc {
		dir = dataset.Desc
	}
	return dataset.SortState{ColumnKey: col.Key, Direction: dir}, nil
}

func sortableKeys[T any](columns []dataset.Column[T]) []string {
	var keys []string
	for _, c := range columns {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/classboard/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "classboard.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func day(d int) time.Time {
	return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC)
}

func fixture() model.Snapshot {
	return model.Snapshot{
		Classes: []model.Class{
			{ID: "k2", Name: "8B", Grade: 8, Teacher: "Mr Hale"},
			{ID: "k1", Name: "7A", Grade: 7, Teacher: "Ms Reed"},
		},
		Students: []model.Student{
			{ID: "s1", FirstName: "Ann", LastName: "Lee", ClassID: "k1", Email: "ann@school.test", EnrolledAt: day(1)},
			{ID: "s2", FirstName: "Bo", LastName: "Kim", ClassID: "k1", Email: "bo@school.test", EnrolledAt: day(2)},
			{ID: "s3", FirstName: "Cy", LastName: "Park", ClassID: "k2", Email: "cy@school.test", EnrolledAt: day(3).Add(90 * time.Minute)},
		},
		Courses: []model.Course{
			{ID: "c2", Title: "Biology", Subject: "Science", Credits: 3},
			{ID: "c1", Title: "Algebra", Subject: "Mathematics", Credits: 4},
		},
		Attempts: []model.Attempt{
			{StudentID: "s1", CourseID: "c1", Day: day(2), Attempts: 2, Completions: 1, ScoreSum: 80},
			{StudentID: "s2", CourseID: "c2", Day: day(2), Attempts: 1, Completions: 0},
			{StudentID: "s3", CourseID: "c1", Day: day(4), Attempts: 3, Completions: 3, ScoreSum: 270},
		},
	}
}

func TestSeedAndList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx, fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	classes, err := st.ListClasses(ctx)
	if err != nil {
		t.Fatalf("list classes: %v", err)
	}
	if len(classes) != 2 || classes[0].Name != "7A" {
		t.Fatalf("expected classes ordered by grade, got %+v", classes)
	}

	students, err := st.ListStudents(ctx)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("expected 3 students, got %d", len(students))
	}
	if students[0].ClassName != "7A" || students[2].ClassName != "8B" {
		t.Fatalf("expected joined class names, got %+v", students)
	}
	if !students[2].EnrolledAt.Equal(day(3).Add(90 * time.Minute)) {
		t.Fatalf("expected enrolled_at round trip, got %v", students[2].EnrolledAt)
	}

	courses, err := st.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list courses: %v", err)
	}
	if len(courses) != 2 || courses[0].ID != "c2" {
		t.Fatalf("expected insertion order, got %+v", courses)
	}

	if _, err := st.GetClass(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx, fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snap := fixture()
	snap.Classes[1].Teacher = "Dr Reed"
	if err := st.Seed(ctx, snap); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	class, err := st.GetClass(ctx, "k1")
	if err != nil {
		t.Fatalf("get class: %v", err)
	}
	if class.Teacher != "Dr Reed" {
		t.Fatalf("expected updated teacher, got %q", class.Teacher)
	}
	students, err := st.ListStudents(ctx)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("expected students to survive a reseed, got %d", len(students))
	}
}

func TestDeleteCascades(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx, fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := st.DeleteClasses(ctx, []string{"k1"})
	if err != nil {
		t.Fatalf("delete classes: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 class deleted, got %d", n)
	}
	students, err := st.ListStudents(ctx)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(students) != 1 || students[0].ID != "s3" {
		t.Fatalf("expected only s3 to remain, got %+v", students)
	}
	days, err := st.ListDayActivity(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list day activity: %v", err)
	}
	if len(days) != 1 || !days[0].Day.Equal(day(4)) {
		t.Fatalf("expected attempts of deleted students to be gone, got %+v", days)
	}

	if n, err := st.DeleteStudents(ctx, nil); err != nil || n != 0 {
		t.Fatalf("expected no-op delete, got %d, %v", n, err)
	}
}

func TestActivityFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx, fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	days, err := st.ListDayActivity(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list day activity: %v", err)
	}
	if len(days) != 2 || days[0].Attempts != 3 || days[0].Completions != 1 {
		t.Fatalf("unexpected day activity: %+v", days)
	}

	byClass, err := st.ListDayActivity(ctx, model.StatsConfig{ClassID: "k2"})
	if err != nil {
		t.Fatalf("list by class: %v", err)
	}
	if len(byClass) != 1 || byClass[0].Completions != 3 {
		t.Fatalf("unexpected class filter result: %+v", byClass)
	}

	since := day(3)
	courses, err := st.ListCourseActivity(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list course activity: %v", err)
	}
	if len(courses) != 1 || courses[0].Title != "Algebra" || courses[0].Attempts != 3 {
		t.Fatalf("unexpected since filter result: %+v", courses)
	}

	all, err := st.ListCourseActivity(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list course activity: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Biology" {
		t.Fatalf("expected course insertion order, got %+v", all)
	}

	progress, err := st.ListStudentProgress(ctx, model.StatsConfig{CourseID: "c1"})
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	if len(progress) != 2 {
		t.Fatalf("expected 2 students with algebra activity, got %+v", progress)
	}
}

func TestFindByNameOrID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Seed(ctx, fixture()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	class, err := st.FindClass(ctx, "7a")
	if err != nil {
		t.Fatalf("find class: %v", err)
	}
	if class.ID != "k1" {
		t.Fatalf("expected class k1, got %q", class.ID)
	}
	class, err = st.FindClass(ctx, "k2")
	if err != nil || class.Name != "8B" {
		t.Fatalf("expected 8B by id, got %+v (%v)", class, err)
	}
	if _, err := st.FindClass(ctx, "9Z"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	course, err := st.FindCourse(ctx, "BIOLOGY")
	if err != nil {
		t.Fatalf("find course: %v", err)
	}
	if course.ID != "c2" {
		t.Fatalf("expected course c2, got %q", course.ID)
	}
	if _, err := st.FindCourse(ctx, "Chemistry"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

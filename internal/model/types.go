// Package model defines shared data structures.
package model

import "time"

// Class is a school class (homeroom).
type Class struct {
	ID      string
	Name    string
	Grade   int
	Teacher string
}

// Student is a student enrolled in a class.
type Student struct {
	ID         string
	FirstName  string
	LastName   string
	ClassID    string
	ClassName  string
	Email      string
	EnrolledAt time.Time
}

// FullName returns "First Last".
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Course is a course offered to students.
type Course struct {
	ID      string
	Title   string
	Subject string
	Credits int
}

// Attempt aggregates one student's activity on a course for one day.
type Attempt struct {
	StudentID   string
	CourseID    string
	Day         time.Time
	Attempts    int
	Completions int
	ScoreSum    float64
}

// RosterConfig defines table screen settings.
type RosterConfig struct {
	Entity     string
	PageSize   int
	DebounceMs int
	Sort       string
	Desc       bool
	Query      string
	Locale     string
}

// StatsConfig defines filters and options for analytics output.
type StatsConfig struct {
	ClassID     string
	CourseID    string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// DayActivity sums attempts for one calendar day.
type DayActivity struct {
	Day         time.Time
	Attempts    int
	Completions int
	ScoreSum    float64
}

// CourseActivity sums attempts for one course.
type CourseActivity struct {
	CourseID    string
	Title       string
	Attempts    int
	Completions int
	ScoreSum    float64
}

// StudentProgress summarizes one student's activity.
type StudentProgress struct {
	StudentID   string
	Attempts    int
	Completions int
	ScoreSum    float64
}

// Snapshot is a full set of roster and activity rows.
type Snapshot struct {
	Classes  []Class
	Students []Student
	Courses  []Course
	Attempts []Attempt
}

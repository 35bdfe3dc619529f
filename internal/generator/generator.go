// Package generator builds mock roster snapshots.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/namelist"
)

// DefaultCourses lists course titles and subjects used by default.
var DefaultCourses = []model.Course{
	{Title: "Algebra I", Subject: "Mathematics", Credits: 4},
	{Title: "Biology", Subject: "Science", Credits: 3},
	{Title: "World History", Subject: "Humanities", Credits: 3},
	{Title: "French Literature", Subject: "Languages", Credits: 2},
	{Title: "Computer Basics", Subject: "Technology", Credits: 2},
}

// Options tunes Generate.
type Options struct {
	Classes          int
	StudentsPerClass int
	Days             int
	// ActivityPct is the probability that a student is active on a day (0-1).
	ActivityPct float64
	Start       time.Time
	FirstNames  []string
	LastNames   []string
	Courses     []model.Course
}

// Generator produces randomized roster data.
type Generator struct {
	rnd  *rand.Rand
	seed int64
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator. Row ids derive from the seed,
// so two runs with the same seed and options produce identical snapshots.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), seed: seed}
}

// Generate builds a snapshot with sparse daily activity.
func (g *Generator) Generate(opts Options) (model.Snapshot, error) {
	if opts.Classes <= 0 {
		return model.Snapshot{}, fmt.Errorf("classes must be > 0")
	}
	if opts.StudentsPerClass <= 0 {
		return model.Snapshot{}, fmt.Errorf("students per class must be > 0")
	}
	if opts.Days < 0 {
		return model.Snapshot{}, fmt.Errorf("days must be >= 0")
	}
	if opts.ActivityPct < 0 || opts.ActivityPct > 1 {
		return model.Snapshot{}, fmt.Errorf("activity must be between 0 and 1")
	}
	firsts := opts.FirstNames
	if len(firsts) == 0 {
		firsts = namelist.DefaultFirstNames
	}
	lasts := opts.LastNames
	if len(lasts) == 0 {
		lasts = namelist.DefaultLastNames
	}
	courses := opts.Courses
	if len(courses) == 0 {
		courses = DefaultCourses
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now().UTC().AddDate(0, 0, -opts.Days)
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var snap model.Snapshot
	for i, c := range courses {
		c.ID = g.id("course", i)
		snap.Courses = append(snap.Courses, c)
	}
	for ci := 0; ci < opts.Classes; ci++ {
		grade := 7 + ci%6
		class := model.Class{
			ID:      g.id("class", ci),
			Name:    fmt.Sprintf("%d%c", grade, 'A'+rune(ci/6%26)),
			Grade:   grade,
			Teacher: g.name(firsts, lasts),
		}
		snap.Classes = append(snap.Classes, class)
		for si := 0; si < opts.StudentsPerClass; si++ {
			first := firsts[g.rnd.Intn(len(firsts))]
			last := lasts[g.rnd.Intn(len(lasts))]
			n := ci*opts.StudentsPerClass + si
			snap.Students = append(snap.Students, model.Student{
				ID:         g.id("student", n),
				FirstName:  first,
				LastName:   last,
				ClassID:    class.ID,
				ClassName:  class.Name,
				Email:      email(first, last, n),
				EnrolledAt: start.AddDate(0, 0, -g.rnd.Intn(365)).Add(time.Duration(g.rnd.Intn(8*60)) * time.Minute),
			})
		}
	}
	for _, st := range snap.Students {
		for d := 0; d < opts.Days; d++ {
			if g.rnd.Float64() >= opts.ActivityPct {
				continue
			}
			course := snap.Courses[g.rnd.Intn(len(snap.Courses))]
			attempts := 1 + g.rnd.Intn(3)
			completions := g.rnd.Intn(attempts + 1)
			score := 0.0
			for k := 0; k < completions; k++ {
				score += 40 + g.rnd.Float64()*60
			}
			snap.Attempts = append(snap.Attempts, model.Attempt{
				StudentID:   st.ID,
				CourseID:    course.ID,
				Day:         start.AddDate(0, 0, d),
				Attempts:    attempts,
				Completions: completions,
				ScoreSum:    score,
			})
		}
	}
	return snap, nil
}

func (g *Generator) id(kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%d:%s:%d", g.seed, kind, n))).String()
}

func (g *Generator) name(firsts, lasts []string) string {
	return firsts[g.rnd.Intn(len(firsts))] + " " + lasts[g.rnd.Intn(len(lasts))]
}

func email(first, last string, n int) string {
	local := strings.ToLower(strings.NewReplacer(" ", "", "'", "", "’", "").Replace(first + "." + last))
	return fmt.Sprintf("%s%d@school.test", local, n)
}

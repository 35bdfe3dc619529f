package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/classboard/internal/model"
	"github.com/verte-zerg/classboard/internal/stats"
	"github.com/verte-zerg/classboard/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "classboard.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	day := func(d int) time.Time { return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC) }
	snap := model.Snapshot{
		Classes: []model.Class{{ID: "k1", Name: "7A", Grade: 7, Teacher: "Ms Reed"}},
		Students: []model.Student{
			{ID: "s1", FirstName: "Ann", LastName: "Lee", ClassID: "k1", Email: "ann@school.test", EnrolledAt: day(1)},
			{ID: "s2", FirstName: "Bo", LastName: "Kim", ClassID: "k1", Email: "bo@school.test", EnrolledAt: day(2)},
			{ID: "s3", FirstName: "Cy", LastName: "Park", ClassID: "k1", Email: "cy@school.test", EnrolledAt: day(3)},
		},
		Courses: []model.Course{{ID: "c1", Title: "Algebra", Subject: "Mathematics", Credits: 4}},
		Attempts: []model.Attempt{
			{StudentID: "s1", CourseID: "c1", Day: day(2), Attempts: 2, Completions: 1, ScoreSum: 80},
			{StudentID: "s3", CourseID: "c1", Day: day(4), Attempts: 1, Completions: 1, ScoreSum: 90},
		},
	}
	if err := st.Seed(context.Background(), snap); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return st
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	var f rosterFlags
	cmd := &cobra.Command{Use: "test"}
	addRosterFlags(cmd, &f)
	if err := cmd.Flags().Parse([]string{"--sort", "email"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	sortKey := "name"
	pageSize := 25
	desc := true
	applyStringConfig(cmd, "sort", &f.sort, &sortKey)
	applyIntConfig(cmd, "page-size", &f.pageSize, &pageSize)
	applyBoolConfig(cmd, "desc", &f.desc, &desc)
	applyIntConfig(cmd, "page-size", &f.pageSize, nil)

	if f.sort != "email" {
		t.Fatalf("expected flag value to win, got %q", f.sort)
	}
	if f.pageSize != 25 {
		t.Fatalf("expected config page size 25, got %d", f.pageSize)
	}
	if !f.desc {
		t.Fatalf("expected config desc to apply")
	}
}

func TestListEntityPrintsPage(t *testing.T) {
	st := seededStore(t)
	cfg := model.RosterConfig{Entity: "students", PageSize: 2, Sort: "name", Desc: true}

	var buf bytes.Buffer
	if err := listEntity(context.Background(), &buf, st, cfg, 2); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Ann Lee") {
		t.Fatalf("expected last row on page 2, got:\n%s", out)
	}
	if strings.Contains(out, "Cy Park") {
		t.Fatalf("expected first page rows to be excluded, got:\n%s", out)
	}
	if !strings.Contains(out, "3-3 of 3  Page 2/2") {
		t.Fatalf("expected range footer, got:\n%s", out)
	}
}

func TestListEntityEmptyQuery(t *testing.T) {
	st := seededStore(t)
	cfg := model.RosterConfig{Entity: "classes", PageSize: 10, Query: "zzz"}

	var buf bytes.Buffer
	if err := listEntity(context.Background(), &buf, st, cfg, 1); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "0 of 0  Page 1/0") {
		t.Fatalf("expected empty footer, got:\n%s", buf.String())
	}
}

func TestListEntityErrors(t *testing.T) {
	st := seededStore(t)
	cases := []model.RosterConfig{
		{Entity: "teachers", PageSize: 10},
		{Entity: "students", PageSize: 10, Sort: "nope"},
		{Entity: "students", PageSize: 10, Locale: "not a locale!"},
	}
	for _, cfg := range cases {
		var buf bytes.Buffer
		if err := listEntity(context.Background(), &buf, st, cfg, 1); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestReportFlagsResolve(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	cfg, err := reportFlags{class: "7a", course: "algebra", since: "2024-09-03", curveWindow: 3}.resolve(ctx, st)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.ClassID != "k1" || cfg.CourseID != "c1" {
		t.Fatalf("expected resolved ids, got %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 3 {
		t.Fatalf("expected since 2024-09-03, got %v", cfg.Since)
	}

	bad := []reportFlags{
		{class: "9Z", curveWindow: 3},
		{course: "Chemistry", curveWindow: 3},
		{since: "09/03/2024", curveWindow: 3},
		{last: -1, curveWindow: 3},
		{curveWindow: 0},
	}
	for _, f := range bad {
		if _, err := f.resolve(ctx, st); err == nil {
			t.Fatalf("expected error for %+v", f)
		}
	}
}

func TestWriteChartJSON(t *testing.T) {
	st := seededStore(t)
	report, err := stats.BuildReport(context.Background(), st, model.StatsConfig{CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	var buf bytes.Buffer
	if err := writeChart(&buf, report, stats.ChartWeekday, true); err != nil {
		t.Fatalf("write chart: %v", err)
	}
	var decoded struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Label string     `json:"label"`
			Data  []*float64 `json:"data"`
		} `json:"datasets"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode chart: %v\n%s", err, buf.String())
	}
	if strings.Join(decoded.Labels, ",") != "Mon,Wed" {
		t.Fatalf("expected Mon,Wed labels, got %v", decoded.Labels)
	}
	if len(decoded.Datasets) != 2 || decoded.Datasets[0].Label != "Attempts" {
		t.Fatalf("expected attempts and completions datasets, got %+v", decoded.Datasets)
	}
	if got := decoded.Datasets[0].Data; len(got) != 2 || got[0] == nil || *got[0] != 2 {
		t.Fatalf("expected 2 attempts on Monday, got %v", got)
	}

	if err := writeChart(&buf, report, "pie", true); err == nil {
		t.Fatalf("expected error for unknown chart")
	}
}

func TestWritePlainReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlainReport(&buf, stats.Report{}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No activity found." {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestDefaultConfigTemplateMentionsSections(t *testing.T) {
	tpl := defaultConfigTemplate()
	for _, section := range []string{"[roster]", "[stats]", "[log]"} {
		if !strings.Contains(tpl, section) {
			t.Fatalf("expected %s in template", section)
		}
	}
}

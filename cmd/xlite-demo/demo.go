package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-mizu/xlite"
	"github.com/go-mizu/xlite/handbook"
	"github.com/go-mizu/xlite/internal/config"
	"github.com/go-mizu/xlite/internal/logger"
)

const (
	studentTable = "student"
	countryTable = "country"
	courseTable  = "course"
)

type enrolment struct {
	FirstName string
	LastName  string
	Country   string
	Course    string
}

// printer pads every cell to a fixed width.
type printer struct {
	w     io.Writer
	width int
	cell  lipgloss.Style
}

func newPrinter(w io.Writer, width int) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{w: w, width: width, cell: r.NewStyle().Width(width)}
}

func (p *printer) pad(s string) string {
	if lipgloss.Width(s) >= p.width {
		return s
	}
	return p.cell.Render(s)
}

func (p *printer) row(cells ...string) {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = p.pad(c)
	}
	fmt.Fprintln(p.w, strings.TrimRight(strings.Join(padded, " "), " "))
}

func (p *printer) header(cells ...string) {
	p.row(cells...)
	rules := make([]string, len(cells))
	for i := range rules {
		rules[i] = strings.Repeat("-", p.width)
	}
	p.row(rules...)
}

func run(ctx context.Context, w io.Writer, cfg config.Config) error {
	db, err := xlite.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Section("schema")
	if err := createSchema(ctx, db, cfg); err != nil {
		return err
	}

	logger.Section("insert")
	if err := insertStudents(ctx, db, cfg.Students); err != nil {
		return err
	}

	logger.Section("report")
	return report(ctx, db, newPrinter(w, cfg.Width))
}

func createSchema(ctx context.Context, db *xlite.DB, cfg config.Config) error {
	q, err := xlite.Format(`CREATE TABLE IF NOT EXISTS {0}(
		{0}_id         INTEGER NOT NULL PRIMARY KEY,
		{0}_first_name TEXT,
		{0}_last_name  TEXT,
		{1}_id         INTEGER,
		{2}_id         INTEGER);`, studentTable, countryTable, courseTable)
	if err != nil {
		return err
	}
	if err := xlite.Exec(ctx, db, q); err != nil {
		return err
	}

	// Students always reference country and course; configured handbooks come on top.
	if err := handbook.Create(ctx, db, countryTable); err != nil {
		return err
	}
	if err := handbook.Create(ctx, db, courseTable); err != nil {
		return err
	}
	for _, h := range cfg.Handbooks {
		logger.Info("%s: %s", h.Title, h.Table)
		if err := handbook.Create(ctx, db, h.Table); err != nil {
			return err
		}
	}
	return nil
}

func insertStudents(ctx context.Context, db *xlite.DB, students []config.Student) error {
	q, err := xlite.Format("INSERT INTO {0}({0}_first_name, {0}_last_name, {1}_id, {2}_id) VALUES(?, ?, ?, ?);",
		studentTable, countryTable, courseTable)
	if err != nil {
		return err
	}
	for _, s := range students {
		countryID, err := handbook.GetIDOrInsert(ctx, db, countryTable, s.Country)
		if err != nil {
			return err
		}
		courseID, err := handbook.GetIDOrInsert(ctx, db, courseTable, s.Course)
		if err != nil {
			return err
		}
		if _, err := xlite.PrepareBindStep(ctx, db, q, s.FirstName, s.LastName, countryID, courseID); err != nil {
			return err
		}
	}
	return nil
}

func report(ctx context.Context, db *xlite.DB, p *printer) error {
	q, err := xlite.Format(`SELECT {0}.{0}_first_name, {0}.{0}_last_name, {1}.name, {2}.name FROM {0}
		JOIN {1} ON {0}.{1}_id={1}.id
		JOIN {2} ON {0}.{2}_id={2}.id
		ORDER BY {0}.{0}_id;`, studentTable, countryTable, courseTable)
	if err != nil {
		return err
	}
	rows, err := xlite.Query[enrolment](ctx, db, q)
	if err != nil {
		return err
	}
	p.header("student_first_name", "student_last_name", "country_name", "course_name")
	for _, r := range rows {
		p.row(r.FirstName, r.LastName, r.Country, r.Course)
	}

	countryID, err := handbook.GetID(ctx, db, countryTable, "The North")
	if err != nil {
		return err
	}
	countryName, err := handbook.GetName(ctx, db, countryTable, countryID)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "\nCountry id: %d, name: %s\n", countryID, countryName)

	courseID, err := handbook.GetID(ctx, db, courseTable, "Deep Learning")
	if err != nil {
		return err
	}
	courseName, err := handbook.GetName(ctx, db, courseTable, courseID)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.w, "Course id: %d, name: %s\n", courseID, courseName)

	const missingCourse = "Python in depth"
	if id, err := handbook.GetID(ctx, db, courseTable, missingCourse); err != nil {
		return err
	} else if id == handbook.NotFound {
		fmt.Fprintf(p.w, "Can't find course by name: %s\n", missingCourse)
	}

	const missingCountry = 100
	if name, err := handbook.GetName(ctx, db, countryTable, missingCountry); err != nil {
		return err
	} else if name == "" {
		fmt.Fprintf(p.w, "Can't find country by id: %d\n", missingCountry)
	}

	courses, err := handbook.GetNames(ctx, db, courseTable, handbook.Asc)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.w, "\nascending")
	p.header("course_name")
	for _, c := range courses {
		p.row(c)
	}

	countries, err := handbook.GetNames(ctx, db, countryTable, handbook.Desc)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.w, "\ndescending")
	p.header("country_name")
	for _, c := range countries {
		p.row(c)
	}

	ids, err := handbook.GetIDs(ctx, db, countryTable)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.w)
	p.header("country_id")
	for _, id := range ids {
		p.row(fmt.Sprint(id))
	}
	return nil
}

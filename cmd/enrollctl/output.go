package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yigit/unienroll/internal/app/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStudents(w io.Writer, students []models.Student) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tAGE\tCOURSES")
	for _, s := range students {
		ids := make([]string, 0, len(s.Courses))
		for _, c := range s.Courses {
			ids = append(ids, strconv.FormatInt(c.ID, 10))
		}
		courses := strings.Join(ids, ",")
		if courses == "" {
			courses = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", s.ID, s.Name, s.Email, s.Age, courses)
	}
	return tw.Flush()
}

func writeCourses(w io.Writer, courses []models.Course) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCREDITS\tDAYS\tTIME\tSEATS")
	for _, c := range courses {
		seats := fmt.Sprintf("%d/%d", c.EnrolledCount, c.Capacity)
		if c.IsFull() {
			seats += " FULL"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s-%s\t%s\n",
			c.ID, c.Title, c.Credits, strings.Join(c.Days, ","), c.StartTime, c.EndTime, seats)
	}
	return tw.Flush()
}

// Package export renders diet plans and workout programs as PDF documents.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"alcyxob/fitclub/internal/domain"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
)

// FileName builds "<name>_<kind>_<YYYY-MM-DD>.pdf" with spaces in the name
// replaced by underscores.
func FileName(userName, kind string, date time.Time) string {
	name := strings.Join(strings.Fields(userName), "_")
	if name == "" {
		name = "Member"
	}
	return fmt.Sprintf("%s_%s_%s.pdf", name, kind, date.Format("2006-01-02"))
}

func DietPlanFileName(userName string, date time.Time) string {
	return FileName(userName, "Diet_Plan", date)
}

func WorkoutProgramFileName(userName string, date time.Time) string {
	return FileName(userName, "Workout_Program", date)
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// newDocument sets up an A4 document with a "Page i / n" footer.
func newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(title, true)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return d
}

func (d *document) title(text string) {
	d.pdf.SetFont(fontFamily, "B", 18)
	d.pdf.SetTextColor(33, 37, 41)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) meta(text string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetTextColor(100, 100, 100)
	d.pdf.CellFormat(0, lineHeight, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
}

func (d *document) heading(text string) {
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 13)
	d.pdf.SetTextColor(13, 110, 253)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(33, 37, 41)
}

func (d *document) text(text string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
}

func (d *document) bullets(items []string) {
	d.pdf.SetFont(fontFamily, "", 10)
	for _, item := range items {
		d.pdf.MultiCell(0, lineHeight, d.tr("- "+item), "", "L", false)
	}
}

func (d *document) write(w io.Writer) error {
	return d.pdf.Output(w)
}

// DietPlanPDF writes the blood-test results and diet plan.
func DietPlanPDF(w io.Writer, userName string, record *domain.DietPlanRecord, date time.Time) error {
	d := newDocument("Personal Diet Plan")
	d.title("Personal Diet Plan")
	d.meta(fmt.Sprintf("%s - %s", userName, date.Format("2006-01-02")))

	plan := record.Plan
	d.heading("Daily Targets")
	d.text(fmt.Sprintf("Calories: %d kcal", plan.DailyCalories))
	d.text(fmt.Sprintf("Protein: %d%%  Carbohydrates: %d%%  Fat: %d%%", plan.Macros.Protein, plan.Macros.Carbs, plan.Macros.Fat))

	if len(record.BloodResults) > 0 {
		d.heading("Blood Test Results")
		d.pdf.SetFont(fontFamily, "B", 9)
		widths := []float64{60, 25, 25, 45, 25}
		for i, h := range []string{"Parameter", "Value", "Unit", "Normal Range", "Status"} {
			d.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
		}
		d.pdf.Ln(-1)
		d.pdf.SetFont(fontFamily, "", 9)
		for _, r := range record.BloodResults {
			d.pdf.CellFormat(widths[0], 6, d.tr(r.Parameter), "1", 0, "L", false, 0, "")
			d.pdf.CellFormat(widths[1], 6, fmt.Sprintf("%g", r.Value), "1", 0, "C", false, 0, "")
			d.pdf.CellFormat(widths[2], 6, d.tr(r.Unit), "1", 0, "C", false, 0, "")
			d.pdf.CellFormat(widths[3], 6, d.tr(r.NormalRange), "1", 0, "C", false, 0, "")
			d.pdf.CellFormat(widths[4], 6, string(r.Status), "1", 0, "C", false, 0, "")
			d.pdf.Ln(-1)
		}
	}

	d.heading("Health Insights")
	d.bullets(plan.HealthInsights)
	d.heading("Recommendations")
	d.bullets(plan.Recommendations)
	d.heading("Restrictions")
	d.bullets(plan.Restrictions)
	d.heading("Supplements")
	d.bullets(plan.Supplements)

	d.heading("Meal Plan")
	for _, meal := range []struct {
		name  string
		items []string
	}{
		{"Breakfast", plan.MealPlan.Breakfast},
		{"Lunch", plan.MealPlan.Lunch},
		{"Dinner", plan.MealPlan.Dinner},
		{"Snacks", plan.MealPlan.Snacks},
	} {
		d.pdf.SetFont(fontFamily, "B", 11)
		d.pdf.CellFormat(0, 7, meal.name, "", 1, "L", false, 0, "")
		d.bullets(meal.items)
	}
	return d.write(w)
}

// WorkoutPlanPDF writes the weekly program with completion state and notes.
func WorkoutPlanPDF(w io.Writer, userName string, program *domain.WorkoutProgram, date time.Time) error {
	d := newDocument("Workout Program")
	d.title("Workout Program")
	d.meta(fmt.Sprintf("%s - %s", userName, date.Format("2006-01-02")))

	for _, day := range program.Days {
		status := ""
		if day.Completed {
			status = " (completed)"
		}
		d.heading(fmt.Sprintf("%s - %s%s", day.Day, day.Focus, status))
		if len(day.Exercises) == 0 {
			d.text("Rest day")
			continue
		}
		for _, ex := range day.Exercises {
			mark := "[ ]"
			if ex.Completed {
				mark = "[x]"
			}
			d.pdf.SetFont(fontFamily, "B", 10)
			d.pdf.CellFormat(0, lineHeight, d.tr(fmt.Sprintf("%s %s", mark, ex.Name)), "", 1, "L", false, 0, "")
			d.text(fmt.Sprintf("Sets: %d  Reps: %s  Rest: %s", ex.Sets, ex.Reps, ex.RestTime))
			notes := ex.Notes
			if strings.TrimSpace(notes) == "" {
				notes = "No notes added"
			}
			d.text("Notes: " + notes)
		}
	}
	return d.write(w)
}

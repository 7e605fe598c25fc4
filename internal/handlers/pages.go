package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shrimpsizemoose/quizdash/internal/app"
	"github.com/shrimpsizemoose/quizdash/internal/models"
	"github.com/shrimpsizemoose/quizdash/internal/scoring"
	"github.com/shrimpsizemoose/quizdash/internal/snapshot"
	"github.com/shrimpsizemoose/quizdash/internal/table"
)

//go:embed templates/*.html
var templatesFS embed.FS

const dashboardTitle = "Student answers dashboard"

var scoreColors = [models.QuestionCount + 1]string{"#e45756", "#f58518", "#72b7b2", "#54a24b"}

func parseTemplates() *template.Template {
	return template.Must(template.New("pages").Funcs(template.FuncMap{
		"pct": func(rate float64) string {
			return fmt.Sprintf("%.1f%%", rate*100)
		},
	}).ParseFS(templatesFS, "templates/*.html"))
}

type loginPage struct {
	Title   string
	Session app.Session
	Error   string
}

type errorPage struct {
	Title   string
	Session app.Session
	Error   string
}

type bar struct {
	Label string
	Rate  float64
	Width template.CSS
}

type donutSegment struct {
	Score      int
	Count      int
	Color      template.CSS
	DashArray  string
	DashOffset string
}

type detailQuestion struct {
	Label    string
	Answer   string
	Feedback string
	Correct  bool
}

type detail struct {
	StudentID   string
	SubmittedAt string
	Questions   []detailQuestion
}

type dashboardPage struct {
	Title     string
	Session   app.Session
	Empty     bool
	FetchedAt string
	Summary   scoring.Summary
	MaxScore  int
	Bars      []bar
	Donut     []donutSegment
	Query     string
	View      table.View
	Students  []string
	Selected  string
	Detail    *detail
}

// buildDashboard assembles everything the dashboard template shows. Summary
// and charts cover the whole snapshot; the table and detail follow the
// search query.
func buildDashboard(service *app.Service, sess app.Session, snap *snapshot.Snapshot, query, student string) dashboardPage {
	page := dashboardPage{
		Title:     dashboardTitle,
		Session:   sess,
		Empty:     snap.Table.Empty(),
		FetchedAt: service.Cache.Localize(snap.FetchedAt),
		Query:     query,
		MaxScore:  models.QuestionCount,
	}
	if page.Empty {
		return page
	}

	page.Summary = snap.Summary
	labels := service.Config.QuestionLabels()
	for i, rate := range snap.Summary.QuestionRates {
		page.Bars = append(page.Bars, bar{
			Label: labels[i],
			Rate:  rate,
			Width: template.CSS(fmt.Sprintf("%.1f%%", rate*100)),
		})
	}
	page.Donut = donut(snap.Summary)

	filtered := table.FilterByStudent(snap.Table, query)
	page.View = service.DisplayView(filtered)
	page.Students = table.StudentIDs(filtered)
	if len(page.Students) == 0 {
		return page
	}

	page.Selected = page.Students[0]
	for _, id := range page.Students {
		if id == student {
			page.Selected = student
			break
		}
	}
	if sub := table.Latest(filtered, page.Selected); sub != nil {
		page.Detail = buildDetail(sub, labels)
	}
	return page
}

func buildDetail(sub *models.Submission, labels []string) *detail {
	d := &detail{SubmittedAt: sub.CreatedAtLocal}
	if sub.StudentID != nil {
		d.StudentID = *sub.StudentID
	}
	for i := 0; i < models.QuestionCount; i++ {
		q := detailQuestion{
			Label:   labels[i],
			Answer:  "-",
			Correct: sub.Correct[i] == 1,
		}
		if a := sub.Answers[i]; a != nil && strings.TrimSpace(*a) != "" {
			q.Answer = *a
		}
		if f := sub.Feedback[i]; f != nil {
			q.Feedback = *f
		}
		d.Questions = append(d.Questions, q)
	}
	return d
}

// donut lays score counts out on a circle of circumference 100, starting at
// twelve o'clock.
func donut(sum scoring.Summary) []donutSegment {
	segments := make([]donutSegment, 0, len(sum.ScoreCounts))
	offset := 0.0
	for score, count := range sum.ScoreCounts {
		share := 0.0
		if sum.Submissions > 0 {
			share = float64(count) / float64(sum.Submissions) * 100
		}
		segments = append(segments, donutSegment{
			Score:      score,
			Count:      count,
			Color:      template.CSS(scoreColors[score]),
			DashArray:  fmt.Sprintf("%.2f %.2f", share, 100-share),
			DashOffset: fmt.Sprintf("%.2f", 25-offset),
		})
		offset += share
	}
	return segments
}

package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mind-engage/quizdesk/internal/delivery"
)

const Title = "Quiz Results"

type Line struct {
	Prompt        string `json:"prompt"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

type Report struct {
	Title         string `json:"title"`
	QuizID        string `json:"quiz_id"`
	TotalCorrect  int    `json:"total_correct"`
	QuestionCount int    `json:"question_count"`
	Lines         []Line `json:"lines"`
}

// Build flattens a submitted attempt into printable lines. Sequences are
// rendered comma-joined.
func Build(quizID string, s delivery.Snapshot) Report {
	r := Report{
		Title:         Title,
		QuizID:        quizID,
		TotalCorrect:  s.TotalCorrect,
		QuestionCount: s.QuestionCount,
		Lines:         make([]Line, 0, len(s.Results)),
	}
	for _, it := range s.Results {
		r.Lines = append(r.Lines, Line{
			Prompt:        it.Prompt,
			YourAnswer:    it.UserAnswer.String(),
			CorrectAnswer: it.CorrectAnswer.String(),
			IsCorrect:     it.IsCorrect,
		})
	}
	return r
}

func (r Report) Score() string {
	return fmt.Sprintf("Total Marks: %d / %d", r.TotalCorrect, r.QuestionCount)
}

// RenderPDF lays the report out on A4 pages.
func RenderPDF(r Report) ([]byte, error) {
	return render(r, true)
}

func render(r Report, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(r.Title, true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr("Quiz ID: "+r.QuizID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, r.Score(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, l := range r.Lines {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Q%d: %s", i+1, l.Prompt)), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr("Your Answer: "+l.YourAnswer), "", "L", false)
		pdf.MultiCell(0, 6, tr("Correct Answer: "+l.CorrectAnswer), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

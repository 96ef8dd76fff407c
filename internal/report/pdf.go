package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// Brand palette for the client deliverable.
var (
	pdfPrimary = [3]int{51, 102, 204}
	pdfSuccess = [3]int{51, 179, 77}
	pdfWarning = [3]int{230, 153, 26}
	pdfDanger  = [3]int{204, 51, 51}
)

// WritePDF renders the client-facing PDF and writes it under dir.
// Returns the full path written.
func WritePDF(r *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title band
	pdf.SetFillColor(pdfPrimary[0], pdfPrimary[1], pdfPrimary[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 14, fmt.Sprintf("Meta Ads Report - %s", r.Client), "", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, r.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", true, 0, "")
	pdf.Ln(6)
	pdf.SetTextColor(0, 0, 0)

	sectionTitle(pdf, "Account Summary", pdfPrimary)
	pdf.SetFont("Helvetica", "", 11)
	summaryLine(pdf, "Total spend", fmt.Sprintf("$%.0f", r.Summary.TotalSpend))
	summaryLine(pdf, "Weighted score", fmt.Sprintf("%.1f", r.Summary.TotalScore))
	summaryLine(pdf, "Global CPA", fmt.Sprintf("$%.2f", r.Summary.GlobalCPA))
	summaryLine(pdf, "Median CPA", fmt.Sprintf("$%.2f", r.MedianCPA))
	summaryLine(pdf, "Average quality (0-100)", fmt.Sprintf("%.1f", r.Summary.AvgScore100))
	summaryLine(pdf, "Ads analyzed", fmt.Sprintf("%d (%d converting)", r.Summary.TotalAds, r.Summary.WithConversions))
	pdf.Ln(4)

	sectionTitle(pdf, "Scale These", pdfSuccess)
	pdf.SetFont("Helvetica", "", 10)
	if len(r.Candidates) == 0 {
		pdf.CellFormat(0, 6, "No ads meet the duplication criteria this period.", "", 1, "L", false, 0, "")
	}
	for i, c := range r.Candidates {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s", i+1, c.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("   score %.1f, CPA $%.0f, priority %d", c.Score, c.CPA, c.Priority), "", 1, "L", false, 0, "")
		for _, reason := range c.Reasons {
			pdf.CellFormat(0, 5, "   - "+reason, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	sectionTitle(pdf, "Pause / Review", pdfDanger)
	pdf.SetFont("Helvetica", "", 10)
	if len(r.Actions) == 0 {
		pdf.CellFormat(0, 6, "Nothing needs pausing or review.", "", 1, "L", false, 0, "")
	}
	for _, a := range r.Actions {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("[%s] %s %s", a.Priority, a.Type, a.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, "   "+a.Reason+" -> "+a.Suggested, "", "L", false)
	}
	pdf.Ln(4)

	if len(r.Anomalies) > 0 {
		sectionTitle(pdf, "Anomalies", pdfWarning)
		pdf.SetFont("Helvetica", "", 9)
		for _, an := range r.Anomalies {
			pdf.MultiCell(0, 5, fmt.Sprintf("[%s] %s: %s", an.Severity, an.Ad, an.Message), "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(r.Historical) > 0 {
		sectionTitle(pdf, "History", pdfPrimary)
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range r.Historical {
			pdf.CellFormat(0, 5,
				fmt.Sprintf("%s: score %.1f, spend $%.0f, CPA $%.2f (%d ads)", p.Period, p.Score, p.Spend, p.CPA, p.Ads),
				"", 1, "L", false, 0, "")
		}
	}

	path := filepath.Join(dir, PDFFilename(r.Client, r.GeneratedAt))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing pdf report: %w", err)
	}
	return path, nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string, color [3]int) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func summaryLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(70, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

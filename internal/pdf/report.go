package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"siteworks/internal/models"
)

// Generator renders project paperwork. Interface so handlers can be tested
// without touching the filesystem.
type Generator interface {
	GenerateProjectSummary(p *models.Project, members []*models.ProjectMember) (string, error)
}

type ReportGenerator struct {
	RootDir string // storage root, e.g. "./files"
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

// GenerateProjectSummary writes a one-page project summary PDF and returns
// the absolute path of the file.
func (g *ReportGenerator) GenerateProjectSummary(p *models.Project, members []*models.ProjectMember) (string, error) {
	filename := fmt.Sprintf("project_%d_summary.pdf", p.ID)
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Project summary - %s", p.Name), true)
	doc.SetAuthor("Siteworks", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "PROJECT SUMMARY", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("No. SW-%06d, generated %s", p.ID, time.Now().Format("02.01.2006"))
	doc.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(doc)
	doc.Ln(3)

	g.sectionTitle(doc, "Project")
	g.kvLine(doc, "Name", p.Name)
	g.kvLine(doc, "Location", p.Location)
	g.kvLine(doc, "Created", p.CreatedAt.Format("02.01.2006"))
	doc.Ln(2)
	g.hr(doc)

	g.sectionTitle(doc, "Team")
	if len(members) == 0 {
		doc.SetFont("Helvetica", "I", 11)
		doc.CellFormat(0, 6, "No members yet", "", 1, "L", false, 0, "")
	}
	for _, m := range members {
		g.kvLine(doc, m.Name, fmt.Sprintf("%s (%s)", m.Role, m.Phone))
	}
	doc.Ln(2)
	g.hr(doc)

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return absPath, nil
}

func (g *ReportGenerator) sectionTitle(doc *gofpdf.Fpdf, s string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, s, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) kvLine(doc *gofpdf.Fpdf, key, val string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(50, 6, key, "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(doc *gofpdf.Fpdf) {
	doc.SetLineWidth(0.3)
	x := doc.GetX()
	y := doc.GetY()
	doc.Line(20, y, 190, y)
	doc.SetXY(x, y+2)
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

package reportrenderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"

	"boletimCampo/internal/domain/models"
	"boletimCampo/internal/pkg/logger/sl"
)

var (
	ErrTemplateLoad = errors.New("template could not be loaded")
	ErrRender       = errors.New("document could not be rendered")
)

// TemplateSource provides the blank form the report is drawn onto.
type TemplateSource interface {
	Template(ctx context.Context) ([]byte, error)
}

// FileTemplate reads the form from the local filesystem.
type FileTemplate string

func (f FileTemplate) Template(_ context.Context) ([]byte, error) {
	return os.ReadFile(string(f))
}

type Renderer struct {
	log      *slog.Logger
	template TemplateSource
	now      func() time.Time
	compress bool
}

type Option func(*Renderer)

// WithClock sets the time source used for the report number fallback.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithCompression toggles stream compression of the output document.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

func New(log *slog.Logger, template TemplateSource, opts ...Option) *Renderer {
	r := &Renderer{
		log:      log,
		template: template,
		now:      time.Now,
		compress: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render fills the template with the report and returns the PDF bytes.
// The report is not validated: missing fields are left blank.
func (r *Renderer) Render(ctx context.Context, report *models.FieldReport) ([]byte, error) {
	const op = "reportrenderer.Render"

	log := r.log.With(
		slog.String("op", op),
		slog.String("report_id", report.ID.String()),
	)

	tpl, err := r.template.Template(ctx)
	if err != nil {
		log.Error("failed to load template", sl.Err(err))

		return nil, fmt.Errorf("%s: %w: %w", op, ErrTemplateLoad, err)
	}

	annotations := Layout(report, r.now())

	out, err := r.draw(tpl, annotations)
	if err != nil {
		log.Error("failed to render report", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("report rendered",
		slog.Int("annotations", len(annotations)),
		slog.Int("bytes", len(out)),
	)

	return out, nil
}

// FileName is the download name of a rendered report.
func (r *Renderer) FileName(report *models.FieldReport) string {
	return FileName(report.Number, r.now())
}

func (r *Renderer) draw(tpl []byte, annotations []Annotation) (out []byte, err error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)

	w, h, page, err := importTemplate(pdf, tpl)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrRender, rec)
		}
	}()

	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	page.importer.UseImportedTemplate(pdf, page.id, 0, 0, w, h)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, a := range annotations {
		style := ""
		if a.Bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, a.Size)
		pdf.Text(a.X, a.Y, tr(a.Text))
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: %w", ErrRender, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	return buf.Bytes(), nil
}

type importedPage struct {
	importer *gofpdi.Importer
	id       int
}

// importTemplate loads page 1 of tpl. The importer panics on malformed
// input, which is reported as ErrTemplateLoad.
func importTemplate(pdf *fpdf.Fpdf, tpl []byte) (w, h float64, page importedPage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrTemplateLoad, rec)
		}
	}()

	if len(tpl) == 0 {
		return 0, 0, page, fmt.Errorf("%w: empty template", ErrTemplateLoad)
	}

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(tpl))
	id := imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")

	box, ok := imp.GetPageSizes()[1]["/MediaBox"]
	if !ok || box["w"] <= 0 || box["h"] <= 0 {
		return 0, 0, page, fmt.Errorf("%w: missing page size", ErrTemplateLoad)
	}

	return box["w"], box["h"], importedPage{importer: imp, id: id}, nil
}

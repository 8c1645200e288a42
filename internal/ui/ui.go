// Package ui provides the browser page to run the agents and switch
// between the research, summary and email outputs.
package ui

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/internal/app"
	"github.com/effective-security/agentflow/orchestrator"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/xlog"
	"github.com/labstack/echo/v4"
	"gitlab.com/golang-commonmark/markdown"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentflow/internal", "ui")

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Messages shown on the page
const (
	WarningEmptyInput = "Please enter a valid query!"
)

// Page is the model of the index template
type Page struct {
	UserInput   string
	Warning     string
	Error       string
	RunID       string
	Views       []View
	OutputTitle string
	Output      template.HTML
}

// View is a button switching the shown output
type View struct {
	Name     string
	Title    string
	Icon     string
	Selected bool
}

var views = []View{
	{Name: orchestrator.StageResearch, Title: "Research", Icon: "🔍"},
	{Name: orchestrator.StageSummary, Title: "Summary", Icon: "📝"},
	{Name: orchestrator.StageEmail, Title: "Email", Icon: "✉️"},
}

type handler struct {
	runner app.Runner
	md     *markdown.Markdown
}

// Register adds the UI routes
func Register(e *echo.Echo, runner app.Runner) {
	h := &handler{
		runner: runner,
		md:     markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Breaks(true)),
	}
	e.GET("/ui", h.index)
	e.POST("/ui", h.run)
}

func (h *handler) index(c echo.Context) error {
	page := &Page{}
	runID := c.QueryParam("run")
	if runID != "" {
		if err := h.loadRun(c.Request().Context(), page, runID, c.QueryParam("view")); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			page.Error = "Run not found: " + runID
			return render(c, http.StatusNotFound, page)
		}
	}
	return render(c, http.StatusOK, page)
}

func (h *handler) run(c echo.Context) error {
	input := c.FormValue("user_input")
	if strings.TrimSpace(input) == "" {
		return render(c, http.StatusOK, &Page{Warning: WarningEmptyInput})
	}

	run, err := h.runner.Run(c.Request().Context(), orchestrator.SourceUI, input)
	if err != nil {
		logger.ContextKV(c.Request().Context(), xlog.ERROR,
			"status", "run_failed",
			"err", err.Error())
		return render(c, http.StatusOK, &Page{UserInput: input, Error: err.Error()})
	}

	// research is shown first
	q := url.Values{}
	q.Set("run", run.ID)
	q.Set("view", orchestrator.StageResearch)
	return c.Redirect(http.StatusSeeOther, "/ui?"+q.Encode())
}

func (h *handler) loadRun(ctx context.Context, page *Page, runID, view string) error {
	run, err := h.runner.Store().Get(ctx, runID)
	if err != nil {
		return err
	}

	out, ok := run.Output(view)
	if !ok {
		view = orchestrator.StageResearch
		out = run.ResearchOutput
	}

	page.UserInput = run.UserInput
	page.RunID = run.ID
	for _, v := range views {
		v.Selected = v.Name == view
		if v.Selected {
			page.OutputTitle = v.Title + " Output"
		}
		page.Views = append(page.Views, v)
	}
	page.Output = template.HTML(h.md.RenderToString([]byte(out)))
	return nil
}

func render(c echo.Context, code int, page *Page) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		return errors.Wrap(err, "failed to render page")
	}
	return c.HTMLBlob(code, buf.Bytes())
}

package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/employee-roster/internal/adapters/memory"
	"github.com/csg33k/employee-roster/internal/adapters/pdf"
	"github.com/csg33k/employee-roster/internal/domain"
	"github.com/csg33k/employee-roster/internal/handlers"
	"github.com/csg33k/employee-roster/internal/roster"
)

type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, srv: srv, client: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, form url.Values) (*http.Response, *goquery.Document) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.srv.URL+path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	require.NoError(b.t, err)
	return resp, doc
}

func setup(t *testing.T, opts roster.Options) (*httptest.Server, *memory.Repository) {
	t.Helper()
	repo := memory.New()
	require.NoError(t, roster.Seed(context.Background(), repo))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := roster.New(repo, opts, log)
	h := handlers.New(repo, ctrl, pdf.New(), log)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv, repo
}

func rowNames(doc *goquery.Document) []string {
	return doc.Find("tbody tr").Map(func(_ int, s *goquery.Selection) string {
		return s.Find("td").First().Text()
	})
}

func stored(t *testing.T, repo *memory.Repository) []domain.Employee {
	t.Helper()
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	return list
}

func TestIndex(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	resp, doc := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Gerenciamento de Funcionários", doc.Find("title").Text())
	assert.Equal(t, []string{"João Silva", "Maria Santos"}, rowNames(doc))

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "roster_session" {
			session = c
		}
	}
	require.NotNil(t, session, "session cookie set on first visit")
}

func TestAddFlow(t *testing.T) {
	srv, repo := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	_, doc := b.do(http.MethodGet, "/employees/new", nil)
	assert.Equal(t, "Adicionar Funcionário", doc.Find("h2").Text())

	resp, doc := b.do(http.MethodPost, "/modal", url.Values{
		"name":     {"Ana"},
		"position": {"QA"},
		"skills":   {"Jest, Cypress"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rosterChanged", resp.Header.Get("HX-Trigger"))
	assert.Equal(t, 0, doc.Find("form").Length(), "dialog closed after submit")

	all := stored(t, repo)
	require.Len(t, all, 3)
	assert.Equal(t, domain.Employee{ID: 3, Name: "Ana", Position: "QA", Skills: []string{"Jest", "Cypress"}}, all[2])

	_, doc = b.do(http.MethodGet, "/employees", nil)
	assert.Equal(t, []string{"João Silva", "Maria Santos", "Ana"}, rowNames(doc))
	assert.Equal(t, "Jest, Cypress", doc.Find("#employee-3 td").Eq(2).Text())
}

func TestEditFlowWithAppendedSkill(t *testing.T) {
	srv, repo := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	_, doc := b.do(http.MethodGet, "/employees/1/edit", nil)
	assert.Equal(t, "Editar Funcionário", doc.Find("h2").Text())
	skills, _ := doc.Find("input[name='skills']").Attr("value")
	assert.Equal(t, "React, TypeScript, Node.js", skills)

	resp, doc := b.do(http.MethodPost, "/modal/skills", url.Values{
		"name":     {"João Silva"},
		"position": {"Desenvolvedor"},
		"skills":   {skills},
		"newSkill": {"GraphQL"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	skills, _ = doc.Find("input[name='skills']").Attr("value")
	assert.Equal(t, "React, TypeScript, Node.js, GraphQL", skills)
	pending, _ := doc.Find("input[name='newSkill']").Attr("value")
	assert.Empty(t, pending)
	assert.Equal(t, []string{"React", "TypeScript", "Node.js"}, stored(t, repo)[0].Skills, "not saved yet")

	resp, _ = b.do(http.MethodPost, "/modal", url.Values{
		"name":     {"João Silva"},
		"position": {"Desenvolvedor"},
		"skills":   {skills},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"React", "TypeScript", "Node.js", "GraphQL"}, stored(t, repo)[0].Skills)
}

func TestDismissDiscardsAppendedSkill(t *testing.T) {
	srv, repo := setup(t, roster.Options{})
	before := stored(t, repo)
	b := newBrowser(t, srv)

	b.do(http.MethodGet, "/employees/1/edit", nil)
	b.do(http.MethodPost, "/modal/skills", url.Values{
		"name":     {"João Silva"},
		"position": {"Desenvolvedor"},
		"skills":   {"React, TypeScript, Node.js"},
		"newSkill": {"GraphQL"},
	})
	resp, doc := b.do(http.MethodDelete, "/modal", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, doc.Find("form").Length())
	assert.Equal(t, before, stored(t, repo))

	// a stale submit after dismiss is refused
	resp, _ = b.do(http.MethodPost, "/modal", url.Values{"name": {"x"}, "position": {"y"}, "skills": {"z"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, before, stored(t, repo))
}

func TestAppendSkillInAddModeConflicts(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	b.do(http.MethodGet, "/employees/new", nil)
	resp, _ := b.do(http.MethodPost, "/modal/skills", url.Values{"newSkill": {"Go"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	srv, repo := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	resp, doc := b.do(http.MethodDelete, "/employees/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Maria Santos"}, rowNames(doc))

	// second delete of the same id is a silent no-op
	resp, doc = b.do(http.MethodDelete, "/employees/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Maria Santos"}, rowNames(doc))
	assert.Len(t, stored(t, repo), 1)
}

func TestEditUnknownAndMalformedIDs(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	resp, _ := b.do(http.MethodGet, "/employees/42/edit", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = b.do(http.MethodGet, "/employees/abc/edit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = b.do(http.MethodDelete, "/employees/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequireFieldsRendersInlineError(t *testing.T) {
	srv, repo := setup(t, roster.Options{RequireFields: true})
	b := newBrowser(t, srv)

	b.do(http.MethodGet, "/employees/new", nil)
	resp, doc := b.do(http.MethodPost, "/modal", url.Values{"name": {""}, "position": {"QA"}, "skills": {"Jest"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	field, ok := doc.Find(".error").Attr("data-field")
	require.True(t, ok)
	assert.Equal(t, "name", field)
	pos, _ := doc.Find("input[name='position']").Attr("value")
	assert.Equal(t, "QA", pos, "typed values are kept")
	assert.Len(t, stored(t, repo), 2)
}

func TestPendingSkillSurvivesFailedSubmit(t *testing.T) {
	srv, _ := setup(t, roster.Options{RequireFields: true})
	b := newBrowser(t, srv)

	b.do(http.MethodGet, "/employees/1/edit", nil)
	resp, doc := b.do(http.MethodPost, "/modal", url.Values{
		"name":     {""},
		"position": {"Desenvolvedor"},
		"skills":   {"React"},
		"newSkill": {"GraphQL"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	pending, _ := doc.Find("input[name='newSkill']").Attr("value")
	assert.Equal(t, "GraphQL", pending)
}

func TestPendingSkillIsRemembered(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	resp, _ := b.do(http.MethodPut, "/modal/skills/pending", url.Values{"newSkill": {"Go"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no edit dialog open")

	b.do(http.MethodGet, "/employees/1/edit", nil)
	resp, _ = b.do(http.MethodPut, "/modal/skills/pending", url.Values{"newSkill": {"Kotlin"}})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, doc := b.do(http.MethodGet, "/", nil)
	pending, _ := doc.Find("#modal input[name='newSkill']").Attr("value")
	assert.Equal(t, "Kotlin", pending)
}

func TestAppendSkillWithCommaIsRejected(t *testing.T) {
	srv, repo := setup(t, roster.Options{})
	b := newBrowser(t, srv)

	b.do(http.MethodGet, "/employees/1/edit", nil)
	resp, doc := b.do(http.MethodPost, "/modal/skills", url.Values{
		"name":     {"João Silva"},
		"position": {"Desenvolvedor"},
		"skills":   {"React"},
		"newSkill": {"Go, Rust"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	field, _ := doc.Find(".error").Attr("data-field")
	assert.Equal(t, "newSkill", field)
	skills, _ := doc.Find("input[name='skills']").Attr("value")
	assert.Equal(t, "React", skills)
	pending, _ := doc.Find("input[name='newSkill']").Attr("value")
	assert.Equal(t, "Go, Rust", pending)
	assert.Equal(t, []string{"React", "TypeScript", "Node.js"}, stored(t, repo)[0].Skills)
}

func TestSessionsHaveSeparateDialogs(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	alice := newBrowser(t, srv)
	bob := newBrowser(t, srv)

	alice.do(http.MethodGet, "/employees/1/edit", nil)
	_, doc := bob.do(http.MethodGet, "/", nil)
	assert.Equal(t, 0, doc.Find("#modal form").Length())

	_, doc = alice.do(http.MethodGet, "/", nil)
	assert.Equal(t, "Editar Funcionário", doc.Find("#modal h2").Text())
}

func TestExportPDF(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	resp, err := http.Get(srv.URL + "/employees/report.pdf")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "funcionarios_")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

type failingRepo struct{ memory.Repository }

func (f *failingRepo) List(context.Context) ([]domain.Employee, error) {
	return nil, errors.New("boom")
}

func TestRepositoryErrorIs500(t *testing.T) {
	repo := &failingRepo{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handlers.New(repo, roster.New(repo, roster.Options{}, log), pdf.New(), log)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := setup(t, roster.Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
}

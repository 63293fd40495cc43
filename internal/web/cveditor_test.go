package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCVEditor_LoadsStoredCV(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)

	rec := s.get("/admin/cv", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="personal.title" value="Peter - Software Engineer"`)
	assert.Contains(t, body, `name="experience.0.highlights.0.items.1"`)
	assert.Contains(t, body, `name="skills.1.items" value="Docker, PostgreSQL, SQLite"`)
	assert.Contains(t, body, `value="remove:education:0"`)
}

// Enter in a text field submits through the form's first button, which must
// be the plain apply action rather than a confirmed removal.
func TestCVEditor_ImplicitSubmitApplies(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)

	body := s.get("/admin/cv", cookie).Body.String()
	form := body[strings.Index(body, `<form method="post" action="/admin/cv"`):]
	first := form[strings.Index(form, "<button"):]
	first = first[:strings.Index(first, ">")]
	assert.Contains(t, first, `name="action" value=""`)
	assert.NotContains(t, first, "data-confirm")

	rec := s.post("/admin/cv", url.Values{"action": {""}, "personal.title": {"Changed"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="personal.title" value="Changed"`)
	assert.Contains(t, rec.Body.String(), `value="remove:education:0"`, "nothing removed")
}

func TestCVEditor_AddAndRemoveEntries(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)
	s.get("/admin/cv", cookie)

	rec := s.post("/admin/cv", url.Values{"action": {"add:experience"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="experience.1.role" value=""`)
	assert.Contains(t, body, `name="experience.1.highlights.0.items.0"`, "new entries start with one group and item")

	rec = s.post("/admin/cv", url.Values{"action": {"remove:experience:1"}}, cookie)
	assert.Contains(t, rec.Body.String(), `name="experience.1.role"`, "removal without confirmation is ignored")

	rec = s.post("/admin/cv", url.Values{"action": {"remove:experience:1"}, "confirm": {"true"}}, cookie)
	assert.NotContains(t, rec.Body.String(), `name="experience.1.role"`)
	assert.Contains(t, rec.Body.String(), `name="experience.0.role"`)
}

func TestCVEditor_HighlightActions(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)

	rec := s.post("/admin/cv", url.Values{"action": {"add-item:0:0"}}, cookie)
	assert.Contains(t, rec.Body.String(), `name="experience.0.highlights.0.items.2"`)

	rec = s.post("/admin/cv", url.Values{"action": {"add-group:0"}}, cookie)
	assert.Contains(t, rec.Body.String(), `name="experience.0.highlights.1.title"`)

	rec = s.post("/admin/cv", url.Values{"action": {"remove-item:0:0:2"}, "confirm": {"true"}}, cookie)
	assert.NotContains(t, rec.Body.String(), `name="experience.0.highlights.0.items.2"`)

	rec = s.post("/admin/cv", url.Values{"action": {"remove-group:0:1"}, "confirm": {"true"}}, cookie)
	assert.NotContains(t, rec.Body.String(), `name="experience.0.highlights.1.title"`)
}

func TestCVEditor_FieldEditsPersistOnlyOnSave(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)
	s.get("/admin/cv", cookie)

	rec := s.post("/admin/cv", url.Values{"summary": {"Draft summary"}, "action": {"add:skills"}}, cookie)
	assert.Contains(t, rec.Body.String(), "Draft summary")

	doc, err := s.client.CV.Get(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "Draft summary", doc.Summary, "nothing is stored before save")

	rec = s.post("/admin/cv", url.Values{"summary": {"Saved summary"}, "action": {"save"}}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CV successfully updated!")
	assert.Contains(t, rec.Body.String(), "data-autohide=")

	doc, err = s.client.CV.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Saved summary", doc.Summary)
	assert.Len(t, doc.Skills, 3)

	assert.Contains(t, s.get("/cv", nil).Body.String(), "Saved summary")
}

func TestCVEditor_ReloadDiscardsDraft(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)

	s.post("/admin/cv", url.Values{"summary": {"Unsaved"}}, cookie)
	assert.Contains(t, s.get("/admin/cv", cookie).Body.String(), "Unsaved")

	body := s.get("/admin/cv?reload=1", cookie).Body.String()
	assert.NotContains(t, body, "Unsaved")
	assert.Contains(t, body, "Full-stack engineer")
}

func TestCVEditor_BadAction(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)

	rec := s.post("/admin/cv", url.Values{"action": {"explode"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown action")

	rec = s.post("/admin/cv", url.Values{"action": {"remove:experience:9"}, "confirm": {"true"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of range")
}

func TestCVEditor_SessionEndDropsDraft(t *testing.T) {
	s := setupTest(t)
	cookie := s.login(t)
	s.post("/admin/cv", url.Values{"summary": {"Unsaved"}}, cookie)

	s.post("/admin/logout", nil, cookie)
	cookie = s.login(t)

	assert.NotContains(t, s.get("/admin/cv", cookie).Body.String(), "Unsaved")
}

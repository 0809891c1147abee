package folio

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/docstore"
	"github.com/eringen/folio/editor"
)

// fieldPrefix marks editor inputs in posted forms: "f.name", "f.2.title".
const fieldPrefix = "f."

// adminWorkspace returns the workspace when the session is the admin's.
func (a *App) adminWorkspace(c echo.Context) (*workspace, error) {
	ws, err := a.signedInWorkspace(c)
	if err != nil {
		return nil, err
	}
	if ws == nil || !ws.gate.IsAdmin() {
		return nil, editor.ErrNotAdmin
	}
	return ws, nil
}

// applyFormFields copies every posted editor input into the draft, so that
// buttons other than Save keep what was typed.
func applyFormFields(c echo.Context, ctrl *editor.Controller) error {
	form, err := c.FormParams()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(form))
	for k := range form {
		if strings.HasPrefix(k, fieldPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ctrl.SetField(strings.TrimPrefix(k, fieldPrefix), form.Get(k)); err != nil {
			return err
		}
	}
	return nil
}

func editorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, editor.ErrNotAdmin):
		return http.StatusForbidden, "Sign in as the admin to edit."
	case errors.Is(err, editor.ErrSaveInFlight):
		return http.StatusConflict, "A save is already in progress."
	case errors.Is(err, editor.ErrNotEditing):
		return http.StatusConflict, "No section is open for editing."
	case errors.Is(err, docstore.ErrUnavailable):
		return http.StatusServiceUnavailable, "Saving failed: the content store is unavailable. Your draft is kept."
	case errors.Is(err, editor.ErrNotApplicable),
		errors.Is(err, content.ErrUnknownSection),
		errors.Is(err, content.ErrUnknownField),
		errors.Is(err, content.ErrIndexOutOfRange):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, ""
}

// editorResponse answers an editor action: the section partial for htmx
// requests, a redirect back to the section otherwise. Failures render the
// page with an inline message.
func (a *App) editorResponse(c echo.Context, sec content.Section, err error) error {
	if err == nil {
		if isHTMX(c) {
			return a.renderSection(c, http.StatusOK, sec, pageState{})
		}
		target := "/"
		if sec != "" {
			target += "#" + string(sec)
		}
		return c.Redirect(http.StatusSeeOther, target)
	}
	code, msg := editorStatus(err)
	if code == http.StatusInternalServerError {
		return err
	}
	if code >= 500 {
		c.Logger().Errorf("editor: %v", err)
	}
	return a.renderSection(c, code, sec, pageState{message: msg})
}

func (a *App) renderSection(c echo.Context, code int, sec content.Section, st pageState) error {
	p, err := a.page(c, st)
	if err != nil {
		return err
	}
	if isHTMX(c) && sec.Valid() {
		return RenderStatus(c, code, a.Views.Section(p, sec))
	}
	return RenderStatus(c, code, a.Views.Home(p))
}

// openSection returns the section open in ws, or "" when none is.
func openSection(ws *workspace) content.Section {
	sec, _ := ws.editor.Section()
	return sec
}

func (a *App) handleEditOpen(c echo.Context) error {
	sec, err := content.ParseSection(c.Param("section"))
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, sec, err)
	}
	return a.editorResponse(c, sec, ws.editor.Open(sec))
}

// handleDraftField applies a single live edit. htmx requests get an empty
// response so the input being typed into is not replaced.
func (a *App) handleDraftField(c echo.Context) error {
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	err = ws.editor.SetField(c.FormValue("field"), c.FormValue("value"))
	if err == nil && isHTMX(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return a.editorResponse(c, openSection(ws), err)
}

func (a *App) handleDraftAddProject(c echo.Context) error {
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	err = applyFormFields(c, ws.editor)
	if err == nil {
		err = ws.editor.AddProject()
	}
	return a.editorResponse(c, openSection(ws), err)
}

func (a *App) handleDraftRemove(c echo.Context) error {
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid index")
	}
	err = applyFormFields(c, ws.editor)
	if err == nil {
		err = ws.editor.RemoveEntry(idx)
	}
	return a.editorResponse(c, openSection(ws), err)
}

func (a *App) handleDraftCancel(c echo.Context) error {
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	sec := openSection(ws)
	return a.editorResponse(c, sec, ws.editor.Cancel())
}

func (a *App) handleDraftSave(c echo.Context) error {
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	sec := openSection(ws)
	err = applyFormFields(c, ws.editor)
	if err == nil {
		_, err = ws.editor.Save(c.Request().Context())
	}
	if err == nil {
		c.Logger().Infof("saved section %s", sec)
	}
	return a.editorResponse(c, sec, err)
}

package masterdata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	h := NewHandler(newTestService())
	e := echo.New()
	return h, e
}

func TestHandler_CreateLookup(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Community Health Centre"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/master/hospital-types", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues("hospital-types")

	if err := h.CreateLookup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var row Lookup
	json.Unmarshal(rec.Body.Bytes(), &row)
	if row.Name != "Community Health Centre" {
		t.Errorf("expected name to round-trip, got %s", row.Name)
	}
	if row.ID == uuid.Nil {
		t.Error("expected generated id")
	}
}

func TestHandler_CreateLookup_UnknownKind(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues("no-such-type")

	err := h.CreateLookup(c)
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_CreateLookup_MissingName(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues("work-roles")

	if err := h.CreateLookup(c); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestHandler_CreateLookup_DuplicateConflict(t *testing.T) {
	h, e := newTestHandler()

	post := func() (*echo.HTTPError, int) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Govt"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("kind")
		c.SetParamValues("employers")
		err := h.CreateLookup(c)
		if err == nil {
			return nil, rec.Code
		}
		httpErr, _ := err.(*echo.HTTPError)
		return httpErr, rec.Code
	}

	if httpErr, code := post(); httpErr != nil || code != http.StatusCreated {
		t.Fatalf("first create should succeed, got err=%v code=%d", httpErr, code)
	}
	httpErr, _ := post()
	if httpErr == nil || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %v", httpErr)
	}
}

func TestHandler_GetLookup_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind", "id")
	c.SetParamValues("specialities", uuid.New().String())

	err := h.GetLookup(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetLookup_InvalidID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind", "id")
	c.SetParamValues("specialities", "not-a-uuid")

	if err := h.GetLookup(c); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestHandler_ListLookups(t *testing.T) {
	h, e := newTestHandler()

	for _, name := range []string{"ANM", "GNM", "MO"} {
		row := &Lookup{Name: name}
		h.svc.CreateLookup(nil, KindWorkRole, row)
	}

	req := httptest.NewRequest(http.MethodGet, "/?limit=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues("work-roles")

	if err := h.ListLookups(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Total   int  `json:"total"`
		HasMore bool `json:"has_more"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 3 {
		t.Errorf("expected total 3, got %d", resp.Total)
	}
	if !resp.HasMore {
		t.Error("expected has_more with limit 2 of 3")
	}
}

func TestHandler_DeleteLookup(t *testing.T) {
	h, e := newTestHandler()

	row := &Lookup{Name: "ToDelete"}
	h.svc.CreateLookup(nil, KindEmpanelment, row)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind", "id")
	c.SetParamValues("empanelments", row.ID.String())

	if err := h.DeleteLookup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_CreateMedicalCondition(t *testing.T) {
	h, e := newTestHandler()

	body := `{"icd":"I10","name":"Essential hypertension","head_name":"Circulatory"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-conditions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateMedicalCondition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var mc MedicalCondition
	json.Unmarshal(rec.Body.Bytes(), &mc)
	if mc.HeadName == nil || *mc.HeadName != "Circulatory" {
		t.Error("expected head_name to round-trip")
	}
}

func TestHandler_UpdateMedicalCondition(t *testing.T) {
	h, e := newTestHandler()

	mc := &MedicalCondition{ICD: "E11", Name: "Type 2 diabetes"}
	h.svc.CreateMedicalCondition(nil, mc)

	body := `{"icd":"E11","name":"Type 2 diabetes mellitus"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(mc.ID.String())

	if err := h.UpdateMedicalCondition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := h.svc.GetMedicalCondition(nil, mc.ID)
	if got.Name != "Type 2 diabetes mellitus" {
		t.Errorf("expected updated name, got %s", got.Name)
	}
}

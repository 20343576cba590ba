package hospital

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo, []uuid.UUID) {
	t.Helper()
	svc, _, _ := newTestService()
	msuIDs := seedMSUs(t, svc, "SNCU", "Labour Room")
	h := NewHandler(svc)
	e := echo.New()
	return h, e, msuIDs
}

func postHospital(t *testing.T, h *Handler, e *echo.Echo, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.CreateHospital(c)
}

func TestHandler_CreateHospital(t *testing.T) {
	h, e, msuIDs := newTestHandler(t)

	body := `{"hospital_name":"DH Patna","hospital_id":"HOSP-001","status":"ACTIVE",` +
		`"medical_service_unit":["` + msuIDs[0].String() + `","` + msuIDs[1].String() + `"]}`
	rec, err := postHospital(t, h, e, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if resp.HospitalID != "HOSP-001" {
		t.Errorf("expected HOSP-001, got %s", resp.HospitalID)
	}
	if len(resp.MedicalServiceUnit) != 2 {
		t.Errorf("expected 2 associated msus in the response, got %d", len(resp.MedicalServiceUnit))
	}
}

func TestHandler_CreateHospital_EmptyMSUList(t *testing.T) {
	h, e, _ := newTestHandler(t)

	rec, err := postHospital(t, h, e, `{"hospital_name":"DH Gaya","hospital_id":"HOSP-002","status":"ACTIVE","medical_service_unit":[]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var resp hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.MedicalServiceUnit) != 0 {
		t.Errorf("expected empty association set, got %v", resp.MedicalServiceUnit)
	}
}

func TestHandler_CreateHospital_UnknownMSU(t *testing.T) {
	h, e, _ := newTestHandler(t)

	body := `{"hospital_name":"DH Gaya","medical_service_unit":["` + uuid.New().String() + `"]}`
	_, err := postHospital(t, h, e, body)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown msu, got %v", err)
	}
}

func TestHandler_CreateHospital_UnknownStateRef(t *testing.T) {
	svc, hospitals, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	knownState := uuid.New()
	hospitals.knownStates[knownState] = true

	// A bad referenced id is a malformed request, not a conflict.
	body := `{"hospital_name":"DH Gaya","state_id":"` + uuid.New().String() + `"}`
	_, err := postHospital(t, h, e, body)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown state_id, got %v", err)
	}

	rec, err := postHospital(t, h, e, `{"hospital_name":"DH Gaya","state_id":"`+knownState.String()+`"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for known state_id, got %d", rec.Code)
	}
}

func TestHandler_CreateHospital_DuplicateCode(t *testing.T) {
	h, e, _ := newTestHandler(t)

	if _, err := postHospital(t, h, e, `{"hospital_name":"A","hospital_id":"HOSP-X"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := postHospital(t, h, e, `{"hospital_name":"B","hospital_id":"HOSP-X"}`)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_GetHospital_EchoesFields(t *testing.T) {
	h, e, _ := newTestHandler(t)

	rec, err := postHospital(t, h, e, `{"hospital_name":"DH Patna","hospital_id":"HOSP-003","status":"ACTIVE","setting":"Rural"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	if err := h.GetHospital(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.HospitalName != "DH Patna" || got.HospitalID != "HOSP-003" || got.Status != "ACTIVE" {
		t.Errorf("fields did not round-trip: %+v", got)
	}
	if got.Setting == nil || *got.Setting != "Rural" {
		t.Error("expected setting to round-trip")
	}
}

func TestHandler_PatchHospital_StatusOnly(t *testing.T) {
	h, e, _ := newTestHandler(t)

	rec, err := postHospital(t, h, e, `{"hospital_name":"DH Patna","hospital_id":"HOSP-004","status":"ACTIVE"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"INACTIVE"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	if err := h.PatchHospital(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Read it back: status flipped, everything else untouched.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())
	if err := h.GetHospital(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != "INACTIVE" {
		t.Errorf("expected INACTIVE, got %s", got.Status)
	}
	if got.HospitalName != "DH Patna" || got.HospitalID != "HOSP-004" {
		t.Errorf("other fields must be unchanged: %+v", got)
	}
}

func TestHandler_UpdateMSULink(t *testing.T) {
	h, e, msuIDs := newTestHandler(t)

	body := `{"hospital_name":"DH Patna","medical_service_unit":["` + msuIDs[0].String() + `"]}`
	rec, err := postHospital(t, h, e, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"bed_count":8,"msu_services":"Newborn care"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "msu_id")
	c.SetParamValues(created.ID.String(), msuIDs[0].String())

	if err := h.UpdateMSULink(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var link HospitalMedicalServiceUnit
	json.Unmarshal(rec.Body.Bytes(), &link)
	if link.BedCount == nil || *link.BedCount != 8 {
		t.Error("expected bed_count on the association row")
	}
}

func TestHandler_UpdateMSULink_NotAssociated(t *testing.T) {
	h, e, msuIDs := newTestHandler(t)

	rec, err := postHospital(t, h, e, `{"hospital_name":"DH Patna"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"bed_count":8}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec2 := httptest.NewRecorder()
	c := e.NewContext(req, rec2)
	c.SetParamNames("id", "msu_id")
	c.SetParamValues(created.ID.String(), msuIDs[0].String())

	uerr := h.UpdateMSULink(c)
	httpErr, ok := uerr.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unassociated msu, got %v", uerr)
	}
}

func TestHandler_DeleteHospital(t *testing.T) {
	h, e, _ := newTestHandler(t)

	rec, err := postHospital(t, h, e, `{"hospital_name":"ToDelete"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created hospitalResponse
	json.Unmarshal(rec.Body.Bytes(), &created)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	if err := h.DeleteHospital(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_ListHospitals_StatusFilter(t *testing.T) {
	h, e, _ := newTestHandler(t)

	postHospital(t, h, e, `{"hospital_name":"A","status":"ACTIVE"}`)
	postHospital(t, h, e, `{"hospital_name":"B","status":"INACTIVE"}`)

	req := httptest.NewRequest(http.MethodGet, "/?status=INACTIVE", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListHospitals(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected 1 inactive hospital, got %d", resp.Total)
	}
}

func TestHandler_CreateMSU(t *testing.T) {
	h, e, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/medical-service-units",
		strings.NewReader(`{"msu_name":"Blood Bank","msu_department":"Pathology"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateMSU(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var m MedicalServiceUnit
	json.Unmarshal(rec.Body.Bytes(), &m)
	if m.Status != StatusActive {
		t.Errorf("expected default ACTIVE status, got %s", m.Status)
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DanielSoaresRocha/Proffy-Backend/internal/dto"
	"github.com/DanielSoaresRocha/Proffy-Backend/internal/service"
	"github.com/DanielSoaresRocha/Proffy-Backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock ClassService ──

type mockClassService struct {
	searchResult []dto.ClassResponse
	searchErr    error
	lastSearch   *dto.ClassSearchRequest
	registerErr  error
	lastRegister *dto.CreateClassRequest
	getResult    *dto.ClassDetailResponse
	getErr       error
}

func (m *mockClassService) Search(_ context.Context, req *dto.ClassSearchRequest) ([]dto.ClassResponse, error) {
	m.lastSearch = req
	return m.searchResult, m.searchErr
}
func (m *mockClassService) Register(_ context.Context, req *dto.CreateClassRequest) error {
	m.lastRegister = req
	return m.registerErr
}
func (m *mockClassService) GetByID(_ context.Context, _ string) (*dto.ClassDetailResponse, error) {
	return m.getResult, m.getErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	ics      []byte
	filename string
	err      error
}

func (m *mockExportService) ExportClasses(_ context.Context, _ *dto.ClassSearchRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportCalendar(_ context.Context, _ string) ([]byte, string, error) {
	return m.ics, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseError(w *httptest.ResponseRecorder) response.ErrorBody {
	var body response.ErrorBody
	json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func classRouter(h *ClassHandler) *gin.Engine {
	r := gin.New()
	r.GET("/classes", h.ListClasses)
	r.POST("/classes", h.CreateClass)
	r.GET("/classes/:id", h.GetClass)
	return r
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Ana",
		"avatar":   "http://a/x.png",
		"bio":      "Math tutor",
		"whatsapp": "5599",
		"subject":  "Math",
		"cost":     50,
		"schedule": []map[string]interface{}{
			{"week_day": 1, "from": "08:00", "to": "10:00"},
			{"week_day": 3, "from": "14:00", "to": "16:00"},
		},
	}
}

// ═══════════════════════════════════════════════════════════
// ClassHandler Tests
// ═══════════════════════════════════════════════════════════

func TestClassHandler_ListClasses_Success(t *testing.T) {
	mock := &mockClassService{searchResult: []dto.ClassResponse{
		{ID: "c1", Subject: "Math", Cost: 50, TutorID: "t1", Name: "Ana", Whatsapp: "5599"},
	}}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/classes?week_day=1&subject=Math&time=09:00", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got []dto.ClassResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("响应应为 JSON 数组: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ana" || got[0].Subject != "Math" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if mock.lastSearch == nil || mock.lastSearch.WeekDay != "1" || mock.lastSearch.Time != "09:00" {
		t.Errorf("查询参数未正确绑定: %+v", mock.lastSearch)
	}
}

func TestClassHandler_ListClasses_EmptyArray(t *testing.T) {
	mock := &mockClassService{searchResult: []dto.ClassResponse{}}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes?week_day=0&subject=Art&time=12:00", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected [], got %s", w.Body.String())
	}
}

func TestClassHandler_ListClasses_MissingFilters(t *testing.T) {
	mock := &mockClassService{searchErr: service.ErrMissingFilter}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes?week_day=1&subject=Math", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if body := parseError(w); body.Error != "Missing filters to search classes" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
}

func TestClassHandler_ListClasses_InvalidFilters(t *testing.T) {
	mock := &mockClassService{searchErr: service.ErrInvalidFilter}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes?week_day=9&subject=Math&time=9h", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if body := parseError(w); body.Error != "Invalid filters to search classes" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
}

func TestClassHandler_ListClasses_InternalError(t *testing.T) {
	mock := &mockClassService{searchErr: errors.New("db down")}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes?week_day=1&subject=Math&time=09:00", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("内部错误细节不应暴露给客户端")
	}
}

func TestClassHandler_CreateClass_Success(t *testing.T) {
	mock := &mockClassService{}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/classes", jsonBody(validCreateBody()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %s", w.Body.String())
	}
	if mock.lastRegister == nil || len(mock.lastRegister.Schedule) != 2 {
		t.Fatalf("请求体未正确绑定: %+v", mock.lastRegister)
	}
	if *mock.lastRegister.Schedule[0].WeekDay != 1 || mock.lastRegister.Schedule[1].From != "14:00" {
		t.Errorf("时段绑定错误: %+v", mock.lastRegister.Schedule)
	}
}

func TestClassHandler_CreateClass_ZeroValuesAccepted(t *testing.T) {
	mock := &mockClassService{}
	r := classRouter(NewClassHandler(mock))

	body := validCreateBody()
	body["cost"] = 0
	body["schedule"] = []map[string]interface{}{{"week_day": 0, "from": "08:00", "to": "09:00"}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/classes", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("cost=0 与 week_day=0 应被接受，got %d: %s", w.Code, w.Body.String())
	}
}

func TestClassHandler_CreateClass_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b map[string]interface{})
	}{
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }},
		{"missing cost", func(b map[string]interface{}) { delete(b, "cost") }},
		{"empty schedule", func(b map[string]interface{}) { b["schedule"] = []map[string]interface{}{} }},
		{"slot without week_day", func(b map[string]interface{}) {
			b["schedule"] = []map[string]interface{}{{"from": "08:00", "to": "10:00"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockClassService{}
			r := classRouter(NewClassHandler(mock))

			body := validCreateBody()
			tt.mutate(body)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/classes", jsonBody(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if got := parseError(w).Error; got != "Unexpected error while creating new class" {
				t.Errorf("unexpected error message: %q", got)
			}
			if mock.lastRegister != nil {
				t.Error("绑定失败时不应调用 Register")
			}
		})
	}
}

func TestClassHandler_CreateClass_BadJSON(t *testing.T) {
	r := classRouter(NewClassHandler(&mockClassService{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/classes", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClassHandler_CreateClass_ServiceFailure(t *testing.T) {
	mock := &mockClassService{registerErr: service.ErrCreateClass}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/classes", jsonBody(validCreateBody()))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if got := parseError(w).Error; got != "Unexpected error while creating new class" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestClassHandler_GetClass_Success(t *testing.T) {
	mock := &mockClassService{getResult: &dto.ClassDetailResponse{
		ID:       "c1",
		Subject:  "Math",
		Tutor:    &dto.TutorBrief{ID: "t1", Name: "Ana"},
		Schedule: []dto.ScheduleResponse{{ID: "s1", WeekDay: 1, From: "08:00", To: "10:00"}},
	}}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/c1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got dto.ClassDetailResponse
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Tutor == nil || got.Tutor.Name != "Ana" || len(got.Schedule) != 1 {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestClassHandler_GetClass_NotFound(t *testing.T) {
	mock := &mockClassService{getErr: service.ErrClassNotFound}
	r := classRouter(NewClassHandler(mock))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/unknown", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if got := parseError(w).Error; got != "Class not found" {
		t.Errorf("unexpected error message: %q", got)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportClasses_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "课程_周一_0900.xlsx"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/classes/export", h.ExportClasses)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/export?week_day=1&subject=Math&time=09:00", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_ExportClasses_FilenamePercentEncoded(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "classes_Data Science_周一_0900.xlsx"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/classes/export", h.ExportClasses)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/export?week_day=1&subject=Data+Science&time=09:00", nil))

	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "classes_Data%20Science_") {
		t.Errorf("空格应编码为 %%20: %s", cd)
	}
	if strings.Contains(cd, "+") {
		t.Errorf("filename* 不应包含 '+': %s", cd)
	}
	if !strings.Contains(cd, "%E5%91%A8%E4%B8%80") {
		t.Errorf("非 ASCII 字符应百分号编码: %s", cd)
	}
}

func TestExportHandler_ExportClasses_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing filter", service.ErrMissingFilter, http.StatusBadRequest},
		{"invalid filter", service.ErrInvalidFilter, http.StatusBadRequest},
		{"no classes", service.ErrExportNoClasses, http.StatusNotFound},
		{"generate fail", service.ErrExportGenerateFail, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExportHandler(&mockExportService{err: tt.err})
			r := gin.New()
			r.GET("/classes/export", h.ExportClasses)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/export", nil))

			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestExportHandler_ExportCalendar(t *testing.T) {
	mock := &mockExportService{ics: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), filename: "Math.ics"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/classes/:id/calendar.ics", h.ExportCalendar)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/c1/calendar.ics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
	if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_ExportCalendar_NotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrClassNotFound})

	r := gin.New()
	r.GET("/classes/:id/calendar.ics", h.ExportCalendar)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/classes/c1/calendar.ics", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

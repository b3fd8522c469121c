package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-sync-backend/internal/app"
	"student-sync-backend/internal/config"
	"student-sync-backend/internal/models"
	"student-sync-backend/internal/repository/inmem"
	"student-sync-backend/internal/services/studentsync"
	"student-sync-backend/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultCapacity:  40,
		AcademicYear:     "2026",
		PlaceholderDOB:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		FeeGrades:        []string{"Pre-KG", "KG", "Prep"},
		CurrencyCode:     "ETB",
		CurrencySymbol:   "Br",
		CurrencyDecimals: 2,
	}
}

func newTestRouter(store *inmem.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, app.NewServices(store, studentsync.NewMemoryRunStore(), testConfig()))
	return r
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sync/runs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(inmem.NewStore()), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSyncRun_DefaultsToDryRun(t *testing.T) {
	store := inmem.NewStore()
	r := newTestRouter(store)

	workbook := testutil.Workbook(t, []string{"GRADE 5 - A"}, []string{"John Smith"}, []string{"Jane Doe"})
	w := do(r, uploadRequest(t, nil, map[string][]byte{"roster.xlsx": workbook}))
	require.Equal(t, http.StatusAccepted, w.Code)

	var started struct {
		RunID  string `json:"run_id"`
		Status string `json:"status"`
	}
	decode(t, w, &started)
	assert.Equal(t, studentsync.RunStatusProcessing, started.Status)

	var run studentsync.Run
	require.Eventually(t, func() bool {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/sync/runs/"+started.RunID, nil))
		if w.Code != http.StatusOK {
			return false
		}
		decode(t, w, &run)
		return run.Status == studentsync.RunStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	require.NotNil(t, run.Result)
	assert.True(t, run.Result.DryRun)
	assert.Equal(t, 2, run.Result.StudentsToCreate)
	assert.Equal(t, 1, run.Result.ClassesToCreate)
	assert.Empty(t, store.Students())
}

func TestSyncRun_Apply(t *testing.T) {
	store := inmem.NewStore()
	r := newTestRouter(store)

	workbook := testutil.Workbook(t, []string{"GRADE 5 - A"}, []string{"John Smith"})
	w := do(r, uploadRequest(t, map[string]string{"dry_run": "false"}, map[string][]byte{"roster.xlsx": workbook}))
	require.Equal(t, http.StatusAccepted, w.Code)

	assert.Eventually(t, func() bool { return len(store.Students()) == 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestSyncRun_BadRequests(t *testing.T) {
	r := newTestRouter(inmem.NewStore())

	w := do(r, uploadRequest(t, nil, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no files selected")

	w = do(r, uploadRequest(t, map[string]string{"dry_run": "maybe"}, map[string][]byte{"a.xlsx": []byte("x")}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/sync/runs/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, httptest.NewRequest(http.MethodGet, "/api/sync/runs/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func seedDuplicates(store *inmem.Store) (older, newer models.Student) {
	dob := time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)
	base := models.Student{FirstName: "Abel", FatherName: "Bekele", GrandfatherName: "Tadesse", MotherName: "Hana", DateOfBirth: &dob, Phone: "0911"}
	older, newer = base, base
	older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return store.AddStudent(older), store.AddStudent(newer)
}

func TestDuplicates_ListAndResolve(t *testing.T) {
	store := inmem.NewStore()
	older, newer := seedDuplicates(store)
	r := newTestRouter(store)

	w := do(r, httptest.NewRequest(http.MethodGet, "/api/students/duplicates", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Count  int `json:"count"`
		Groups []struct {
			Keep models.Student `json:"keep"`
		} `json:"groups"`
	}
	decode(t, w, &listed)
	assert.Equal(t, 1, listed.Count)
	assert.Equal(t, older.ID, listed.Groups[0].Keep.ID)

	w = do(r, httptest.NewRequest(http.MethodPost, "/api/students/duplicates/resolve", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		DeletedIDs []uuid.UUID `json:"deleted_ids"`
	}
	decode(t, w, &res)
	assert.Equal(t, []uuid.UUID{newer.ID}, res.DeletedIDs)
	require.Len(t, store.Students(), 1)
}

func TestBatchDelete(t *testing.T) {
	store := inmem.NewStore()
	older, _ := seedDuplicates(store)
	r := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/students/batch-delete", strings.NewReader(`{"student_ids":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/students/batch-delete", strings.NewReader(`{"student_ids":["`+older.ID.String()+`"]}`))
	req.Header.Set("Content-Type", "application/json")
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":1`)
	assert.Len(t, store.Students(), 1)
	assert.Len(t, store.DeletionLogs(), 1)
}

func TestPaymentsUpdate(t *testing.T) {
	store := inmem.NewStore()
	store.SetTuition("Pre-KG", 800)
	store.SetTuition("KG", 1000)
	store.SetTuition("Prep", 1200)
	store.AddStudent(models.Student{FirstName: "Liya", FatherName: "Kebede", GradeLevel: "KG"})
	r := newTestRouter(store)

	w := do(r, httptest.NewRequest(http.MethodPost, "/api/payments/update", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Created int    `json:"created"`
		Summary string `json:"summary"`
	}
	decode(t, w, &res)
	assert.Equal(t, 1, res.Created)
	assert.Contains(t, res.Summary, "Br 1,000.00")
	assert.Len(t, store.FeeRecords(), 1)
}

package entry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/session"
)

func testMux(t *testing.T) (*http.ServeMux, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(
		[]string{"Xiaofeng Hou", "Becky Chen"},
		[]string{"客户A", "客户B"},
		nil,
	)
	mux := http.NewServeMux()
	NewBatchHandler(store, nil).Register(mux)
	NewSplitHandler(store, SplitDefaults{Total: 5000, Size: 1000}, nil).Register(mux)
	return mux, store
}

func do(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestBatchFlow(t *testing.T) {
	mux, store := testMux(t)

	rr := do(t, mux, "PUT", "/api/batch/client",
		`{"planner":"Becky Chen","client":"客户A"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, mux, "POST", "/api/batch/rows",
		`{"planner":"Becky Chen","cad":"CAD-001","qty":10,"arrival_date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var added order.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.NotEmpty(t, added.ID)

	rr = do(t, mux, "PUT", "/api/batch/rows",
		`{"planner":"Becky Chen","id":"`+added.ID+`","cad":"CAD-001","qty":15,"arrival_date":"2025-06-02"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, mux, "GET", "/api/batch?planner=Becky%20Chen", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var b session.Batch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b))
	assert.Equal(t, "客户A", b.Client)
	require.Len(t, b.Entries, 1)
	assert.Equal(t, 15, b.Entries[0].Qty)

	rr = do(t, mux, "POST", "/api/batch/submit", `{"planner":"Becky Chen"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"submitted":1}`, rr.Body.String())

	sub, err := store.Submitted("Becky Chen")
	require.NoError(t, err)
	require.Len(t, sub, 1)
	assert.Equal(t, "客户A", sub[0].Client)
}

func TestBatchRowDelete(t *testing.T) {
	mux, _ := testMux(t)
	rr := do(t, mux, "POST", "/api/batch/rows",
		`{"planner":"Becky Chen","cad":"CAD-001","qty":1,"arrival_date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var added order.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))

	rr = do(t, mux, "DELETE", "/api/batch/rows?planner=Becky%20Chen&id="+added.ID, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, mux, "DELETE", "/api/batch/rows?planner=Becky%20Chen&id="+added.ID, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBatchSubmitValidation(t *testing.T) {
	mux, _ := testMux(t)
	// No client selected yet.
	rr := do(t, mux, "POST", "/api/batch/rows",
		`{"planner":"Becky Chen","cad":"CAD-001","qty":1,"arrival_date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, mux, "POST", "/api/batch/submit", `{"planner":"Becky Chen"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "no client selected")
}

func TestBatchUnknownClient(t *testing.T) {
	mux, _ := testMux(t)
	rr := do(t, mux, "PUT", "/api/batch/client",
		`{"planner":"Becky Chen","client":"客户X"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBatchUnknownPlanner(t *testing.T) {
	mux, _ := testMux(t)
	rr := do(t, mux, "GET", "/api/batch?planner=nobody", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBatchBadJSON(t *testing.T) {
	mux, _ := testMux(t)
	rr := do(t, mux, "POST", "/api/batch/rows", `{"planner":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBatchMethodNotAllowed(t *testing.T) {
	mux, _ := testMux(t)
	rr := do(t, mux, "DELETE", "/api/batch/submit", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

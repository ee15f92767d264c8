package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/idea-validator/internal/a2a"
	"github.com/BerylCAtieno/idea-validator/internal/analysis"
	"github.com/BerylCAtieno/idea-validator/internal/config"
	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// gatedEvaluator blocks every call until release is closed.
type gatedEvaluator struct {
	release chan struct{}
	result  *models.EvaluationResult
	err     error
	ideas   chan string
}

func newGatedEvaluator(result *models.EvaluationResult, err error) *gatedEvaluator {
	return &gatedEvaluator{release: make(chan struct{}), result: result, err: err, ideas: make(chan string, 4)}
}

func (g *gatedEvaluator) Evaluate(ctx context.Context, idea string) (*models.EvaluationResult, error) {
	g.ideas <- idea
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.result, g.err
}

func sampleResult() *models.EvaluationResult {
	return &models.EvaluationResult{
		StructuredIdea: models.StructuredIdea{TargetUser: "城市养狗人士"},
		Research:       models.ResearchData{Competitors: []string{"Rover"}},
		Dimensions: []models.DimensionScore{
			{Name: "需求真实性", Score: 90, Reason: "刚需"},
			{Name: "市场规模", Score: 60, Reason: "一般"},
			{Name: "竞争壁垒", Score: 30, Reason: "较弱"},
		},
		TotalScore:         55,
		Grade:              models.GradePotential,
		Summary:            "需要打磨",
		OptimizationAdvice: []string{"缩小切口"},
	}
}

type testServer struct {
	router  *gin.Engine
	session *analysis.Session
}

func newTestServer(t *testing.T, ev analysis.Evaluator) *testServer {
	t.Helper()
	log := logger.NewNoOpLogger()
	session := analysis.NewSession(ev, analysis.Config{
		ResearchingDelay: time.Hour,
		ScoringDelay:     2 * time.Hour,
		RequestTimeout:   5 * time.Second,
	}, log)
	t.Cleanup(session.Close)

	router, err := NewRouter(config.ServerConfig{
		AllowedOrigins: []string{"http://localhost:8080"},
	}, NewHandler(session, log), a2a.NewHandler(session, log), log)
	require.NoError(t, err)

	return &testServer{router: router, session: session}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) postForm(idea string) *httptest.ResponseRecorder {
	form := url.Values{"idea": {idea}}
	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func waitSettled(t *testing.T, run *analysis.Run) analysis.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := run.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func TestCreateEvaluation_Accepted(t *testing.T) {
	ev := newGatedEvaluator(sampleResult(), nil)
	srv := newTestServer(t, ev)

	w := srv.postJSON("/api/evaluations", `{"idea":"兽医上门遛狗"}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp submitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, analysis.StatusAnalyzing, resp.Status)

	close(ev.release)
	snap := waitSettled(t, srv.session.Current())
	assert.Equal(t, resp.RunID, snap.RunID)
	assert.Equal(t, analysis.StatusComplete, snap.Status)
}

func TestCreateEvaluation_KeepsIdeaAsTyped(t *testing.T) {
	ev := newGatedEvaluator(sampleResult(), nil)
	srv := newTestServer(t, ev)

	w := srv.postJSON("/api/evaluations", `{"idea":"  <b></b> price<cost for retailers "}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "<b></b> price<cost for retailers", <-ev.ideas)

	body := srv.get("/").Body.String()
	assert.Contains(t, body, "&lt;b&gt;&lt;/b&gt; price&lt;cost for retailers")
	assert.NotContains(t, body, "<b></b>")

	close(ev.release)
	snap := waitSettled(t, srv.session.Current())
	assert.Equal(t, "<b></b> price<cost for retailers", snap.Idea)
}

func TestCreateEvaluation_Rejections(t *testing.T) {
	ev := newGatedEvaluator(sampleResult(), nil)
	srv := newTestServer(t, ev)

	w := srv.postJSON("/api/evaluations", `{"idea":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), analysis.ErrEmptyInput.Error())

	w = srv.postJSON("/api/evaluations", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusAccepted, srv.postJSON("/api/evaluations", `{"idea":"第一个"}`).Code)

	w = srv.postJSON("/api/evaluations", `{"idea":"第二个"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), analysis.ErrBusy.Error())

	close(ev.release)
	snap := waitSettled(t, srv.session.Current())
	assert.Equal(t, "第一个", snap.Idea)
}

func TestCreateEvaluation_AfterClose(t *testing.T) {
	srv := newTestServer(t, newGatedEvaluator(sampleResult(), nil))
	srv.session.Close()

	w := srv.postJSON("/api/evaluations", `{"idea":"遛狗"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCurrentEvaluation(t *testing.T) {
	ev := newGatedEvaluator(sampleResult(), nil)
	srv := newTestServer(t, ev)

	w := srv.get("/api/evaluations/current")
	require.Equal(t, http.StatusOK, w.Code)
	var snap analysis.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, analysis.StatusIdle, snap.Status)
	assert.True(t, snap.CanSubmit)

	run, err := srv.session.Submit("遛狗")
	require.NoError(t, err)
	close(ev.release)
	waitSettled(t, run)

	w = srv.get("/api/evaluations/current")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, analysis.StatusComplete, snap.Status)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 55, snap.Result.TotalScore)
	assert.Equal(t, models.GradePotential, snap.Result.Grade)
}

func TestSubmitForm_RedirectsHome(t *testing.T) {
	ev := newGatedEvaluator(sampleResult(), nil)
	srv := newTestServer(t, ev)

	w := srv.postForm("兽医上门遛狗")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, analysis.StatusAnalyzing, srv.session.Snapshot().Status)

	// A second submit while busy is ignored.
	w = srv.postForm("另一个点子")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "兽医上门遛狗", srv.session.Snapshot().Idea)

	close(ev.release)
	waitSettled(t, srv.session.Current())
}

func TestSubmitForm_EmptyIsIgnored(t *testing.T) {
	srv := newTestServer(t, newGatedEvaluator(sampleResult(), nil))

	w := srv.postForm("  ")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, analysis.StatusIdle, srv.session.Snapshot().Status)
	assert.Nil(t, srv.session.Current())
}

func TestPage_FollowsStatus(t *testing.T) {
	ev := newGatedEvaluator(sampleResult(), nil)
	srv := newTestServer(t, ev)

	w := srv.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.NotContains(t, w.Body.String(), `id="results"`)

	run, err := srv.session.Submit("兽医上门遛狗")
	require.NoError(t, err)

	body := srv.get("/").Body.String()
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "正在解构点子...")
	assert.Contains(t, body, "兽医上门遛狗")

	close(ev.release)
	waitSettled(t, run)

	body = srv.get("/").Body.String()
	assert.Contains(t, body, `id="results"`)
	assert.Contains(t, body, "🚀 潜力股 (需打磨)")
	assert.NotContains(t, body, `role="alert"`)
}

func TestPage_ShowsErrorBanner(t *testing.T) {
	ev := newGatedEvaluator(nil, errors.New("upstream down"))
	srv := newTestServer(t, ev)

	run, err := srv.session.Submit("兽医上门遛狗")
	require.NoError(t, err)
	close(ev.release)
	waitSettled(t, run)

	body := srv.get("/").Body.String()
	assert.Contains(t, body, analysis.FailureMessage)
	assert.NotContains(t, body, `id="results"`)
	assert.Contains(t, body, "兽医上门遛狗")
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, newGatedEvaluator(sampleResult(), nil))

	w := srv.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = srv.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAPI_CORS(t *testing.T) {
	srv := newTestServer(t, newGatedEvaluator(sampleResult(), nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/evaluations", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := srv.do(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/evaluations/current", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = srv.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_MountsAgentEndpoints(t *testing.T) {
	srv := newTestServer(t, newGatedEvaluator(sampleResult(), nil))

	w := srv.get("/.well-known/agent.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/a2a/validator")

	w = srv.postJSON("/a2a/validator", `{"jsonrpc":"1.0","id":"x","method":"message/send"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":-32600`)
}

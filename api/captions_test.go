package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/capstudio/captionforge/api"
	"github.com/capstudio/captionforge/config"
	"github.com/capstudio/captionforge/curate"
	"github.com/capstudio/captionforge/domain"
	"github.com/capstudio/captionforge/fallback"
	"github.com/capstudio/captionforge/llm"
	"github.com/capstudio/captionforge/service"
	"github.com/capstudio/captionforge/tests/helpers"
)

func newTestServer(t *testing.T, upstreamURL, apiKey string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		OpenAIAPIKey:  apiKey,
		OpenAIBaseURL: upstreamURL,
		Model:         "gpt",
		JudgeModel:    "gpt",
		LLMTimeout:    time.Second,
	}

	st := helpers.NewTestSQLiteStore(t)
	client := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout)
	curator := curate.New(curate.Config{}, nil)
	svc := service.New(client, curator, fallback.New(), st, cfg)

	e := echo.New()
	api.NewHandler(svc, st, client, cfg).RegisterRoutes(e)
	return e
}

// fakeUpstream serves a fixed chat completion whose content is the given
// JSON payload.
func fakeUpstream(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := llm.ChatCompletionResponse{
			Model: "gpt",
			Choices: []llm.Choice{
				{Index: 0, Message: &llm.ChatMessage{Role: llm.RoleAssistant, Content: content}},
			},
		}
		b, _ := json.Marshal(resp)
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGenerateCaptionsMissingCredential(t *testing.T) {
	e := newTestServer(t, "http://example.com", "")

	req := httptest.NewRequest(http.MethodPost, "/v1/captions", bytes.NewBufferString(`{"product":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing upstream credential", body["error"])
}

func TestGenerateCaptionsSuccess(t *testing.T) {
	upstream := fakeUpstream(t, `{"captions":["great coop, honestly"],"hashtags":["#chickens","#chickens","coops"]}`)
	e := newTestServer(t, upstream.URL, "test-key")

	body := `{"product":"chicken coop","benefits":["affordable"],"count":2,"hashCount":6}`
	req := httptest.NewRequest(http.MethodPost, "/v1/captions", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out domain.CuratedOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, domain.SourceOpenAI, out.From)
	assert.Equal(t, []string{"great coop, honestly"}, out.Captions)
	assert.NotContains(t, out.Hashtags, "#chickens")
	assert.Contains(t, out.Hashtags, "chickens")
	assert.NotEmpty(t, out.Combined)
}

func TestGenerateCaptionsUpstreamFailureDegradesTo200(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	t.Cleanup(upstream.Close)
	e := newTestServer(t, upstream.URL, "test-key")

	req := httptest.NewRequest(http.MethodPost, "/v1/captions", bytes.NewBufferString(`{"product":"chicken coop"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out domain.CuratedOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, domain.SourceFallback, out.From)
	assert.NotEmpty(t, out.Captions)
	assert.NotEmpty(t, out.Hashtags)
	assert.NotEmpty(t, out.Combined)
}

func TestGenerateCaptionsMalformedBodyDegrades(t *testing.T) {
	upstream := fakeUpstream(t, `{"captions":["still fine"],"hashtags":["ok"]}`)
	e := newTestServer(t, upstream.URL, "test-key")

	req := httptest.NewRequest(http.MethodPost, "/v1/captions", bytes.NewBufferString(`{{{not json`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out domain.CuratedOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Captions)
}

func TestGenerateCaptionsJudged(t *testing.T) {
	replies := []string{
		`{"variants":[{"captions":["candidate a"],"hashtags":["alpha"]},{"captions":["candidate b"],"hashtags":["beta"]}]}`,
		`{"winner_index":0,"polished":{"captions":["candidate a, tightened"],"hashtags":["alpha"]}}`,
	}
	call := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := replies[call]
		if call < len(replies)-1 {
			call++
		}
		resp := llm.ChatCompletionResponse{
			Model: "gpt",
			Choices: []llm.Choice{
				{Index: 0, Message: &llm.ChatMessage{Role: llm.RoleAssistant, Content: content}},
			},
		}
		b, _ := json.Marshal(resp)
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	}))
	t.Cleanup(upstream.Close)
	e := newTestServer(t, upstream.URL, "test-key")

	req := httptest.NewRequest(http.MethodPost, "/v1/captions/judged", bytes.NewBufferString(`{"product":"chicken coop"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var out domain.CuratedOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, domain.SourceOpenAI, out.From)
	if assert.NotNil(t, out.WinnerIndex) {
		assert.Equal(t, 0, *out.WinnerIndex)
	}
	assert.Len(t, out.HashtagSets, 2)
}

func TestCaptionsMethodNotAllowed(t *testing.T) {
	e := newTestServer(t, "http://example.com", "test-key")

	req := httptest.NewRequest(http.MethodGet, "/v1/captions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, "http://example.com", "test-key")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

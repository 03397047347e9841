package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/REHANAMD/InternGenie/internal/auth"
	"github.com/REHANAMD/InternGenie/internal/chatbot"
	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/insights"
	"github.com/REHANAMD/InternGenie/internal/recommender"
	"github.com/REHANAMD/InternGenie/internal/storage"

	"github.com/labstack/echo/v4"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Auth.JWTSecret = "routes-test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.OTPTTL = 10 * time.Minute
	cfg.Auth.LoginRateLimit = 600
	cfg.Auth.LoginRateBurst = 100
	cfg.Recommender.SkillWeight = 0.5
	cfg.Recommender.ExperienceWeight = 0.2
	cfg.Recommender.EducationWeight = 0.15
	cfg.Recommender.LocationWeight = 0.15
	cfg.Recommender.PreferredBonus = 0.7
	cfg.Recommender.EducationPartial = 0.5
	cfg.Recommender.LocationPartial = 0.6
	cfg.Recommender.LocationBaseline = 0.3
	cfg.Recommender.TopN = 5
	cfg.Recommender.CacheTTL = 15 * time.Minute
	cfg.Chatbot.Enabled = true
	cfg.Chatbot.RetrainThreshold = 10
	return cfg
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := testConfig()
	engine := recommender.NewEngine(store, cfg)

	e := echo.New()
	SetupRoutes(e, Deps{
		Config:   cfg,
		Store:    store,
		Auth:     auth.NewManager(store, cfg),
		Engine:   engine,
		Bot:      chatbot.NewService(store, engine, nil, cfg),
		Insights: insights.NewService(store),
	})
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func registerAndLogin(t *testing.T, e *echo.Echo) string {
	t.Helper()

	payload := `{"email":"dev@example.com","password":"secret123","name":"Dev One",
		"education":"Bachelor's","skills":"Python, SQL","location":"Mumbai","experience_years":1}`
	code, body := doJSON(t, e, http.MethodPost, "/auth/register", "", payload)
	if code != http.StatusCreated {
		t.Fatalf("register returned %d: %v", code, body)
	}

	code, body = doJSON(t, e, http.MethodPost, "/auth/login", "",
		`{"email":"dev@example.com","password":"secret123"}`)
	if code != http.StatusOK {
		t.Fatalf("login returned %d: %v", code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response carries no token")
	}
	return token
}

func TestRegisterLoginRecommendFlow(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)

	code, body := doJSON(t, e, http.MethodPost, "/seed-data", token, "")
	if code != http.StatusOK {
		t.Fatalf("seed returned %d: %v", code, body)
	}
	if inserted, _ := body["inserted"].(float64); inserted == 0 {
		t.Fatal("seeding an empty catalog inserted nothing")
	}

	code, body = doJSON(t, e, http.MethodGet, "/recommendations", token, "")
	if code != http.StatusOK {
		t.Fatalf("recommendations returned %d: %v", code, body)
	}
	recs, _ := body["recommendations"].([]interface{})
	if len(recs) == 0 {
		t.Fatal("expected recommendations for a seeded catalog")
	}
	first, _ := recs[0].(map[string]interface{})
	if _, ok := first["score"]; !ok {
		t.Fatalf("recommendation carries no score: %v", first)
	}
}

func TestRecommendationsRequireAuth(t *testing.T) {
	e := newTestServer(t)

	code, body := doJSON(t, e, http.MethodGet, "/recommendations", "", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request returned %d: %v", code, body)
	}
}

func TestInvalidLoginRejected(t *testing.T) {
	e := newTestServer(t)
	registerAndLogin(t, e)

	code, body := doJSON(t, e, http.MethodPost, "/auth/login", "",
		`{"email":"dev@example.com","password":"wrong-password"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("bad password returned %d: %v", code, body)
	}
}

func TestApplyAndWithdrawFlow(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)

	if code, body := doJSON(t, e, http.MethodPost, "/seed-data", token, ""); code != http.StatusOK {
		t.Fatalf("seed returned %d: %v", code, body)
	}

	code, body := doJSON(t, e, http.MethodPost, "/internships/1/apply", token, "")
	if code != http.StatusCreated {
		t.Fatalf("apply returned %d: %v", code, body)
	}
	appID, _ := body["application_id"].(float64)
	if appID == 0 {
		t.Fatal("apply response carries no application id")
	}

	code, body = doJSON(t, e, http.MethodGet, "/internships/1/applied", token, "")
	if code != http.StatusOK {
		t.Fatalf("applied check returned %d: %v", code, body)
	}
	if applied, _ := body["applied"].(bool); !applied {
		t.Fatal("applied flag should be true after applying")
	}

	code, body = doJSON(t, e, http.MethodPost, "/internships/1/apply", token, "")
	if code != http.StatusConflict {
		t.Fatalf("duplicate apply returned %d: %v", code, body)
	}

	path := fmt.Sprintf("/applications/%d/withdraw", int(appID))
	code, body = doJSON(t, e, http.MethodPost, path, token, "")
	if code != http.StatusOK {
		t.Fatalf("withdraw returned %d: %v", code, body)
	}

	code, body = doJSON(t, e, http.MethodGet, "/internships/1/applied", token, "")
	if code != http.StatusOK {
		t.Fatalf("applied check returned %d: %v", code, body)
	}
	if applied, _ := body["applied"].(bool); applied {
		t.Fatal("applied flag should clear after withdrawal")
	}
}

func TestApplyRemovesPostingFromRecommendations(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)

	if code, body := doJSON(t, e, http.MethodPost, "/seed-data", token, ""); code != http.StatusOK {
		t.Fatalf("seed returned %d: %v", code, body)
	}

	code, body := doJSON(t, e, http.MethodGet, "/recommendations", token, "")
	if code != http.StatusOK {
		t.Fatalf("recommendations returned %d: %v", code, body)
	}
	recs, _ := body["recommendations"].([]interface{})
	if len(recs) == 0 {
		t.Fatal("expected recommendations before applying")
	}
	top, _ := recs[0].(map[string]interface{})
	topID := int(top["internship_id"].(float64))

	path := fmt.Sprintf("/internships/%d/apply", topID)
	if code, body := doJSON(t, e, http.MethodPost, path, token, ""); code != http.StatusCreated {
		t.Fatalf("apply returned %d: %v", code, body)
	}

	code, body = doJSON(t, e, http.MethodGet, "/recommendations?use_cache=false", token, "")
	if code != http.StatusOK {
		t.Fatalf("recommendations returned %d: %v", code, body)
	}
	recs, _ = body["recommendations"].([]interface{})
	for _, r := range recs {
		rec, _ := r.(map[string]interface{})
		if int(rec["internship_id"].(float64)) == topID {
			t.Fatalf("applied posting %d still present in recommendations", topID)
		}
	}
}

func TestTokenRefresh(t *testing.T) {
	e := newTestServer(t)
	token := registerAndLogin(t, e)

	code, body := doJSON(t, e, http.MethodPost, "/auth/refresh", token, "")
	if code != http.StatusOK {
		t.Fatalf("refresh returned %d: %v", code, body)
	}
	fresh, _ := body["token"].(string)
	if fresh == "" {
		t.Fatal("refresh response carries no token")
	}

	code, body = doJSON(t, e, http.MethodGet, "/candidates/profile", fresh, "")
	if code != http.StatusOK {
		t.Fatalf("profile with refreshed token returned %d: %v", code, body)
	}
}

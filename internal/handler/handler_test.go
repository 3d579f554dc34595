package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/auth"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/model"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/repository"
	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/service"
)

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	authSvc := service.NewAuthService(store.Accounts(), store.Profiles(),
		auth.NewTokens("handler-secret", time.Hour), auth.NewMemoryRevoker()).WithPasswordCost(bcrypt.MinCost)
	tours := service.NewTourService(store.Tours())
	profiles := service.NewProfileService(store.Profiles())
	h := New(Services{
		Auth:     authSvc,
		Tours:    tours,
		Bookings: service.NewBookingService(store.Tours(), store.Bookings(), store.Profiles(), nil),
		Profiles: profiles,
		Catalog:  service.NewCatalogService(profiles, tours),
	}, false)

	return &testServer{t: t, router: NewRouter(h, RouterOptions{
		AllowOrigins: []string{"http://localhost:5173"},
		CSRFKey:      []byte("0123456789abcdef0123456789abcdef"),
	})}
}

// do sends a JSON request, authenticated with token when set.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.StorageKey, Value: token})
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// raw sends a request with no body or content type, the way plain API
// clients issue DELETE and sign-out calls.
func (s *testServer) raw(method, path string, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func (s *testServer) signUp(email string) (string, string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/signup", "", model.SignUpRequest{Email: email, Password: "secret123", Name: "Guide"})
	if rec.Code != http.StatusCreated {
		s.t.Fatalf("signup: %d %s", rec.Code, rec.Body)
	}
	var resp sessionResponse
	decode(s.t, rec, &resp)
	return resp.Session.UserID, resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func futureDay(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(model.DateLayout)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("guide@example.com")

	rec := s.do(http.MethodPost, "/auth/signin", "", model.SignInRequest{Email: "guide@example.com", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/auth/signin", "", model.SignInRequest{Email: "guide@example.com", Password: "secret123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("signin: %d %s", rec.Code, rec.Body)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.StorageKey {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("session cookie not set: %+v", rec.Result().Cookies())
	}

	if rec := s.do(http.MethodGet, "/auth/session", cookie.Value, nil); rec.Code != http.StatusOK {
		t.Errorf("session: %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/auth/signout", cookie.Value, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("signout: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/auth/session", cookie.Value, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("session after signout: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/auth/session", token, nil); rec.Code != http.StatusOK {
		t.Errorf("the signup session should be unaffected: %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/auth/signup", "", model.SignUpRequest{Email: "bad", Password: "1"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid signup: %d", rec.Code)
	}
	var errResp model.ErrorResponse
	decode(t, rec, &errResp)
	if errResp.Fields["email"] == "" || errResp.Fields["password"] == "" || errResp.Fields["name"] == "" {
		t.Errorf("missing field errors: %+v", errResp)
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/tours", "/bookings", "/profiles/me"} {
		if rec := s.do(http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without session: %d", path, rec.Code)
		}
	}
	if rec := s.do(http.MethodGet, "/tours", "not-a-token", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: %d", rec.Code)
	}
}

func TestCityWalkOverHTTP(t *testing.T) {
	s := newTestServer(t)
	guideID, token := s.signUp("guide@example.com")

	rec := s.do(http.MethodPost, "/tours", token, model.TourInput{Title: "City Walk", Description: "Historic **centre**", Price: 100, DurationHours: 3})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tour: %d %s", rec.Code, rec.Body)
	}
	var tour model.Tour
	decode(t, rec, &tour)

	rec = s.do(http.MethodPost, "/tours/"+tour.ID+"/dates", token, model.DateInput{Date: futureDay(10), StartTime: "09:00", SpotsAvailable: 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add date: %d %s", rec.Code, rec.Body)
	}
	var date model.AvailableDate
	decode(t, rec, &date)

	rec = s.do(http.MethodGet, "/catalog/"+guideID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog: %d %s", rec.Code, rec.Body)
	}
	var cat model.Catalog
	decode(t, rec, &cat)
	if len(cat.Tours) != 1 || !strings.Contains(cat.Tours[0].DescriptionHTML, "<strong>centre</strong>") {
		t.Errorf("unexpected catalog: %+v", cat)
	}

	booking := model.BookingRequest{
		TourID: tour.ID, AvailableDateID: date.ID,
		Customer:     model.Customer{Name: "Ana", Email: "ana@example.com"},
		Participants: 2,
	}
	rec = s.do(http.MethodPost, "/bookings", "", booking)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", rec.Code, rec.Body)
	}
	var b model.Booking
	decode(t, rec, &b)
	if b.Status != model.StatusPending {
		t.Fatalf("status = %s", b.Status)
	}

	rec = s.do(http.MethodGet, "/bookings?status=pending", token, nil)
	var list []model.BookingWithDetails
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Tour.Title != "City Walk" || list[0].EstimatedTotal != 200 {
		t.Errorf("unexpected bookings: %+v", list)
	}

	_, otherToken := s.signUp("other@example.com")
	if rec := s.do(http.MethodPatch, "/bookings/"+b.ID+"/status", otherToken, model.StatusRequest{Status: model.StatusConfirmed}); rec.Code != http.StatusForbidden {
		t.Errorf("other guide confirm: %d", rec.Code)
	}

	rec = s.do(http.MethodPatch, "/bookings/"+b.ID+"/status", token, model.StatusRequest{Status: model.StatusConfirmed})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", rec.Code, rec.Body)
	}
	rec = s.do(http.MethodPatch, "/bookings/"+b.ID+"/status", token, model.StatusRequest{Status: model.StatusCancelled})
	if rec.Code != http.StatusConflict {
		t.Errorf("cancel after confirm: %d %s", rec.Code, rec.Body)
	}

	if rec := s.do(http.MethodDelete, "/dates/"+date.ID, token, nil); rec.Code != http.StatusConflict {
		t.Errorf("remove date in use: %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/tours/"+tour.ID, token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete tour: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/tours/"+tour.ID, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted tour: %d", rec.Code)
	}
}

func TestCreateTourValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("guide@example.com")

	rec := s.do(http.MethodPost, "/tours", token, model.TourInput{Title: "", Price: -5})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d", rec.Code)
	}
	var resp model.ErrorResponse
	decode(t, rec, &resp)
	for _, f := range []string{"title", "price", "duration_hours"} {
		if resp.Fields[f] == "" {
			t.Errorf("missing error for %s: %+v", f, resp.Fields)
		}
	}

	rec = s.do(http.MethodPost, "/tours", token, map[string]any{"title": "x", "unknown": true})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/tours?active=maybe", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad active filter: %d", rec.Code)
	}
}

func TestPublicBookingErrors(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("guide@example.com")
	rec := s.do(http.MethodPost, "/tours", token, model.TourInput{Title: "City Walk", Price: 100, DurationHours: 3})
	var tour model.Tour
	decode(t, rec, &tour)
	rec = s.do(http.MethodPost, "/tours/"+tour.ID+"/dates", token, model.DateInput{Date: futureDay(3), StartTime: "10:00", SpotsAvailable: 1})
	var date model.AvailableDate
	decode(t, rec, &date)

	req := model.BookingRequest{
		TourID: tour.ID, AvailableDateID: date.ID,
		Customer:     model.Customer{Name: "Ana", Email: "not-an-email"},
		Participants: 1,
	}
	if rec := s.do(http.MethodPost, "/bookings", "", req); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid email: %d", rec.Code)
	}
	req.Email = "ana@example.com"
	req.Participants = 2
	if rec := s.do(http.MethodPost, "/bookings", "", req); rec.Code != http.StatusConflict {
		t.Errorf("over capacity: %d", rec.Code)
	}
	req.TourID = "missing"
	if rec := s.do(http.MethodPost, "/bookings", "", req); rec.Code != http.StatusNotFound {
		t.Errorf("unknown tour: %d", rec.Code)
	}
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("guide@example.com")

	rec := s.do(http.MethodPut, "/profiles/me", token, model.ProfileInput{
		Name: "Ricardo Mendes", Location: "Rio de Janeiro, RJ", Languages: []string{"Português", "Inglês"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}
	rec = s.do(http.MethodGet, "/profiles/me", token, nil)
	var p model.Profile
	decode(t, rec, &p)
	if p.Name != "Ricardo Mendes" || len(p.Languages) != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestCSRF(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("csrf@example.com")
	session := &http.Cookie{Name: auth.StorageKey, Value: token}

	rec := s.raw(http.MethodPost, "/auth/signout", nil, session)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cookie signout without token: %d %s", rec.Code, rec.Body)
	}

	rec = s.raw(http.MethodGet, "/auth/csrf", nil)
	var body map[string]string
	decode(t, rec, &body)
	if body["csrf_token"] == "" {
		t.Fatalf("no csrf token: %s", rec.Body)
	}
	cookies := append(rec.Result().Cookies(), session)

	rec = s.raw(http.MethodPost, "/auth/signout", http.Header{"X-Csrf-Token": {body["csrf_token"]}}, cookies...)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cookie signout with token: %d %s", rec.Code, rec.Body)
	}
}

func TestBearerRequestsSkipCSRF(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signUp("bearer@example.com")

	rec := s.do(http.MethodPost, "/tours", token, model.TourInput{Title: "Harbour Walk", Price: 50, DurationHours: 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var tour model.Tour
	decode(t, rec, &tour)

	rec = s.do(http.MethodPost, "/tours/"+tour.ID+"/dates", token, model.DateInput{Date: futureDay(3), StartTime: "09:00", SpotsAvailable: 4})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add date: %d %s", rec.Code, rec.Body)
	}
	var date model.AvailableDate
	decode(t, rec, &date)

	if rec := s.raw(http.MethodDelete, "/dates/"+date.ID, bearer(token)); rec.Code != http.StatusNoContent {
		t.Errorf("bearer remove date: %d %s", rec.Code, rec.Body)
	}
	if rec := s.raw(http.MethodDelete, "/tours/"+tour.ID, bearer(token)); rec.Code != http.StatusNoContent {
		t.Errorf("bearer delete tour: %d %s", rec.Code, rec.Body)
	}
	if rec := s.raw(http.MethodPost, "/auth/signout", bearer(token)); rec.Code != http.StatusNoContent {
		t.Errorf("bearer signout: %d %s", rec.Code, rec.Body)
	}
	if rec := s.raw(http.MethodGet, "/tours", bearer(token)); rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked token still accepted: %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)
	preflight := func(origin string) *httptest.ResponseRecorder {
		return s.raw(http.MethodOptions, "/bookings", http.Header{
			"Origin":                        {origin},
			"Access-Control-Request-Method": {"POST"},
		})
	}

	rec := preflight("http://localhost:5173")
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow credentials = %q", got)
	}

	rec = preflight("https://evil.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("foreign origin given credentials: %q", got)
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/catalog/x", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("wildcard must not allow credentials, got %q", got)
	}
}

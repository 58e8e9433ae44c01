package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/handlers"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const secret = "test-secret"

type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	staff   models.Staff
	variant models.ServiceVariant
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	staff := store.SaveStaff(models.Staff{LocationID: uuid.New(), Name: "Ana", Active: true})
	require.NoError(t, store.ReplaceWorkingHours(context.Background(), staff.ID, []models.WorkingHours{
		{Weekday: 1, StartTime: "08:00", EndTime: "18:00"},
	}))
	variant := store.SaveServiceVariant(models.ServiceVariant{Name: "Cut", DurationMinutes: 60, PriceCents: 500, Active: true})

	dispatcher := audit.NewDispatcher(zerolog.Nop())
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	r := gin.New()
	RegisterRoutes(r, Dependencies{
		Config: &config.Config{
			JWTSecret:           secret,
			RateLimitRPS:        1000,
			RateLimitBurst:      1000,
			SlotIntervalDefault: 30,
		},
		Store:  store,
		Audit:  dispatcher,
		Clock:  timezone.FixedClock{At: time.Date(2028, 12, 31, 12, 0, 0, 0, time.UTC)},
		Logger: zerolog.Nop(),
		Checks: map[string]handlers.Pinger{"store": store},
	})

	return &testAPI{t: t, router: r, staff: staff, variant: variant}
}

func (a *testAPI) token(role string, user uuid.UUID) string {
	a.t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.String(),
		"role": role,
	}).SignedString([]byte(secret))
	require.NoError(a.t, err)
	return s
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) bookingBody(start, end string) gin.H {
	return gin.H{
		"location_id":        a.staff.LocationID,
		"staff_id":           a.staff.ID,
		"service_variant_id": a.variant.ID,
		"start_time":         start,
		"end_time":           end,
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func TestHealth(t *testing.T) {
	api := newAPI(t)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)

	w := api.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)
}

func TestAPIRequiresToken(t *testing.T) {
	api := newAPI(t)
	w := api.do(http.MethodGet, "/api/me/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingLifecycle(t *testing.T) {
	api := newAPI(t)
	customer := uuid.New()
	tok := api.token(middleware.RoleCustomer, customer)

	w := api.do(http.MethodPost, "/api/bookings", tok, api.bookingBody("2029-01-01T10:00:00Z", "2029-01-01T11:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[struct {
		ID              uuid.UUID `json:"id"`
		CustomerID      uuid.UUID `json:"customer_id"`
		Status          string    `json:"status"`
		TotalPriceCents int64     `json:"total_price_cents"`
	}](t, w)
	assert.Equal(t, customer, created.CustomerID)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, int64(500), created.TotalPriceCents)

	// overlapping request
	w = api.do(http.MethodPost, "/api/bookings", tok, api.bookingBody("2029-01-01T10:30:00Z", "2029-01-01T11:30:00Z"))
	require.Equal(t, http.StatusConflict, w.Code)
	errBody := decode[errorBody](t, w)
	assert.Equal(t, "booking_unavailable", errBody.Code)
	assert.Equal(t, "conflicting booking", errBody.Message)

	// the evaluator agrees
	w = api.do(http.MethodGet, "/api/availability?staff_id="+api.staff.ID.String()+
		"&start=2029-01-01T10:30:00Z&end=2029-01-01T11:30:00Z", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false,"reason":"conflicting booking"}`, w.Body.String())

	// other customers cannot see it
	stranger := api.token(middleware.RoleCustomer, uuid.New())
	w = api.do(http.MethodGet, "/api/bookings/"+created.ID.String(), stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// status changes are staff-side
	w = api.do(http.MethodPatch, "/api/bookings/"+created.ID.String()+"/status", tok, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	provider := api.token(middleware.RoleProvider, uuid.New())
	w = api.do(http.MethodPatch, "/api/bookings/"+created.ID.String()+"/status", provider, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	w = api.do(http.MethodPut, "/api/bookings/"+created.ID.String(), tok, gin.H{"start_time": "2029-01-01T14:00:00Z", "end_time": "2029-01-01T15:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"start_time":"2029-01-01T14:00:00Z"`)

	w = api.do(http.MethodPost, "/api/bookings/"+created.ID.String()+"/cancel", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/bookings/"+created.ID.String()+"/cancel", tok, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_cancelled", decode[errorBody](t, w).Code)

	mine := decode[struct {
		Total int `json:"total"`
	}](t, api.do(http.MethodGet, "/api/me/bookings?status=cancelled", tok, nil))
	assert.Equal(t, 1, mine.Total)

	w = api.do(http.MethodDelete, "/api/bookings/"+created.ID.String(), provider, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := api.token(middleware.RoleAdmin, uuid.New())
	w = api.do(http.MethodDelete, "/api/bookings/"+created.ID.String(), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/api/bookings/"+created.ID.String(), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidation(t *testing.T) {
	api := newAPI(t)
	tok := api.token(middleware.RoleCustomer, uuid.New())

	w := api.do(http.MethodPost, "/api/bookings", tok, api.bookingBody("2029-01-01T11:00:00Z", "2029-01-01T10:00:00Z"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_interval", decode[errorBody](t, w).Code)

	w = api.do(http.MethodPost, "/api/bookings", tok, gin.H{"staff_id": api.staff.ID, "start_time": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := api.bookingBody("2029-01-01T10:00:00Z", "2029-01-01T11:00:00Z")
	body["staff_id"] = uuid.New()
	w = api.do(http.MethodPost, "/api/bookings", tok, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSlotsEndpoints(t *testing.T) {
	api := newAPI(t)
	tok := api.token(middleware.RoleCustomer, uuid.New())

	w := api.do(http.MethodGet, "/api/staff/"+api.staff.ID.String()+"/slots?date=2029-01-01&duration=60&interval=60", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slots := decode[struct {
		Total int `json:"total"`
	}](t, w)
	assert.Equal(t, 10, slots.Total)

	w = api.do(http.MethodGet, "/api/staff/"+api.staff.ID.String()+"/slots?date=2029-01-01", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodGet, "/api/locations/"+api.staff.LocationID.String()+
		"/slots?date=2029-01-01&interval=60&service_variant_id="+api.variant.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pooled := decode[struct {
		Data []struct {
			StaffIDs []uuid.UUID `json:"staff_ids"`
		} `json:"data"`
	}](t, w)
	require.Len(t, pooled.Data, 10)
	assert.Equal(t, []uuid.UUID{api.staff.ID}, pooled.Data[0].StaffIDs)
}

func TestScheduleEndpoints(t *testing.T) {
	api := newAPI(t)
	provider := api.token(middleware.RoleProvider, uuid.New())
	customer := api.token(middleware.RoleCustomer, uuid.New())
	base := "/api/staff/" + api.staff.ID.String()

	w := api.do(http.MethodPut, base+"/working-hours", customer, gin.H{"shifts": []gin.H{}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPut, base+"/working-hours", provider, gin.H{"shifts": []gin.H{
		{"weekday": 1, "start_time": "09:00", "end_time": "12:00"},
		{"weekday": 1, "start_time": "13:00", "end_time": "17:00"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, base+"/working-hours", provider, gin.H{"shifts": []gin.H{
		{"weekday": 1, "start_time": "17:00", "end_time": "09:00"},
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(http.MethodGet, base+"/working-hours", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = api.do(http.MethodPost, base+"/internal-events", provider, gin.H{
		"category":   "meeting",
		"start_time": "2029-01-01T09:00:00Z",
		"end_time":   "2029-01-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/availability?staff_id="+api.staff.ID.String()+
		"&start=2029-01-01T09:30:00Z&end=2029-01-01T10:30:00Z", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "internal event conflict: meeting")

	w = api.do(http.MethodGet, base+"/schedule?from=2029-01-01T00:00:00Z&to=2029-01-02T00:00:00Z", provider, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[struct {
		WorkingHours   []json.RawMessage `json:"working_hours"`
		InternalEvents []struct {
			ID uuid.UUID `json:"id"`
		} `json:"internal_events"`
	}](t, w)
	assert.Len(t, view.WorkingHours, 2)
	require.Len(t, view.InternalEvents, 1)

	w = api.do(http.MethodDelete, "/api/internal-events/"+view.InternalEvents[0].ID.String(), provider, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

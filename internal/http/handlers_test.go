package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/courtbooking/internal/application"
	"github.com/example/courtbooking/internal/session"
)

type authServiceStub struct {
	registerResult application.AuthResult
	registerErr    error
	loginResult    application.AuthResult
	loginErr       error
	lookupResult   application.Identity
	lookupErr      error
}

func (s *authServiceStub) Register(_ context.Context, _ application.RegisterParams) (application.AuthResult, error) {
	return s.registerResult, s.registerErr
}

func (s *authServiceStub) Login(_ context.Context, _ application.LoginParams) (application.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *authServiceStub) GetUserByEmail(_ context.Context, _ string) (application.Identity, error) {
	return s.lookupResult, s.lookupErr
}

type courtServiceStub struct {
	created    application.Court
	createErr  error
	all        []application.Court
	bySport    []application.Court
	byID       application.Court
	byIDErr    error
	resolvedID string
	resolveErr error

	lastSport string
}

func (s *courtServiceStub) Create(_ context.Context, _ application.CreateCourtParams) (application.Court, error) {
	return s.created, s.createErr
}

func (s *courtServiceStub) GetAll(_ context.Context) ([]application.Court, error) {
	return s.all, nil
}

func (s *courtServiceStub) GetBySport(_ context.Context, sport string) ([]application.Court, error) {
	s.lastSport = sport
	return s.bySport, nil
}

func (s *courtServiceStub) GetByID(_ context.Context, _ string) (application.Court, error) {
	return s.byID, s.byIDErr
}

func (s *courtServiceStub) GetIDByCourtAndNum(_ context.Context, _ string, _ int) (string, error) {
	return s.resolvedID, s.resolveErr
}

type reservationServiceStub struct {
	created   application.Reservation
	createErr error
	byUser    []application.Reservation
	byUserErr error
	all       []application.Reservation
	allErr    error
	hours     []string
	hoursErr  error
	deleted   application.Reservation
	deleteErr error
	changed   application.Reservation
	changeErr error

	lastCreate    application.CreateReservationParams
	lastUserEmail string
	lastDelete    application.DeleteReservationParams
	lastChange    application.ChangeReservationStatusParams
}

func (s *reservationServiceStub) Create(_ context.Context, params application.CreateReservationParams) (application.Reservation, error) {
	s.lastCreate = params
	return s.created, s.createErr
}

func (s *reservationServiceStub) GetByUser(_ context.Context, userEmail string) ([]application.Reservation, error) {
	s.lastUserEmail = userEmail
	return s.byUser, s.byUserErr
}

func (s *reservationServiceStub) GetAll(_ context.Context, _ application.Identity) ([]application.Reservation, error) {
	return s.all, s.allErr
}

func (s *reservationServiceStub) GetHoursForDay(_ context.Context, _, _ string) ([]string, error) {
	return s.hours, s.hoursErr
}

func (s *reservationServiceStub) Delete(_ context.Context, params application.DeleteReservationParams) (application.Reservation, error) {
	s.lastDelete = params
	return s.deleted, s.deleteErr
}

func (s *reservationServiceStub) ChangeStatus(_ context.Context, params application.ChangeReservationStatusParams) (application.Reservation, error) {
	s.lastChange = params
	return s.changed, s.changeErr
}

type routerFixture struct {
	auth         *authServiceStub
	courts       *courtServiceStub
	reservations *reservationServiceStub
	manager      *session.Manager
	handler      http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	auth := &authServiceStub{}
	courts := &courtServiceStub{}
	reservations := &reservationServiceStub{}
	manager := session.NewManager([]byte("handlers-test-secret"), time.Hour, nil)

	handler := NewRouter(RouterConfig{
		Auth:         NewAuthHandler(auth, time.Hour, nil),
		Courts:       NewCourtHandler(courts, nil),
		Reservations: NewReservationHandler(reservations, nil),
		Middleware: []func(http.Handler) http.Handler{
			ResolveIdentity(manager, nil),
		},
	})

	return &routerFixture{
		auth:         auth,
		courts:       courts,
		reservations: reservations,
		manager:      manager,
		handler:      handler,
	}
}

func (f *routerFixture) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	f.handler.ServeHTTP(recorder, req)
	return recorder
}

func (f *routerFixture) sessionCookie(t *testing.T, identity application.Identity) *http.Cookie {
	t.Helper()

	token, err := f.manager.Issue(identity.Email, identity.Name, identity.Lastname, identity.Phone, identity.Role, identity.Points)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	member := application.Identity{Email: "ana@example.com", Name: "Ana", Lastname: "Petrova", Role: application.RoleUser}
	admin := application.Identity{Email: "root@example.com", Role: application.RoleAdmin}

	t.Run("register sets session cookie and returns 201", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.auth.registerResult = application.AuthResult{
			Identity:  member,
			Token:     "issued-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}

		recorder := f.do(t, http.MethodPost, "/register", `{"email":"ana@example.com","password":"s3cret-pass","name":"Ana","lastname":"Petrova"}`)

		require.Equal(t, http.StatusCreated, recorder.Code)

		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookieName, cookies[0].Name)
		assert.Equal(t, "issued-token", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		assert.Equal(t, int(time.Hour/time.Second), cookies[0].MaxAge)

		body := decodeBody[sessionResponse](t, recorder)
		assert.True(t, body.IsAuthenticated)
		require.NotNil(t, body.User)
		assert.Equal(t, "ana@example.com", body.User.Email)
	})

	t.Run("register maps validation failures to 422 with field errors", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.auth.registerErr = &application.ValidationError{FieldErrors: map[string]string{
			"email": "email is required",
		}}

		recorder := f.do(t, http.MethodPost, "/register", `{"password":"s3cret-pass"}`)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		body := decodeBody[errorResponse](t, recorder)
		assert.Equal(t, "email is required", body.Errors["email"])
	})

	t.Run("login rejects bad credentials with 401", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.auth.loginErr = application.ErrInvalidCredentials

		recorder := f.do(t, http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong"}`)

		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		body := decodeBody[errorResponse](t, recorder)
		assert.Equal(t, "AUTH_INVALID_CREDENTIALS", body.ErrorCode)
	})

	t.Run("login malformed body returns 400", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodPost, "/login", `{not json`)
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("logout clears the session cookie", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodPost, "/logout", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, SessionCookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("session reports anonymous without a cookie", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/session", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[sessionResponse](t, recorder)
		assert.False(t, body.IsAuthenticated)
		assert.Nil(t, body.User)
	})

	t.Run("session echoes the identity behind a valid cookie", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/session", "", f.sessionCookie(t, member))

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[sessionResponse](t, recorder)
		assert.True(t, body.IsAuthenticated)
		require.NotNil(t, body.User)
		assert.Equal(t, member.Email, body.User.Email)
		assert.Equal(t, member.Name, body.User.Name)
	})

	t.Run("session treats a garbage cookie as anonymous", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/session", "", &http.Cookie{Name: SessionCookieName, Value: "not-a-token"})

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[sessionResponse](t, recorder)
		assert.False(t, body.IsAuthenticated)
	})

	t.Run("user lookup requires an administrator", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.auth.lookupResult = member

		recorder := f.do(t, http.MethodPost, "/users/lookup", `{"email":"ana@example.com"}`, f.sessionCookie(t, member))
		require.Equal(t, http.StatusForbidden, recorder.Code)

		recorder = f.do(t, http.MethodPost, "/users/lookup", `{"email":"ana@example.com"}`, f.sessionCookie(t, admin))
		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[identityDTO](t, recorder)
		assert.Equal(t, member.Email, body.Email)
	})

	t.Run("user lookup without a session returns 401", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodPost, "/users/lookup", `{"email":"ana@example.com"}`)

		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		body := decodeBody[errorResponse](t, recorder)
		assert.Equal(t, "AUTH_REQUIRED", body.ErrorCode)
	})

	t.Run("wrong method yields 405 with Allow header", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/register", "")

		require.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
		assert.Equal(t, http.MethodPost, recorder.Header().Get("Allow"))
	})
}

func TestCourtHandlers(t *testing.T) {
	t.Parallel()

	admin := application.Identity{Email: "root@example.com", Role: application.RoleAdmin}

	t.Run("list is public and returns the catalog", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.courts.all = []application.Court{
			{ID: "court-1", Num: 1, Sport: "padel", PlayersNum: 4, PricePerHour: 20},
			{ID: "court-2", Num: 2, Sport: "tennis", PlayersNum: 2, PricePerHour: 15},
		}

		recorder := f.do(t, http.MethodGet, "/courts", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[[]courtDTO](t, recorder)
		require.Len(t, body, 2)
		assert.Equal(t, "padel", body[0].Sport)
	})

	t.Run("list filters by sport query parameter", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.courts.bySport = []application.Court{{ID: "court-1", Sport: "padel"}}

		recorder := f.do(t, http.MethodGet, "/courts?sport=padel", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "padel", f.courts.lastSport)
	})

	t.Run("create requires a session", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodPost, "/courts", `{"sport":"padel","players_num":4,"price_per_hour":20}`)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("create passes the identity through to the service", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.courts.created = application.Court{ID: "court-9", Num: 1, Sport: "padel", PlayersNum: 4, PricePerHour: 20}

		recorder := f.do(t, http.MethodPost, "/courts", `{"sport":"padel","players_num":4,"price_per_hour":20}`, f.sessionCookie(t, admin))

		require.Equal(t, http.StatusCreated, recorder.Code)
		body := decodeBody[courtDTO](t, recorder)
		assert.Equal(t, "court-9", body.ID)
	})

	t.Run("get by id resolves the path segment", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.courts.byID = application.Court{ID: "court-1", Sport: "tennis"}

		recorder := f.do(t, http.MethodGet, "/courts/court-1", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[courtDTO](t, recorder)
		assert.Equal(t, "court-1", body.ID)
	})

	t.Run("get unknown court returns 404", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.courts.byIDErr = application.ErrNotFound

		recorder := f.do(t, http.MethodGet, "/courts/missing", "")
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("lookup maps sport and num to an id", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.courts.resolvedID = "court-7"

		recorder := f.do(t, http.MethodGet, "/courts/lookup?sport=padel&num=2", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[courtIDResponse](t, recorder)
		assert.Equal(t, "court-7", body.ID)
	})

	t.Run("lookup without num returns 400", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/courts/lookup?sport=padel", "")
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestReservationHandlers(t *testing.T) {
	t.Parallel()

	member := application.Identity{Email: "ana@example.com", Name: "Ana", Lastname: "Petrova", Role: application.RoleUser}
	admin := application.Identity{Email: "root@example.com", Role: application.RoleAdmin}

	t.Run("create requires a session", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodPost, "/reservations", `{"court_id":"court-1","day":"2026-09-02","hour":"10:00","total_time":60,"total_price":20}`)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("create books the slot under the cookie identity", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.created = application.Reservation{
			ID:        "res-1",
			CourtID:   "court-1",
			UserEmail: member.Email,
			Day:       "2026-09-02",
			Hour:      "10:00",
			Status:    application.StatusPending,
		}

		recorder := f.do(t, http.MethodPost, "/reservations", `{"court_id":"court-1","day":"2026-09-02","hour":"10:00","total_time":60,"total_price":20}`, f.sessionCookie(t, member))

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, member.Email, f.reservations.lastCreate.Identity.Email)
		assert.Equal(t, "court-1", f.reservations.lastCreate.Input.CourtID)

		body := decodeBody[reservationDTO](t, recorder)
		assert.Equal(t, application.StatusPending, body.Status)
	})

	t.Run("create maps a taken slot to 409 SLOT_TAKEN", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.createErr = application.ErrSlotTaken

		recorder := f.do(t, http.MethodPost, "/reservations", `{"court_id":"court-1","day":"2026-09-02","hour":"10:00","total_time":60,"total_price":20}`, f.sessionCookie(t, member))

		require.Equal(t, http.StatusConflict, recorder.Code)
		body := decodeBody[errorResponse](t, recorder)
		assert.Equal(t, "SLOT_TAKEN", body.ErrorCode)
	})

	t.Run("list defaults to the caller's own bookings", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.byUser = []application.Reservation{{ID: "res-1", UserEmail: member.Email}}

		recorder := f.do(t, http.MethodGet, "/reservations", "", f.sessionCookie(t, member))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, member.Email, f.reservations.lastUserEmail)
	})

	t.Run("list for another user requires an administrator", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)

		recorder := f.do(t, http.MethodGet, "/reservations?user_email=other@example.com", "", f.sessionCookie(t, member))
		require.Equal(t, http.StatusForbidden, recorder.Code)

		recorder = f.do(t, http.MethodGet, "/reservations?user_email=other@example.com", "", f.sessionCookie(t, admin))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "other@example.com", f.reservations.lastUserEmail)
	})

	t.Run("list all delegates the admin check to the service", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.allErr = application.ErrUnauthorized

		recorder := f.do(t, http.MethodGet, "/reservations?all=true", "", f.sessionCookie(t, member))
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("hours is public and reports occupied slots", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.hours = []string{"10:00", "11:00"}

		recorder := f.do(t, http.MethodGet, "/reservations/hours?day=2026-09-02&court_id=court-1", "")

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody[hoursResponse](t, recorder)
		assert.Equal(t, []string{"10:00", "11:00"}, body.Hours)
	})

	t.Run("hours without a day returns 400", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/reservations/hours?court_id=court-1", "")
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("delete resolves the reservation id from the path", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.deleted = application.Reservation{ID: "res-1"}

		recorder := f.do(t, http.MethodDelete, "/reservations/res-1", "", f.sessionCookie(t, member))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "res-1", f.reservations.lastDelete.ReservationID)
		assert.Equal(t, member.Email, f.reservations.lastDelete.Identity.Email)
	})

	t.Run("delete unknown reservation returns 404", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.deleteErr = application.ErrNotFound

		recorder := f.do(t, http.MethodDelete, "/reservations/missing", "", f.sessionCookie(t, member))
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("status change routes through the status subresource", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.changed = application.Reservation{ID: "res-1", Status: application.StatusConfirmed}

		recorder := f.do(t, http.MethodPut, "/reservations/res-1/status", `{"status":"confirmed"}`, f.sessionCookie(t, member))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "res-1", f.reservations.lastChange.ReservationID)
		assert.Equal(t, application.StatusConfirmed, f.reservations.lastChange.Status)
	})

	t.Run("invalid status transition maps to 422", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		f.reservations.changeErr = application.ErrInvalidStatus

		recorder := f.do(t, http.MethodPut, "/reservations/res-1/status", `{"status":"archived"}`, f.sessionCookie(t, member))

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		body := decodeBody[errorResponse](t, recorder)
		assert.Equal(t, "INVALID_STATUS", body.ErrorCode)
	})

	t.Run("unknown reservation subresource returns 404", func(t *testing.T) {
		t.Parallel()

		f := newRouterFixture(t)
		recorder := f.do(t, http.MethodGet, "/reservations/res-1/notes", "", f.sessionCookie(t, member))
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

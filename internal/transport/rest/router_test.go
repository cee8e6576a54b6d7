package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/timeclock/internal/core/calendar"
	punchDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/punch"
	userDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/user"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/punch"
	punchPostgres "github.com/frahmantamala/timeclock/internal/punch/postgres"
	"github.com/frahmantamala/timeclock/internal/transport"
	"github.com/frahmantamala/timeclock/internal/transport/rest"
	"github.com/frahmantamala/timeclock/internal/user"
	userPostgres "github.com/frahmantamala/timeclock/internal/user/postgres"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Suite")
}

var _ = Describe("Router", func() {
	var (
		db       *sqlx.DB
		server   *httptest.Server
		auditLog *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		auditLog = &bytes.Buffer{}

		db, err = sqlx.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)

		gormDB, err := gorm.Open(&sqlite.Dialector{Conn: db.DB}, &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gormDB.AutoMigrate(&userDatamodel.User{}, &punchDatamodel.Punch{})).To(Succeed())

		users := userPostgres.NewUserRepository(db)
		Expect(users.Upsert(context.Background(), &user.User{Login: "user1", Name: "Usuário 1", IsActive: true})).To(Succeed())

		bus := events.NewEventBus(slogger)
		bus.Subscribe(events.EventTypePunchRecorded, events.AuditLogger(slog.New(slog.NewJSONHandler(auditLog, nil))))

		service := punch.NewService(
			punchPostgres.NewPunchRepository(gormDB),
			user.NewService(users, slogger),
			calendar.MustNew("America/Cuiaba"),
			slogger,
			punch.WithClock(func() time.Time { return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC) }),
			punch.WithPublisher(bus),
		)

		router := chi.NewRouter()
		rest.RegisterAllRoutes(router, db, punch.NewHandler(transport.NewBaseHandler(slogger), service), rest.RouterConfig{
			AllowedOrigins: []string{"*"},
			Logger:         slogger,
		})
		server = httptest.NewServer(router)
	})

	AfterEach(func() {
		server.Close()
		_ = db.Close()
	})

	get := func(path string) (*http.Response, map[string]interface{}) {
		GinkgoHelper()
		resp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return resp, body
	}

	It("should answer /ping", func() {
		resp, body := get("/ping")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(HaveKeyWithValue("status", "OK"))
	})

	It("should report a healthy database on /health", func() {
		resp, body := get("/health")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(HaveKeyWithValue("ok", true))
		Expect(body).To(HaveKeyWithValue("db", BeNumerically("==", 1)))
	})

	It("should report 503 once the database is gone", func() {
		Expect(db.Close()).To(Succeed())

		resp, body := get("/health")
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(body).To(HaveKeyWithValue("ok", false))
		Expect(body).To(HaveKey("error"))

		resp, body = get("/health/ready")
		Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(body).To(HaveKeyWithValue("status", "unhealthy"))
		Expect(body["components"]).To(HaveKeyWithValue("postgres", HaveKeyWithValue("message", "database unavailable")))
	})

	It("should report component details on /health/ready", func() {
		resp, body := get("/health/ready")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(HaveKeyWithValue("status", "healthy"))
		Expect(body["components"]).To(HaveKey("postgres"))
	})

	It("should serve the OpenAPI document", func() {
		resp, err := http.Get(server.URL + "/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(raw)).To(ContainSubstring("/pontos/bater"))
	})

	It("should punch and read back today's status through the router", func() {
		req, err := http.NewRequest(http.MethodPost, server.URL+"/pontos/bater", bytes.NewBufferString(`{"login":"user1","tipo":"SAIDA_ALMOCO"}`))
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-PC-Name", "RECEPCAO-01")
		req.Header.Set("Origin", "http://kiosk.local")

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(resp.Header.Get("X-Trace-ID")).NotTo(BeEmpty())

		resp, body := get("/pontos/hoje?login=user1")
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(body).To(HaveKeyWithValue("data", "2026-10-18"))
		Expect(body["batidos"]).To(HaveKeyWithValue("SAIDA_ALMOCO", true))
		Expect(body["batidos"]).To(HaveKeyWithValue("ENTRADA", false))

		Expect(auditLog.String()).To(ContainSubstring(`"origin_machine":"RECEPCAO-01"`))
	})

	It("should not route other methods", func() {
		resp, err := http.Get(server.URL + "/pontos/bater")
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
	})
})

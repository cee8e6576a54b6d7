package punch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/calendar"
	punchDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/punch"
	userDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/user"
	"github.com/frahmantamala/timeclock/internal/punch"
	punchPostgres "github.com/frahmantamala/timeclock/internal/punch/postgres"
	"github.com/frahmantamala/timeclock/internal/transport"
	"github.com/frahmantamala/timeclock/internal/user"
	userPostgres "github.com/frahmantamala/timeclock/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Punch Handler Integration", func() {
	var (
		sqlxDB  *sqlx.DB
		gormDB  *gorm.DB
		handler *punch.Handler
		now     time.Time
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		sqlxDB, err = sqlx.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		// every connection to :memory: is a fresh database
		sqlxDB.SetMaxOpenConns(1)

		gormDB, err = gorm.Open(&sqlite.Dialector{Conn: sqlxDB.DB}, &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gormDB.AutoMigrate(&userDatamodel.User{}, &punchDatamodel.Punch{})).To(Succeed())

		users := userPostgres.NewUserRepository(sqlxDB)
		for _, u := range []*user.User{
			{Login: "user1", Name: "Usuário 1", IsActive: true},
			{Login: "user2", Name: "Usuário 2", IsActive: true},
			{Login: "inativo", Name: "Inativo", IsActive: false},
		} {
			Expect(users.Upsert(context.Background(), u)).To(Succeed())
		}

		now = time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)
		service := punch.NewService(
			punchPostgres.NewPunchRepository(gormDB),
			user.NewService(users, slogger),
			calendar.MustNew("America/Cuiaba"),
			slogger,
			punch.WithClock(func() time.Time { return now }),
		)
		handler = punch.NewHandler(transport.NewBaseHandler(slogger), service)
	})

	AfterEach(func() {
		Expect(sqlxDB.Close()).To(Succeed())
	})

	bater := func(body string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/pontos/bater", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		handler.RegisterPunch(w, req)
		return w
	}

	hoje := func(login string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/pontos/hoje?login="+login, nil)
		w := httptest.NewRecorder()
		handler.GetTodayStatus(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) internal.Response {
		var body internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	It("should record a punch and report it in today's status", func() {
		w := bater(`{"login":"user1","tipo":"ENTRADA"}`, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var created punch.RegisterPunchResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.OK).To(BeTrue())
		Expect(created.Punch.PunchID).To(BeNumerically(">", 0))
		Expect(created.Punch.Date).To(Equal("2026-10-18"))
		Expect(created.Punch.Kind).To(Equal(punch.KindEntry))
		Expect(created.Punch.PunchedAt.Equal(now)).To(BeTrue())

		w = hoje("user1")
		Expect(w.Code).To(Equal(http.StatusOK))

		var status punch.TodayStatusResponse
		Expect(json.NewDecoder(w.Body).Decode(&status)).To(Succeed())
		Expect(status.OK).To(BeTrue())
		Expect(status.Date).To(Equal("2026-10-18"))
		Expect(status.Punched).To(Equal(punch.KindFlags{Entry: true}))
		Expect(status.Times.Entry).NotTo(BeNil())
		Expect(status.Times.Entry.Equal(now)).To(BeTrue())
		Expect(status.Times.LunchOut).To(BeNil())
	})

	It("should always emit all four kinds in today's status", func() {
		w := hoje("user2")
		Expect(w.Code).To(Equal(http.StatusOK))

		var envelope struct {
			Date     string                 `json:"data"`
			Batidos  map[string]interface{} `json:"batidos"`
			Horarios map[string]interface{} `json:"horarios"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&envelope)).To(Succeed())
		Expect(envelope.Date).To(Equal("2026-10-18"))

		for _, kind := range punch.KindNames() {
			Expect(envelope.Batidos).To(HaveKeyWithValue(kind, false))
			Expect(envelope.Horarios).To(HaveKeyWithValue(kind, BeNil()))
		}
	})

	It("should answer 409 for a second punch of the same kind", func() {
		Expect(bater(`{"login":"user1","tipo":"SAIDA"}`, nil).Code).To(Equal(http.StatusOK))

		w := bater(`{"login":"user1","tipo":"SAIDA"}`, nil)
		Expect(w.Code).To(Equal(http.StatusConflict))
		body := decodeError(w)
		Expect(body.OK).To(BeFalse())
		Expect(body.Error).To(Equal(internal.MsgDuplicatePunch))

		var count int64
		Expect(gormDB.Model(&punchDatamodel.Punch{}).Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(1)))
	})

	It("should answer 400 for an unknown kind", func() {
		w := bater(`{"login":"user1","tipo":"ALMOCO"}`, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error).To(Equal(internal.MsgInvalidKind))
	})

	It("should answer 400 when login or kind is missing", func() {
		w := bater(`{"tipo":"ENTRADA"}`, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error).To(Equal(internal.MsgLoginAndKindRequired))
	})

	It("should answer 400 for a malformed body", func() {
		w := bater(`{"login":`, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error).To(Equal(internal.MsgInvalidBody))
	})

	It("should answer 400 for a malformed moment", func() {
		w := bater(`{"login":"user1","tipo":"ENTRADA","momento":"amanhã"}`, nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error).To(Equal(internal.MsgInvalidMoment))
	})

	It("should answer 404 for an unknown login", func() {
		w := bater(`{"login":"ghost","tipo":"ENTRADA"}`, nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w).Error).To(Equal(internal.MsgUserNotFound))

		w = hoje("ghost")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w).Error).To(Equal(internal.MsgUserNotFound))
	})

	It("should answer 403 for an inactive user", func() {
		w := bater(`{"login":"inativo","tipo":"ENTRADA"}`, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(decodeError(w).Error).To(Equal(internal.MsgUserInactive))

		w = hoje("inativo")
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should answer 400 for today's status without a login", func() {
		w := hoje("")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error).To(Equal(internal.MsgLoginRequired))
	})

	It("should store the workstation label and first forwarded address", func() {
		longName := strings.Repeat("P", 150)
		w := bater(`{"login":"user1","tipo":"VOLTA_ALMOCO"}`, map[string]string{
			"X-PC-Name":       longName,
			"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		var row punchDatamodel.Punch
		Expect(gormDB.First(&row).Error).To(Succeed())
		Expect(row.OriginMachine).NotTo(BeNil())
		Expect(*row.OriginMachine).To(HaveLen(punch.MaxOriginMachineLength))
		Expect(row.SourceAddress).NotTo(BeNil())
		Expect(*row.SourceAddress).To(Equal("203.0.113.9"))
	})

	It("should store accented workstation labels and ignore a forwarded hop that is not an IP", func() {
		w := bater(`{"login":"user1","tipo":"SAIDA"}`, map[string]string{
			"X-PC-Name":       strings.Repeat("a", 119) + "ção",
			"X-Forwarded-For": strings.Repeat("9", 200) + ", 10.0.0.1",
		})
		Expect(w.Code).To(Equal(http.StatusOK))

		var row punchDatamodel.Punch
		Expect(gormDB.First(&row).Error).To(Succeed())
		Expect(utf8.ValidString(*row.OriginMachine)).To(BeTrue())
		Expect(utf8.RuneCountInString(*row.OriginMachine)).To(Equal(punch.MaxOriginMachineLength))
		Expect(*row.SourceAddress).To(Equal("192.0.2.1"))
	})

	It("should fall back to the peer address without a forwarded header", func() {
		Expect(bater(`{"login":"user1","tipo":"ENTRADA"}`, nil).Code).To(Equal(http.StatusOK))

		var row punchDatamodel.Punch
		Expect(gormDB.First(&row).Error).To(Succeed())
		// httptest.NewRequest uses 192.0.2.1:1234 as the peer
		Expect(*row.SourceAddress).To(Equal("192.0.2.1"))
		Expect(row.OriginMachine).To(BeNil())
	})
})

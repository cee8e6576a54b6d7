package calendar_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/timeclock/internal/core/calendar"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCalendar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Calendar Suite")
}

var _ = Describe("Calendar", func() {
	var cal *calendar.Calendar

	BeforeEach(func() {
		cal = calendar.MustNew("America/Cuiaba")
	})

	It("should reject unknown zones", func() {
		_, err := calendar.New("Mars/Olympus_Mons")
		Expect(err).To(HaveOccurred())
	})

	Describe("DateOf", func() {
		It("should place instants around local midnight on different dates", func() {
			// Cuiabá is UTC-4: 03:59Z is 23:59 the previous day, 04:00Z is 00:00.
			before := time.Date(2026, 10, 18, 3, 59, 59, 0, time.UTC)
			after := time.Date(2026, 10, 18, 4, 0, 0, 0, time.UTC)

			Expect(calendar.Format(cal.DateOf(before))).To(Equal("2026-10-17"))
			Expect(calendar.Format(cal.DateOf(after))).To(Equal("2026-10-18"))
		})

		It("should ignore the offset the instant was expressed in", func() {
			tokyo := time.FixedZone("JST", 9*3600)
			instant := time.Date(2026, 10, 18, 12, 30, 0, 0, tokyo)

			Expect(cal.DateOf(instant)).To(Equal(cal.DateOf(instant.UTC())))
			Expect(calendar.Format(cal.DateOf(instant))).To(Equal("2026-10-17"))
		})

		It("should return midnight UTC", func() {
			d := cal.DateOf(time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC))
			Expect(d.Location()).To(Equal(time.UTC))
			Expect(d.Hour()).To(BeZero())
			Expect(d.Minute()).To(BeZero())
		})
	})

	It("should compute today from the given clock reading", func() {
		now := time.Date(2026, 10, 18, 2, 0, 0, 0, time.UTC)
		Expect(calendar.Format(cal.Today(now))).To(Equal("2026-10-17"))
	})
})

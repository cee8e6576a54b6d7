package punch_test

import (
	"strings"
	"unicode/utf8"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/punch"
	"github.com/frahmantamala/timeclock/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RegisterPunchDTO", func() {
	Describe("Normalize", func() {
		It("should cut a long workstation label on a character boundary", func() {
			dto := punch.RegisterPunchDTO{OriginMachine: strings.Repeat("a", 119) + "ção"}
			dto.Normalize()

			Expect(utf8.ValidString(dto.OriginMachine)).To(BeTrue())
			Expect(utf8.RuneCountInString(dto.OriginMachine)).To(Equal(punch.MaxOriginMachineLength))
			Expect(dto.OriginMachine).To(HaveSuffix("ç"))
		})

		It("should keep labels that fit by characters even when longer in bytes", func() {
			name := strings.Repeat("é", punch.MaxOriginMachineLength)
			dto := punch.RegisterPunchDTO{OriginMachine: name}
			dto.Normalize()
			Expect(dto.OriginMachine).To(Equal(name))
		})

		It("should bound the source address to the column size", func() {
			dto := punch.RegisterPunchDTO{SourceAddress: strings.Repeat("9", 200)}
			dto.Normalize()
			Expect(utf8.RuneCountInString(dto.SourceAddress)).To(Equal(punch.MaxSourceAddressLength))
		})
	})

	Describe("Validate", func() {
		It("should reject a login longer than the users column", func() {
			dto := punch.RegisterPunchDTO{Login: strings.Repeat("u", user.MaxLoginLength+1), Kind: "ENTRADA"}
			appErr := dto.Validate()
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Code).To(Equal(internal.ErrCodeLoginTooLong))
			Expect(appErr.Message).To(Equal(internal.MsgLoginTooLong))
		})

		It("should accept a login at the limit", func() {
			dto := punch.RegisterPunchDTO{Login: strings.Repeat("ã", user.MaxLoginLength), Kind: "ENTRADA"}
			Expect(dto.Validate()).To(BeNil())
		})
	})
})

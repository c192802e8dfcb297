package i18n_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/helper/i18n"
)

var _ = Describe("I18n", func() {
	Context("Match", func() {
		DescribeTable("should resolve Accept-Language headers",
			func(header string, expected string) {
				Expect(i18n.Match(header).String()).To(Equal(expected))
			},
			Entry("french canadian", "fr-CA,fr;q=0.9", "fr"),
			Entry("english with quality", "en-US,en;q=0.8", "en"),
			Entry("unsupported language", "de-DE", "en"),
			Entry("empty header", "", "en"),
			Entry("garbage", ";;;", "en"),
		)
	})

	Context("T", func() {
		When("no language is set on the context", func() {
			It("should render english", func() {
				// ACT
				result := i18n.T(context.Background(), i18n.MsgLoadFailed, "affiliation(s)")

				// ASSERT
				Expect(result).To(Equal("Unable to load affiliation(s). Please try again."))
			})
		})

		When("french is set on the context", func() {
			It("should render french", func() {
				// ARRANGE
				ctx := i18n.WithLanguage(context.Background(), i18n.French)

				// ACT
				result := i18n.T(ctx, i18n.MsgPaginationMissing, "Domain")

				// ASSERT
				Expect(result).To(Equal("Vous devez fournir une valeur `first` ou `last` pour paginer correctement la connexion `Domain`."))
				Expect(i18n.Code(ctx)).To(Equal("fr"))
			})
		})

		It("should keep amounts ungrouped", func() {
			// ACT
			result := i18n.In(i18n.French, i18n.MsgPaginationLimit, "1000", "Domain", "first", "100")

			// ASSERT
			Expect(result).To(ContainSubstring("`1000`"))
			Expect(result).To(ContainSubstring("100 enregistrements"))
		})
	})

	Context("every message", func() {
		It("should have both translations", func() {
			keys := []string{
				i18n.MsgPaginationMissing, i18n.MsgPaginationBoth, i18n.MsgPaginationType,
				i18n.MsgPaginationNegative, i18n.MsgPaginationLimit, i18n.MsgLoadFailed,
				i18n.MsgNotFound, i18n.MsgAuthentication, i18n.NounDomains,
			}
			for _, key := range keys {
				Expect(i18n.In(i18n.English, key)).NotTo(HavePrefix(key))
				Expect(i18n.In(i18n.French, key)).NotTo(HavePrefix(key))
			}
		})
	})
})

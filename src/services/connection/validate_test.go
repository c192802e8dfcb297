package connection_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/helper/auth"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/services/connection"
)

var _ = Describe("Validate", func() {
	var (
		logs   *bytes.Buffer
		logger *slog.Logger
		ctx    context.Context
		frCtx  context.Context
	)

	const loader = "loadAffiliationConnectionsByOrgId"

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		logger = slog.New(slog.NewJSONHandler(logs, nil))
		ctx = auth.WithUserKey(context.Background(), "123")
		frCtx = i18n.WithLanguage(ctx, i18n.French)
	})

	Context("first and last are both missing", func() {
		It("should fail with a pagination error in english", func() {
			// ACT
			_, err := connection.Validate(ctx, logger, loader, "Affiliation", nil, nil)

			// ASSERT
			var paginationErr *connection.PaginationError
			Expect(errors.As(err, &paginationErr)).To(BeTrue())
			Expect(err.Error()).To(Equal("You must provide a `first` or `last` value to properly paginate the `Affiliation` connection."))
			Expect(paginationErr.Extensions()).To(HaveKeyWithValue("code", connection.CodePaginationError))
		})

		It("should fail with a pagination error in french", func() {
			// ACT
			_, err := connection.Validate(frCtx, logger, loader, "Affiliation", nil, nil)

			// ASSERT
			Expect(err).To(MatchError("Vous devez fournir une valeur `first` ou `last` pour paginer correctement la connexion `Affiliation`."))
		})

		It("should log a warning with the user key and loader", func() {
			// ACT
			_, _ = connection.Validate(ctx, logger, loader, "Affiliation", nil, nil)

			// ASSERT
			Expect(logs.String()).To(ContainSubstring(`"level":"WARN"`))
			Expect(logs.String()).To(ContainSubstring(`"user_key":"123"`))
			Expect(logs.String()).To(ContainSubstring(`"loader":"loadAffiliationConnectionsByOrgId"`))
		})
	})

	Context("first and last are both set", func() {
		DescribeTable("should always fail as not supported",
			func(first any, last any) {
				_, err := connection.Validate(ctx, logger, loader, "Affiliation", first, last)
				Expect(err).To(MatchError("Passing both `first` and `last` to paginate the `Affiliation` connection is not supported."))

				_, err = connection.Validate(frCtx, logger, loader, "Affiliation", first, last)
				Expect(err).To(MatchError("Passer à la fois `first` et `last` pour paginer la connexion `Affiliation` n'est pas supporté."))
			},
			Entry("valid numbers", 1, 1),
			Entry("out of range numbers", -1, 1000),
			Entry("non numbers", "1", true),
		)
	})

	Context("the value is not a number", func() {
		DescribeTable("should name the runtime type",
			func(value any, typeName string) {
				// ACT
				_, errFirst := connection.Validate(ctx, logger, loader, "Domain", value, nil)
				_, errLast := connection.Validate(ctx, logger, loader, "Domain", nil, value)

				// ASSERT
				var typeErr *connection.PaginationTypeError
				Expect(errors.As(errFirst, &typeErr)).To(BeTrue())
				Expect(errFirst).To(MatchError("`first` must be of type `number` not `" + typeName + "`."))
				Expect(errLast).To(MatchError("`last` must be of type `number` not `" + typeName + "`."))
			},
			Entry("string", "1", "string"),
			Entry("boolean", true, "boolean"),
			Entry("object", map[string]any{"a": 1}, "object"),
			Entry("array", []int{1}, "array"),
			Entry("null", connection.Null, "null"),
		)

		It("should render the type error in french", func() {
			_, err := connection.Validate(frCtx, logger, loader, "Domain", "1", nil)
			Expect(err).To(MatchError("`first` doit être de type `number` et non `string`."))
		})
	})

	Context("the value is below zero", func() {
		It("should fail with a range error", func() {
			// ACT
			_, err := connection.Validate(ctx, logger, loader, "Affiliation", -1, nil)

			// ASSERT
			var rangeErr *connection.PaginationRangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
			Expect(err).To(MatchError("`first` on the `Affiliation` connection cannot be less than zero."))
		})

		It("should fail with a range error in french for last", func() {
			_, err := connection.Validate(frCtx, logger, loader, "Affiliation", nil, -5)
			Expect(err).To(MatchError("`last` sur la connexion `Affiliation` ne peut être inférieur à zéro."))
		})
	})

	Context("the value is above the limit", func() {
		It("should cite the requested amount and the limit", func() {
			// ACT
			_, err := connection.Validate(ctx, logger, loader, "Affiliation", 1000, nil)

			// ASSERT
			Expect(err).To(MatchError("Requesting `1000` records on the `Affiliation` connection exceeds the `first` limit of 100 records."))
		})

		It("should cite the requested amount and the limit in french", func() {
			// ACT
			_, err := connection.Validate(frCtx, logger, loader, "Affiliation", nil, 101)

			// ASSERT
			Expect(err.Error()).To(ContainSubstring("`101`"))
			Expect(err.Error()).To(ContainSubstring("`last`"))
			Expect(err.Error()).To(ContainSubstring("100"))
		})
	})

	Context("the value is valid", func() {
		DescribeTable("should return the window",
			func(first any, last any, expected connection.Window) {
				window, err := connection.Validate(ctx, logger, loader, "Affiliation", first, last)
				Expect(err).NotTo(HaveOccurred())
				Expect(window).To(Equal(expected))
			},
			Entry("first zero", 0, nil, connection.Window{Limit: 0}),
			Entry("first limit", 100, nil, connection.Window{Limit: 100}),
			Entry("last", nil, 5, connection.Window{Limit: 5, Backward: true}),
			Entry("json number", float64(10), nil, connection.Window{Limit: 10}),
			Entry("int32 argument", int32(3), nil, connection.Window{Limit: 3}),
		)

		It("should not log anything", func() {
			_, _ = connection.Validate(ctx, logger, loader, "Affiliation", 10, nil)
			Expect(logs.String()).To(BeEmpty())
		})
	})
})

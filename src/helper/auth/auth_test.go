package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/helper/auth"
)

var _ = Describe("Auth", func() {
	secret := []byte("test-secret")

	Context("ParseBearer", func() {
		When("the token was signed with the same secret", func() {
			It("should return the user key", func() {
				// ARRANGE
				token, err := auth.SignToken("123", secret, time.Hour)
				Expect(err).NotTo(HaveOccurred())

				// ACT
				claims, err := auth.ParseBearer("Bearer "+token, secret)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(claims.UserKey).To(Equal("123"))
			})
		})

		When("the token was signed with another secret", func() {
			It("should fail", func() {
				// ARRANGE
				token, _ := auth.SignToken("123", []byte("other"), time.Hour)

				// ACT
				claims, err := auth.ParseBearer("Bearer "+token, secret)

				// ASSERT
				Expect(err).To(MatchError(auth.ErrInvalidToken))
				Expect(claims).To(BeNil())
			})
		})

		When("the token is expired", func() {
			It("should fail", func() {
				// ARRANGE
				token, _ := auth.SignToken("123", secret, -time.Minute)

				// ACT
				_, err := auth.ParseBearer("Bearer "+token, secret)

				// ASSERT
				Expect(err).To(MatchError(auth.ErrInvalidToken))
			})
		})

		When("the header is empty", func() {
			It("should fail", func() {
				_, err := auth.ParseBearer("", secret)
				Expect(err).To(MatchError(auth.ErrInvalidToken))
			})
		})
	})

	Context("UserKey", func() {
		It("should be empty for anonymous contexts", func() {
			Expect(auth.UserKey(context.Background())).To(BeEmpty())
		})

		It("should return the key stored on the context", func() {
			ctx := auth.WithUserKey(context.Background(), "42")
			Expect(auth.UserKey(ctx)).To(Equal("42"))
		})
	})
})

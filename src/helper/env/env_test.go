package env_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/helper/env"
)

var _ = Describe("Env", func() {
	When("the variable is set", func() {
		It("should parse it", func() {
			// ARRANGE
			GinkgoT().Setenv("ENV_TEST_INT", "42")
			GinkgoT().Setenv("ENV_TEST_BOOL", "true")
			GinkgoT().Setenv("ENV_TEST_TTL", "90")

			// ASSERT
			Expect(env.GetInt("ENV_TEST_INT", 7)).To(Equal(42))
			Expect(env.GetBool("ENV_TEST_BOOL")).To(BeTrue())
			Expect(env.GetSeconds("ENV_TEST_TTL")).To(Equal(90 * time.Second))
		})
	})

	When("the variable is missing or malformed", func() {
		It("should fall back to the default", func() {
			// ARRANGE
			GinkgoT().Setenv("ENV_TEST_INT", "forty-two")

			// ASSERT
			Expect(env.GetInt("ENV_TEST_INT", 7)).To(Equal(7))
			Expect(env.GetString("ENV_TEST_UNSET", "fallback")).To(Equal("fallback"))
			Expect(env.GetString("ENV_TEST_UNSET")).To(BeEmpty())
			Expect(func() { env.MustGetString("ENV_TEST_UNSET") }).To(Panic())
		})
	})
})

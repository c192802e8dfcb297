package cursor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/helper/cursor"
)

var _ = Describe("Cursor", func() {
	When("encoding a node key", func() {
		It("should produce base64 of type and key", func() {
			// ACT
			result := cursor.Encode("Affiliation", "42")

			// ASSERT
			Expect(result).To(Equal("QWZmaWxpYXRpb246NDI="))
		})
	})

	When("decoding an encoded cursor", func() {
		It("should return the original type and key", func() {
			// ARRANGE
			encoded := cursor.Encode("Domain", "1234")

			// ACT
			typeName, key := cursor.Decode(encoded)

			// ASSERT
			Expect(typeName).To(Equal("Domain"))
			Expect(key).To(Equal("1234"))
			Expect(cursor.Key(encoded)).To(Equal("1234"))
		})
	})

	When("decoding malformed input", func() {
		DescribeTable("should return empty values",
			func(input string) {
				typeName, key := cursor.Decode(input)
				Expect(typeName).To(BeEmpty())
				Expect(key).To(BeEmpty())
			},
			Entry("not base64", "%%%"),
			Entry("base64 without separator", "bm9zZXBhcmF0b3I="),
			Entry("empty", ""),
		)
	})
})

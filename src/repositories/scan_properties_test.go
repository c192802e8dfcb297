package repositories

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/domain"
)

var _ = Describe("scanProperties", func() {
	scan := domain.ScanRecord{
		Type:         domain.ScanDmarc,
		Timestamp:    time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC),
		PositiveTags: []string{"dmarc23"},
	}

	DescribeTable("should stamp the timestamp and tags onto the scan data",
		func(raw string, expected string) {
			// ACT
			properties, err := scanProperties(json.RawMessage(raw), scan)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(string(properties)).To(MatchJSON(expected))
		},
		Entry("object data", `{"record":"v=DMARC1"}`,
			`{"record":"v=DMARC1","timestamp":"2024-05-01T16:00:00Z","positiveTags":["dmarc23"],"neutralTags":[],"negativeTags":[]}`),
		Entry("null data", `null`,
			`{"timestamp":"2024-05-01T16:00:00Z","positiveTags":["dmarc23"],"neutralTags":[],"negativeTags":[]}`),
		Entry("no data", ``,
			`{"timestamp":"2024-05-01T16:00:00Z","positiveTags":["dmarc23"],"neutralTags":[],"negativeTags":[]}`),
	)

	It("should refuse data that is not an object", func() {
		// ACT
		_, err := scanProperties(json.RawMessage(`[1]`), scan)

		// ASSERT
		Expect(err).To(MatchError(ContainSubstring("invalid scan data")))
	})
})

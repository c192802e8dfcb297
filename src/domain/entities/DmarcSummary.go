package entities

type CategoryTotals struct {
	PassDkimOnly int `json:"passDkimOnly"`
	PassSpfOnly  int `json:"passSpfOnly"`
	FullPass     int `json:"fullPass"`
	Fail         int `json:"fail"`
}

// DmarcSummary is a period roll-up of DMARC reports. StartDate comes from
// the domainsToDmarcSummaries edge that links it to its domain.
type DmarcSummary struct {
	Key            string         `json:"-"`
	StartDate      string         `json:"-"`
	CategoryTotals CategoryTotals `json:"categoryTotals"`
	TotalMessages  int            `json:"totalMessages"`
}

func DmarcSummaryFromEntity(e Entity, startDate string) (DmarcSummary, error) {
	var summary DmarcSummary
	if err := e.DecodeProperties(&summary); err != nil {
		return DmarcSummary{}, err
	}
	summary.Key = e.Key()
	summary.StartDate = startDate
	return summary, nil
}

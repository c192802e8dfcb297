package entities

// OrganizationDetails is the per-language bundle of an organization.
type OrganizationDetails struct {
	Name     string `json:"name"`
	Acronym  string `json:"acronym"`
	Slug     string `json:"slug"`
	Zone     string `json:"zone"`
	Sector   string `json:"sector"`
	Country  string `json:"country"`
	Province string `json:"province"`
	City     string `json:"city"`
}

type SummaryCounts struct {
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
	Total int `json:"total"`
}

type OrganizationSummaries struct {
	Web  SummaryCounts `json:"web"`
	Mail SummaryCounts `json:"mail"`
}

type Organization struct {
	Key       string                `json:"-"`
	Verified  bool                  `json:"verified"`
	Summaries OrganizationSummaries `json:"summaries"`
	En        OrganizationDetails   `json:"en"`
	Fr        OrganizationDetails   `json:"fr"`
}

// Details picks the bundle for lang ("french" or "fr" select French).
func (o Organization) Details(lang string) OrganizationDetails {
	if lang == "fr" || lang == "french" {
		return o.Fr
	}
	return o.En
}

func OrganizationFromEntity(e Entity) (Organization, error) {
	var org Organization
	if err := e.DecodeProperties(&org); err != nil {
		return Organization{}, err
	}
	org.Key = e.Key()
	return org, nil
}

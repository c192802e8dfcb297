package entities

import "time"

const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusInfo = "info"
)

type DomainStatus struct {
	Dkim  string `json:"dkim"`
	Dmarc string `json:"dmarc"`
	Https string `json:"https"`
	Spf   string `json:"spf"`
	Ssl   string `json:"ssl"`
}

type Domain struct {
	Key       string       `json:"-"`
	Domain    string       `json:"domain"`
	LastRan   *time.Time   `json:"lastRan,omitempty"`
	Selectors []string     `json:"selectors,omitempty"`
	Status    DomainStatus `json:"status"`
}

func DomainFromEntity(e Entity) (Domain, error) {
	var domain Domain
	if err := e.DecodeProperties(&domain); err != nil {
		return Domain{}, err
	}
	domain.Key = e.Key()
	return domain, nil
}

package entities

import "time"

type Dkim struct {
	Key       string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

type DkimResult struct {
	GuidanceTagRefs
	Key       string `json:"-"`
	Selector  string `json:"selector"`
	Record    string `json:"record"`
	KeyLength string `json:"keyLength"`
}

type Dmarc struct {
	GuidanceTagRefs
	Key       string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Record    string    `json:"record"`
	PPolicy   string    `json:"pPolicy"`
	SpPolicy  string    `json:"spPolicy"`
	Pct       int       `json:"pct"`
}

type Spf struct {
	GuidanceTagRefs
	Key        string    `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	Lookups    int       `json:"lookups"`
	Record     string    `json:"record"`
	SpfDefault string    `json:"spfDefault"`
}

type Ssl struct {
	GuidanceTagRefs
	Key                     string    `json:"-"`
	Timestamp               time.Time `json:"timestamp"`
	AcceptableCiphers       []string  `json:"acceptableCiphers"`
	AcceptableCurves        []string  `json:"acceptableCurves"`
	StrongCiphers           []string  `json:"strongCiphers"`
	StrongCurves            []string  `json:"strongCurves"`
	WeakCiphers             []string  `json:"weakCiphers"`
	WeakCurves              []string  `json:"weakCurves"`
	CcsInjectionVulnerable  bool      `json:"ccsInjectionVulnerable"`
	HeartbleedVulnerable    bool      `json:"heartbleedVulnerable"`
	SupportsEcdhKeyExchange bool      `json:"supportsEcdhKeyExchange"`
}

func DkimFromEntity(e Entity) (Dkim, error) {
	var v Dkim
	if err := e.DecodeProperties(&v); err != nil {
		return Dkim{}, err
	}
	v.Key = e.Key()
	return v, nil
}

func DkimResultFromEntity(e Entity) (DkimResult, error) {
	var v DkimResult
	if err := e.DecodeProperties(&v); err != nil {
		return DkimResult{}, err
	}
	v.Key = e.Key()
	return v, nil
}

func DmarcFromEntity(e Entity) (Dmarc, error) {
	var v Dmarc
	if err := e.DecodeProperties(&v); err != nil {
		return Dmarc{}, err
	}
	v.Key = e.Key()
	return v, nil
}

func SpfFromEntity(e Entity) (Spf, error) {
	var v Spf
	if err := e.DecodeProperties(&v); err != nil {
		return Spf{}, err
	}
	v.Key = e.Key()
	return v, nil
}

func SslFromEntity(e Entity) (Ssl, error) {
	var v Ssl
	if err := e.DecodeProperties(&v); err != nil {
		return Ssl{}, err
	}
	v.Key = e.Key()
	return v, nil
}

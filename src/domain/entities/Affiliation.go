package entities

import "strconv"

const (
	PermissionUser       = "user"
	PermissionAdmin      = "admin"
	PermissionSuperAdmin = "super_admin"
)

// Affiliation is an Organization -> User edge.
type Affiliation struct {
	Key        string `json:"-"`
	OrgKey     string `json:"-"`
	UserKey    string `json:"-"`
	Permission string `json:"permission"`
}

func AffiliationFromEdge(e Edge) (Affiliation, error) {
	var affiliation Affiliation
	if err := e.DecodeMetadata(&affiliation); err != nil {
		return Affiliation{}, err
	}
	affiliation.Key = e.Key()
	affiliation.OrgKey = strconv.FormatInt(e.LeftEntityID, 10)
	affiliation.UserKey = strconv.FormatInt(e.RightEntityID, 10)
	return affiliation, nil
}

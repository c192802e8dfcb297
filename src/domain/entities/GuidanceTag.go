package entities

type RefLink struct {
	Description string `json:"description"`
	RefLink     string `json:"ref_link"`
}

// GuidanceTag explains one aspect of a scan result. TagID is the business
// identifier scans refer to and is stored as the entity reference.
type GuidanceTag struct {
	Key          string    `json:"-"`
	TagID        string    `json:"-"`
	TagName      string    `json:"tagName"`
	Guidance     string    `json:"guidance"`
	RefLinks     []RefLink `json:"refLinks"`
	RefLinksTech []RefLink `json:"refLinksTech"`
}

// GuidanceTagRefs are the tag ids a scan result was classified with.
type GuidanceTagRefs struct {
	PositiveTags []string `json:"positiveTags"`
	NeutralTags  []string `json:"neutralTags"`
	NegativeTags []string `json:"negativeTags"`
}

func GuidanceTagFromEntity(e Entity) (GuidanceTag, error) {
	var tag GuidanceTag
	if err := e.DecodeProperties(&tag); err != nil {
		return GuidanceTag{}, err
	}
	tag.Key = e.Key()
	tag.TagID = e.Reference
	return tag, nil
}

package client

// Paper is the subset of the Graph API paper object citegraph requests.
// List entries may be null, and their identifiers may be null, when the
// API knows of a paper it cannot link.
type Paper struct {
	PaperID    string       `json:"paperId"`
	Title      string       `json:"title"`
	References []*PaperRef  `json:"references"`
	Citations  []*PaperRef  `json:"citations"`
	Authors    []*AuthorRef `json:"authors"`
}

// IsEmpty reports whether p carries no paper at all, as decoded from a
// literal null or an empty object.
func (p *Paper) IsEmpty() bool {
	return p == nil || (p.PaperID == "" && p.Title == "" &&
		len(p.References) == 0 && len(p.Citations) == 0 && len(p.Authors) == 0)
}

// PaperRef is an entry of a references or citations list.
type PaperRef struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title,omitempty"`
}

// AuthorRef is an entry of an authors list.
type AuthorRef struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

package domain

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// PulseResult is the ranked keyword frequency of a video's top-level comments.
type PulseResult struct {
	TopTerms        []TermCount `json:"top_terms"`
	CommentsScanned int         `json:"comments_scanned"`
}

func (p PulseResult) IsEmpty() bool {
	return len(p.TopTerms) == 0
}

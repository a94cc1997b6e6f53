package model

import (
	"gigscout/pkg/geo"
)

// Employer is the hiring party attached to a daily-wage posting.
type Employer struct {
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"` // 0..5
	AvatarURL string  `json:"avatar_url,omitempty"`
}

// ShortTermJob is a daily-wage gig from the remote catalog.
type ShortTermJob struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"` // free-text label
	Address     string    `json:"address"`
	Pay         string    `json:"pay"` // formatted, e.g. "₹900/day"
	Timing      string    `json:"timing"`
	Employer    Employer  `json:"employer"`
	Distance    string    `json:"distance,omitempty"` // display label, set after fetch
	Skills      []string  `json:"skills,omitempty"`
	Description string    `json:"description,omitempty"`
	PostedAt    string    `json:"posted_at"` // relative label, e.g. "2 hours ago"
	Coord       geo.Point `json:"coord"`
}

// LongTermJob is a long-term posting. Unlike ShortTermJob it is not gated
// by location; coordinates are optional.
type LongTermJob struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Address      string     `json:"address,omitempty"`
	Salary       string     `json:"salary"` // formatted, e.g. "₹25,000/month"
	Type         string     `json:"type"`   // employment type
	Requirements []string   `json:"requirements,omitempty"`
	Skills       []string   `json:"skills,omitempty"`
	Description  string     `json:"description,omitempty"`
	PostedAt     string     `json:"posted_at"`
	WorkHours    string     `json:"work_hours,omitempty"`
	Coord        *geo.Point `json:"coord,omitempty"`
}

// Kind discriminates the two job shapes. The remote catalog carries no
// explicit tag, so the kind is assigned once at the ingestion boundary
// and matched on everywhere downstream.
type Kind string

const (
	KindShortTerm Kind = "daily"
	KindLongTerm  Kind = "longterm"
)

// Listing is the tagged union of the two job shapes. Exactly one of
// ShortTerm/LongTerm is non-nil, matching Kind.
type Listing struct {
	Kind      Kind          `json:"kind"`
	ShortTerm *ShortTermJob `json:"short_term,omitempty"`
	LongTerm  *LongTermJob  `json:"long_term,omitempty"`
}

// NewShortTermListing wraps a daily-wage job in a tagged listing.
func NewShortTermListing(j *ShortTermJob) Listing {
	return Listing{Kind: KindShortTerm, ShortTerm: j}
}

// NewLongTermListing wraps a long-term posting in a tagged listing.
func NewLongTermListing(j *LongTermJob) Listing {
	return Listing{Kind: KindLongTerm, LongTerm: j}
}

// ID returns the identity of the wrapped job.
func (l Listing) ID() string {
	switch l.Kind {
	case KindShortTerm:
		if l.ShortTerm != nil {
			return l.ShortTerm.ID
		}
	case KindLongTerm:
		if l.LongTerm != nil {
			return l.LongTerm.ID
		}
	}
	return ""
}

// Title returns the display title of the wrapped job.
func (l Listing) Title() string {
	switch l.Kind {
	case KindShortTerm:
		if l.ShortTerm != nil {
			return l.ShortTerm.Title
		}
	case KindLongTerm:
		if l.LongTerm != nil {
			return l.LongTerm.Title
		}
	}
	return ""
}

// IsShortTerm reports whether the listing carries a daily-wage job.
func (l Listing) IsShortTerm() bool {
	return l.Kind == KindShortTerm
}

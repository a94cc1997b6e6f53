package catalog

import (
	"fmt"

	"gigscout/pkg/geo"
	"gigscout/pkg/model"
)

// jobRecord is the wire shape of a catalog entry. The remote catalog does
// not tag records by category; a daily-wage record carries an employer
// object and a long-term record carries a company name. Classification
// happens here, once, so everything downstream matches on model.Kind.
type jobRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	PostedAt    string   `json:"posted_at"`
	Skills      []string `json:"skills"`

	// Daily-wage fields
	Pay      string          `json:"pay"`
	Timing   string          `json:"timing"`
	Employer *employerRecord `json:"employer"`
	Lat      *float64        `json:"lat"`
	Lng      *float64        `json:"lng"`

	// Long-term fields
	Company      string   `json:"company"`
	Salary       string   `json:"salary"`
	Type         string   `json:"type"`
	Requirements []string `json:"requirements"`
	WorkHours    string   `json:"work_hours"`
}

type employerRecord struct {
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"`
	AvatarURL string  `json:"avatar_url"`
}

// classify turns a wire record into a tagged listing. The presence of an
// employer object marks a daily-wage job; a company name without one marks
// a long-term posting. Records satisfying both or neither are malformed.
func classify(rec *jobRecord) (model.Listing, error) {
	hasEmployer := rec.Employer != nil
	hasCompany := rec.Company != ""

	switch {
	case hasEmployer && hasCompany:
		return model.Listing{}, fmt.Errorf("record %q carries both employer and company", rec.ID)
	case hasEmployer:
		return model.NewShortTermListing(rec.toShortTerm()), nil
	case hasCompany:
		return model.NewLongTermListing(rec.toLongTerm()), nil
	default:
		return model.Listing{}, fmt.Errorf("record %q carries neither employer nor company", rec.ID)
	}
}

func (rec *jobRecord) toShortTerm() *model.ShortTermJob {
	j := &model.ShortTermJob{
		ID:          rec.ID,
		Title:       rec.Title,
		Location:    rec.Location,
		Address:     rec.Address,
		Pay:         rec.Pay,
		Timing:      rec.Timing,
		Skills:      rec.Skills,
		Description: rec.Description,
		PostedAt:    rec.PostedAt,
	}
	if rec.Employer != nil {
		j.Employer = model.Employer{
			Name:      rec.Employer.Name,
			Rating:    rec.Employer.Rating,
			AvatarURL: rec.Employer.AvatarURL,
		}
	}
	if rec.Lat != nil && rec.Lng != nil {
		j.Coord = geo.Point{Lat: *rec.Lat, Lng: *rec.Lng}
	}
	return j
}

func (rec *jobRecord) toLongTerm() *model.LongTermJob {
	j := &model.LongTermJob{
		ID:           rec.ID,
		Title:        rec.Title,
		Company:      rec.Company,
		Location:     rec.Location,
		Address:      rec.Address,
		Salary:       rec.Salary,
		Type:         rec.Type,
		Requirements: rec.Requirements,
		Skills:       rec.Skills,
		Description:  rec.Description,
		PostedAt:     rec.PostedAt,
		WorkHours:    rec.WorkHours,
	}
	if rec.Lat != nil && rec.Lng != nil {
		j.Coord = &geo.Point{Lat: *rec.Lat, Lng: *rec.Lng}
	}
	return j
}

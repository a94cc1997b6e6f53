// Package apply submits job applications to the remote platform and
// reconciles the local result lists on acceptance.
package apply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"gigscout/pkg/filter"
	"gigscout/pkg/model"
	"gigscout/pkg/request"
	"gigscout/pkg/tracker"
)

// Reason classifies a rejected application.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonAlreadyApplied  Reason = "already_applied"
	ReasonOther           Reason = "other"
)

// Outcome is the result of one submission attempt. Detail carries the
// platform's human-readable rejection message when there is one.
type Outcome struct {
	Accepted  bool   `json:"accepted"`
	Reason    Reason `json:"reason,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id"`
}

// Remover drops a job from a local result list after the platform has
// accepted an application for it.
type Remover interface {
	Remove(id string) bool
}

// Submitter posts applications. The two catalog schemas use different
// payloads but share the endpoint and the outcome classification.
type Submitter struct {
	req      *request.Client
	tracker  *tracker.Tracker
	endpoint string

	daily    Remover
	longterm Remover
}

// NewSubmitter creates a Submitter posting to endpoint. The removers
// reconcile the matching local lists on acceptance; either may be nil.
func NewSubmitter(req *request.Client, tr *tracker.Tracker, endpoint string, daily, longterm Remover) *Submitter {
	return &Submitter{
		req:      req,
		tracker:  tr,
		endpoint: endpoint,
		daily:    daily,
		longterm: longterm,
	}
}

type dailyPayload struct {
	JobID        string  `json:"job_id"`
	Category     string  `json:"category"`
	OfferedPrice float64 `json:"offered_price"`
	RequestID    string  `json:"request_id"`
}

type longTermPayload struct {
	JobID       string `json:"job_id"`
	Category    string `json:"category"`
	CoverLetter string `json:"cover_letter"`
	RequestID   string `json:"request_id"`
}

// errorResponse is the platform's rejection body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Submit posts an application for the listing and returns the outcome.
// Only transport-level surprises (malformed listing, encode failure)
// surface as errors; platform rejections are reported in the Outcome.
func (s *Submitter) Submit(ctx context.Context, l model.Listing) (Outcome, error) {
	reqID := uuid.NewString()

	var payload any
	switch {
	case l.IsShortTerm() && l.ShortTerm != nil:
		amount, err := filter.Amount(l.ShortTerm.Pay)
		if err != nil {
			return Outcome{}, fmt.Errorf("job %s has unparseable pay %q: %w", l.ShortTerm.ID, l.ShortTerm.Pay, err)
		}
		payload = dailyPayload{
			JobID:        l.ShortTerm.ID,
			Category:     string(model.KindShortTerm),
			OfferedPrice: amount,
			RequestID:    reqID,
		}
	case !l.IsShortTerm() && l.LongTerm != nil:
		payload = longTermPayload{
			JobID:       l.LongTerm.ID,
			Category:    string(model.KindLongTerm),
			CoverLetter: coverLetter(l.LongTerm),
			RequestID:   reqID,
		}
	default:
		return Outcome{}, errors.New("listing carries no job")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{}, fmt.Errorf("encode application: %w", err)
	}

	slog.Info("Submitting application", "job", l.ID(), "kind", l.Kind, "request_id", reqID)
	_, err = s.req.Post(ctx, s.endpoint, body, "application/json")
	if err != nil {
		reason, detail := classify(err)
		slog.Warn("Application rejected", "job", l.ID(), "reason", reason, "error", err)
		s.tracker.TrackAPIFailure("apply")
		return Outcome{Accepted: false, Reason: reason, Detail: detail, RequestID: reqID}, nil
	}

	s.reconcile(l)
	slog.Info("Application accepted", "job", l.ID(), "request_id", reqID)
	return Outcome{Accepted: true, RequestID: reqID}, nil
}

// reconcile optimistically removes the applied-to job from its local
// list. The next catalog refresh is the authority; this only keeps the
// visible list consistent until then.
func (s *Submitter) reconcile(l model.Listing) {
	var r Remover
	if l.IsShortTerm() {
		r = s.daily
	} else {
		r = s.longterm
	}
	if r == nil {
		return
	}
	if !r.Remove(l.ID()) {
		slog.Debug("Applied-to job already absent from local list", "job", l.ID())
	}
}

func classify(err error) (Reason, string) {
	var se *request.StatusError
	if !errors.As(err, &se) {
		return ReasonOther, err.Error()
	}
	if se.Code == 401 {
		return ReasonUnauthenticated, ""
	}
	var resp errorResponse
	detail := string(se.Body)
	if json.Unmarshal(se.Body, &resp) == nil && resp.Detail != "" {
		detail = resp.Detail
	}
	if strings.Contains(strings.ToLower(detail), "already applied") {
		return ReasonAlreadyApplied, ""
	}
	return ReasonOther, detail
}

func coverLetter(j *model.LongTermJob) string {
	return fmt.Sprintf(
		"Dear Hiring Manager,\n\nI am interested in the %s position at %s. "+
			"I believe my skills and experience make me a good fit for this role, "+
			"and I am available to start immediately.\n\nThank you for considering my application.",
		j.Title, j.Company)
}

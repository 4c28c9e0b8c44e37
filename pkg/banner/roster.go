// Package banner implements the two Banner API lookups: the course roster
// and the Banner ID to Duck ID resolution.
package banner

import (
	"context"
	"fmt"
	"net/url"

	"github.com/uoregon/roster-duckids/pkg/client"
)

// Routes used for logging and metrics labels.
const (
	RouteRoster = "roster"
	RouteDuckID = "duckid"
)

// Getter is the transport the API depends on. *client.Client satisfies it.
type Getter interface {
	GetJSON(ctx context.Context, route, path string, out any) error
}

// API fetches rosters and resolves Duck IDs.
type API struct {
	getter Getter
}

// New creates an API backed by the given transport.
func New(getter Getter) *API {
	return &API{getter: getter}
}

// Identity is a single roster entry.
type Identity struct {
	BannerID string
}

// Roster is a class roster. Instructors and Students keep the API's order.
type Roster struct {
	TermCode     string
	CRN          string
	CourseTitle  string
	SubjectCode  string
	CourseNumber string
	Instructors  []Identity
	Students     []Identity
}

// BannerIDs returns the students' Banner IDs followed by the instructors'.
// Duplicates are kept.
func (r *Roster) BannerIDs() []string {
	ids := make([]string, 0, len(r.Students)+len(r.Instructors))
	for _, s := range r.Students {
		ids = append(ids, s.BannerID)
	}
	for _, i := range r.Instructors {
		ids = append(ids, i.BannerID)
	}
	return ids
}

// rosterPayload is the wire shape of the roster response. Every field is required.
type rosterPayload struct {
	TermCode     *string           `json:"termCode" validate:"required"`
	CRN          *string           `json:"crn" validate:"required"`
	CourseTitle  *string           `json:"courseTitle" validate:"required"`
	SubjectCode  *string           `json:"subjectCode" validate:"required"`
	CourseNumber *string           `json:"courseNumber" validate:"required"`
	Instructors  []identityPayload `json:"instructors" validate:"required,dive"`
	Students     []identityPayload `json:"students" validate:"required,dive"`
}

type identityPayload struct {
	BannerID *string `json:"bannerID" validate:"required"`
}

func (p *rosterPayload) toRoster() *Roster {
	return &Roster{
		TermCode:     *p.TermCode,
		CRN:          *p.CRN,
		CourseTitle:  *p.CourseTitle,
		SubjectCode:  *p.SubjectCode,
		CourseNumber: *p.CourseNumber,
		Instructors:  toIdentities(p.Instructors),
		Students:     toIdentities(p.Students),
	}
}

func toIdentities(in []identityPayload) []Identity {
	out := make([]Identity, len(in))
	for i, p := range in {
		out[i] = Identity{BannerID: *p.BannerID}
	}
	return out
}

// RosterPath returns the roster endpoint path for a term and CRN.
func RosterPath(termCode, crn string) string {
	return fmt.Sprintf("/course/v2/roster/%s/%s", url.PathEscape(termCode), url.PathEscape(crn))
}

// FetchRoster retrieves the roster for termCode and crn.
func (a *API) FetchRoster(ctx context.Context, termCode, crn string) (*Roster, error) {
	var payload rosterPayload
	if err := a.getter.GetJSON(ctx, RouteRoster, RosterPath(termCode, crn), &payload); err != nil {
		return nil, fmt.Errorf("fetch roster %s/%s: %w", termCode, crn, err)
	}
	return payload.toRoster(), nil
}

var _ Getter = (*client.Client)(nil)

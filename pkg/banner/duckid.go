package banner

import (
	"context"
	"fmt"
	"net/url"
)

// DuckIDResponse is the person lookup response.
type DuckIDResponse struct {
	Message    string
	Data       DuckIDData
	StatusCode int
}

// DuckIDData pairs a Banner ID with its Duck ID.
type DuckIDData struct {
	BannerID string
	DuckID   string
}

type duckIDPayload struct {
	Message    *string            `json:"message" validate:"required"`
	Data       *duckIDDataPayload `json:"data" validate:"required"`
	StatusCode *int               `json:"statusCode" validate:"required"`
}

type duckIDDataPayload struct {
	BannerID *string `json:"bannerID" validate:"required"`
	DuckID   *string `json:"duckID" validate:"required"`
}

// DuckIDPath returns the person lookup path for a Banner ID.
func DuckIDPath(bannerID string) string {
	return "/person/uo/duckid/" + url.PathEscape(bannerID)
}

// LookupDuckID returns the full person lookup response for bannerID.
func (a *API) LookupDuckID(ctx context.Context, bannerID string) (*DuckIDResponse, error) {
	var payload duckIDPayload
	if err := a.getter.GetJSON(ctx, RouteDuckID, DuckIDPath(bannerID), &payload); err != nil {
		return nil, fmt.Errorf("resolve banner id %s: %w", bannerID, err)
	}
	return &DuckIDResponse{
		Message: *payload.Message,
		Data: DuckIDData{
			BannerID: *payload.Data.BannerID,
			DuckID:   *payload.Data.DuckID,
		},
		StatusCode: *payload.StatusCode,
	}, nil
}

// ResolveDuckID returns only the Duck ID for bannerID.
func (a *API) ResolveDuckID(ctx context.Context, bannerID string) (string, error) {
	resp, err := a.LookupDuckID(ctx, bannerID)
	if err != nil {
		return "", err
	}
	return resp.Data.DuckID, nil
}

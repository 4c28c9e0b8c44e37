package banner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uoregon/roster-duckids/internal/testutil"
	"github.com/uoregon/roster-duckids/pkg/client"
)

const sampleRoster = `{"termCode":"202401","crn":"12345","courseTitle":"Intro","subjectCode":"CS","courseNumber":"101","instructors":[{"bannerID":"B1"}],"students":[{"bannerID":"B2"},{"bannerID":"B3"}]}`

func newTestAPI(t *testing.T, mock *testutil.MockBanner) *API {
	t.Helper()

	cfg := client.DefaultConfig("test-key")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	require.NoError(t, err)
	return New(c)
}

func TestRosterPath(t *testing.T) {
	assert.Equal(t, "/course/v2/roster/202401/12345", RosterPath("202401", "12345"))
	assert.Equal(t, "/course/v2/roster/2024%2F01/1%202", RosterPath("2024/01", "1 2"))
}

func TestDuckIDPath(t *testing.T) {
	assert.Equal(t, "/person/uo/duckid/951000001", DuckIDPath("951000001"))
	assert.Equal(t, "/person/uo/duckid/a%2Fb", DuckIDPath("a/b"))
}

func TestFetchRoster(t *testing.T) {
	mock := testutil.NewMockBanner()
	defer mock.Close()
	mock.SetRosterResponse("202401", "12345", testutil.NewJSONResponse(sampleRoster))

	api := newTestAPI(t, mock)

	roster, err := api.FetchRoster(context.Background(), "202401", "12345")
	require.NoError(t, err)

	assert.Equal(t, "202401", roster.TermCode)
	assert.Equal(t, "12345", roster.CRN)
	assert.Equal(t, "Intro", roster.CourseTitle)
	assert.Equal(t, "CS", roster.SubjectCode)
	assert.Equal(t, "101", roster.CourseNumber)
	assert.Equal(t, []Identity{{BannerID: "B1"}}, roster.Instructors)
	assert.Equal(t, []Identity{{BannerID: "B2"}, {BannerID: "B3"}}, roster.Students)

	assert.Equal(t, 1, mock.GetAPIKeyCount("test-key"))
}

func TestFetchRoster_EmptyLists(t *testing.T) {
	mock := testutil.NewMockBanner()
	defer mock.Close()
	mock.SetRosterResponse("202401", "1", testutil.NewJSONResponse(testutil.RosterBody("202401", "1", nil, nil)))

	api := newTestAPI(t, mock)

	roster, err := api.FetchRoster(context.Background(), "202401", "1")
	require.NoError(t, err)
	assert.Empty(t, roster.BannerIDs())
}

func TestFetchRoster_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway error</html>`},
		{"missing courseTitle", `{"termCode":"202401","crn":"12345","subjectCode":"CS","courseNumber":"101","instructors":[],"students":[]}`},
		{"missing students", `{"termCode":"202401","crn":"12345","courseTitle":"Intro","subjectCode":"CS","courseNumber":"101","instructors":[]}`},
		{"null instructors", `{"termCode":"202401","crn":"12345","courseTitle":"Intro","subjectCode":"CS","courseNumber":"101","instructors":null,"students":[]}`},
		{"student without bannerID", `{"termCode":"202401","crn":"12345","courseTitle":"Intro","subjectCode":"CS","courseNumber":"101","instructors":[],"students":[{"name":"x"}]}`},
		{"crn as number", `{"termCode":"202401","crn":12345,"courseTitle":"Intro","subjectCode":"CS","courseNumber":"101","instructors":[],"students":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockBanner()
			defer mock.Close()
			mock.SetRosterResponse("202401", "12345", testutil.NewJSONResponse(tt.body))

			api := newTestAPI(t, mock)

			roster, err := api.FetchRoster(context.Background(), "202401", "12345")
			require.Error(t, err)
			assert.Nil(t, roster)
			assert.True(t, client.IsKind(err, client.ErrorKindDeserialization), "got %v", err)
		})
	}
}

func TestFetchRoster_NotFound(t *testing.T) {
	mock := testutil.NewMockBanner()
	defer mock.Close()

	api := newTestAPI(t, mock)

	_, err := api.FetchRoster(context.Background(), "202401", "99999")
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.ErrorKindStatus))
	assert.Contains(t, err.Error(), "202401/99999")
}

func TestRoster_BannerIDs(t *testing.T) {
	roster := &Roster{
		Instructors: []Identity{{BannerID: "I1"}, {BannerID: "S1"}},
		Students:    []Identity{{BannerID: "S1"}, {BannerID: "S2"}},
	}

	assert.Equal(t, []string{"S1", "S2", "I1", "S1"}, roster.BannerIDs())
}

func TestLookupDuckID(t *testing.T) {
	mock := testutil.NewMockBanner()
	defer mock.Close()
	mock.SetDuckID("B1", "duck1", 0)

	api := newTestAPI(t, mock)

	resp, err := api.LookupDuckID(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Message)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, DuckIDData{BannerID: "B1", DuckID: "duck1"}, resp.Data)
}

func TestResolveDuckID_Idempotent(t *testing.T) {
	mock := testutil.NewMockBanner()
	defer mock.Close()
	mock.SetDuckID("B2", "duck2", 0)

	api := newTestAPI(t, mock)
	ctx := context.Background()

	first, err := api.ResolveDuckID(ctx, "B2")
	require.NoError(t, err)
	second, err := api.ResolveDuckID(ctx, "B2")
	require.NoError(t, err)

	assert.Equal(t, "duck2", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, mock.GetPathCount(DuckIDPath("B2")))
}

func TestResolveDuckID_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp testutil.MockResponse
		kind client.ErrorKind
	}{
		{"missing data", testutil.NewJSONResponse(`{"message":"OK","statusCode":200}`), client.ErrorKindDeserialization},
		{"missing duckID", testutil.NewJSONResponse(`{"message":"OK","statusCode":200,"data":{"bannerID":"B9"}}`), client.ErrorKindDeserialization},
		{"statusCode as string", testutil.NewJSONResponse(`{"message":"OK","statusCode":"200","data":{"bannerID":"B9","duckID":"d"}}`), client.ErrorKindDeserialization},
		{"unauthorized", testutil.NewUnauthorizedResponse(), client.ErrorKindStatus},
		{"server error", testutil.NewServerErrorResponse(), client.ErrorKindStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockBanner()
			defer mock.Close()
			mock.SetDuckIDResponse("B9", tt.resp)

			api := newTestAPI(t, mock)

			duckID, err := api.ResolveDuckID(context.Background(), "B9")
			require.Error(t, err)
			assert.Empty(t, duckID)
			assert.True(t, client.IsKind(err, tt.kind), "got %v", err)
			assert.Contains(t, err.Error(), "B9")
		})
	}
}

package agreement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchvault/internal/domain"
)

func makeListing() []domain.Agreement {
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	return []domain.Agreement{
		{
			ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Status:      domain.StatusPending,
			Urgency:     domain.UrgencyHigh,
			RequestedAt: base,
			Requester:   &domain.User{FullName: "Ava Stone", Company: "Stonework Pictures"},
			Pitch:       &domain.Pitch{Title: "Action Movie"},
		},
		{
			ID:          uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Status:      domain.StatusPending,
			Urgency:     domain.UrgencyLow,
			RequestedAt: base.Add(24 * time.Hour),
			Requester:   &domain.User{FullName: "Ben Cole", Company: "Cole Capital"},
			Pitch:       &domain.Pitch{Title: "Drama Film"},
		},
		{
			ID:          uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Status:      domain.StatusApproved,
			Urgency:     domain.UrgencyLow,
			RequestedAt: base.Add(48 * time.Hour),
			Requester:   &domain.User{FullName: "Cara Diaz", Company: "Diaz Distribution"},
			Pitch:       &domain.Pitch{Title: "Space Documentary"},
		},
	}
}

func TestApplyQuery_Search(t *testing.T) {
	listing := makeListing()

	out := ApplyQuery(listing, domain.AgreementQuery{Search: "Action", Status: "all"})
	require.Len(t, out, 1)
	assert.Equal(t, "Action Movie", out[0].Pitch.Title)

	out = ApplyQuery(listing, domain.AgreementQuery{Search: "", Status: "all"})
	assert.Len(t, out, 3)

	// Company and requester name are part of the search surface.
	out = ApplyQuery(listing, domain.AgreementQuery{Search: "cole"})
	require.Len(t, out, 1)
	assert.Equal(t, "Ben Cole", out[0].Requester.FullName)
}

func TestApplyQuery_Filters(t *testing.T) {
	listing := makeListing()

	out := ApplyQuery(listing, domain.AgreementQuery{Status: "approved"})
	require.Len(t, out, 1)
	assert.Equal(t, domain.StatusApproved, out[0].Status)

	out = ApplyQuery(listing, domain.AgreementQuery{Urgency: "high"})
	require.Len(t, out, 1)
	assert.Equal(t, domain.UrgencyHigh, out[0].Urgency)

	out = ApplyQuery(listing, domain.AgreementQuery{Status: "all", Urgency: "all"})
	assert.Len(t, out, 3)
}

func TestApplyQuery_Sort(t *testing.T) {
	listing := makeListing()

	out := ApplyQuery(listing, domain.AgreementQuery{SortBy: domain.SortByDate, SortOrder: domain.SortDesc})
	require.Len(t, out, 3)
	assert.Equal(t, "Space Documentary", out[0].Pitch.Title)
	assert.Equal(t, "Action Movie", out[2].Pitch.Title)

	out = ApplyQuery(listing, domain.AgreementQuery{SortBy: domain.SortByDate, SortOrder: domain.SortAsc})
	assert.Equal(t, "Action Movie", out[0].Pitch.Title)

	out = ApplyQuery(listing, domain.AgreementQuery{SortBy: domain.SortByUrgency, SortOrder: domain.SortDesc})
	assert.Equal(t, domain.UrgencyHigh, out[0].Urgency)

	out = ApplyQuery(listing, domain.AgreementQuery{SortBy: domain.SortByRequester, SortOrder: domain.SortAsc})
	assert.Equal(t, "Ava Stone", out[0].Requester.FullName)
	assert.Equal(t, "Cara Diaz", out[2].Requester.FullName)
}

func TestApplyQuery_DoesNotMutateInput(t *testing.T) {
	listing := makeListing()
	first := listing[0].ID

	_ = ApplyQuery(listing, domain.AgreementQuery{SortBy: domain.SortByDate, SortOrder: domain.SortDesc})

	assert.Equal(t, first, listing[0].ID)
	assert.Len(t, listing, 3)
}

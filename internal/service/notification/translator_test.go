package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchvault/internal/domain"
)

func statusEnvelope(t *testing.T, data domain.StatusUpdateData) domain.Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return domain.Envelope{Type: domain.EnvelopeStatusUpdate, Data: raw}
}

func TestTranslate_StatusUpdateKinds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner := uuid.New()
	requester := uuid.New()
	agreementID := uuid.New()

	tests := []struct {
		name      string
		status    string
		viewer    uuid.UUID
		wantKind  domain.NotificationKind
		wantTitle string
	}{
		{"requested for owner", "requested", owner, domain.KindRequest, "New NDA request"},
		{"approved for requester", "approved", requester, domain.KindApproved, "NDA approved"},
		{"rejected for requester", "rejected", requester, domain.KindRejected, "NDA rejected"},
		{"expired", "expired", owner, domain.KindExpired, "NDA expired"},
		{"unknown status falls back to generic", "countersigned", owner, domain.KindGeneric, "Agreement update"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := statusEnvelope(t, domain.StatusUpdateData{
				ID:            agreementID,
				Status:        tt.status,
				PitchTitle:    "Ocean Heist",
				OwnerID:       owner,
				RequesterID:   requester,
				RequesterName: "Ben Cole",
			})

			n := Translate(env, tt.viewer, now)
			require.NotNil(t, n)
			assert.Equal(t, tt.wantKind, n.Kind)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.viewer, n.ActorID)
			assert.Equal(t, now, n.OccurredAt)
		})
	}
}

func TestTranslate_ActionRequiredOnlyForOwner(t *testing.T) {
	now := time.Now()
	owner := uuid.New()
	requester := uuid.New()
	env := statusEnvelope(t, domain.StatusUpdateData{
		ID:      uuid.New(),
		Status:  "requested",
		OwnerID: owner,
	})

	forOwner := Translate(env, owner, now)
	require.NotNil(t, forOwner)
	assert.True(t, forOwner.ActionRequired)

	forRequester := Translate(env, requester, now)
	require.NotNil(t, forRequester)
	assert.False(t, forRequester.ActionRequired)
}

func TestTranslate_UrgentWhenExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	soon := now.Add(3 * 24 * time.Hour)
	far := now.Add(30 * 24 * time.Hour)

	env := statusEnvelope(t, domain.StatusUpdateData{ID: uuid.New(), Status: "approved", ExpiresAt: &soon})
	n := Translate(env, uuid.New(), now)
	require.NotNil(t, n)
	assert.True(t, n.Urgent)

	env = statusEnvelope(t, domain.StatusUpdateData{ID: uuid.New(), Status: "approved", ExpiresAt: &far})
	n = Translate(env, uuid.New(), now)
	require.NotNil(t, n)
	assert.False(t, n.Urgent)
}

func TestTranslate_ExpiryWarningAlwaysUrgent(t *testing.T) {
	raw, err := json.Marshal(domain.StatusUpdateData{ID: uuid.New(), PitchTitle: "Ocean Heist"})
	require.NoError(t, err)

	n := Translate(domain.Envelope{Type: domain.EnvelopeExpiryWarning, Data: raw}, uuid.New(), time.Now())
	require.NotNil(t, n)
	assert.Equal(t, domain.KindExpiring, n.Kind)
	assert.True(t, n.Urgent)
	assert.Contains(t, n.Body, "Ocean Heist")
}

func TestTranslate_DefaultsForMissingFields(t *testing.T) {
	env := statusEnvelope(t, domain.StatusUpdateData{ID: uuid.New(), Status: "requested"})

	n := Translate(env, uuid.New(), time.Now())
	require.NotNil(t, n)
	assert.Equal(t, "Someone requested access to a pitch", n.Body)
}

func TestTranslate_UnknownTypeSkipped(t *testing.T) {
	env := domain.Envelope{Type: "presence-ping", ID: "p1", Data: json.RawMessage(`{}`)}

	assert.Nil(t, Translate(env, uuid.New(), time.Now()))
}

func TestTranslate_DeterministicCompositeID(t *testing.T) {
	now := time.Now()
	viewer := uuid.New()
	agreementID := uuid.New()

	approved := statusEnvelope(t, domain.StatusUpdateData{ID: agreementID, Status: "approved"})
	expired := statusEnvelope(t, domain.StatusUpdateData{ID: agreementID, Status: "expired"})

	first := Translate(approved, viewer, now)
	second := Translate(approved, viewer, now.Add(time.Hour))
	other := Translate(expired, viewer, now)

	require.NotNil(t, first)
	require.NotNil(t, second)
	require.NotNil(t, other)

	// Same source and kind give the same id across deliveries; a different
	// kind for the same source gives a different id.
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestTranslate_MessageAndViewEnvelopes(t *testing.T) {
	now := time.Now()
	viewer := uuid.New()

	msgRaw, err := json.Marshal(domain.MessageData{ID: "msg-9", SenderName: "Ava", Preview: "can we talk terms?"})
	require.NoError(t, err)

	n := Translate(domain.Envelope{Type: domain.EnvelopeMessage, Data: msgRaw}, viewer, now)
	require.NotNil(t, n)
	assert.Equal(t, domain.KindMessage, n.Kind)
	assert.Equal(t, "Ava: can we talk terms?", n.Body)

	viewRaw, err := json.Marshal(domain.ViewUpdateData{ID: "view-3", ViewerName: "Ben", PitchTitle: "Ocean Heist"})
	require.NoError(t, err)

	n = Translate(domain.Envelope{Type: domain.EnvelopeViewUpdate, Data: viewRaw}, viewer, now)
	require.NotNil(t, n)
	assert.Equal(t, domain.KindView, n.Kind)
	assert.Equal(t, "Ben viewed Ocean Heist", n.Body)
}

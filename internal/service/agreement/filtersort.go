package agreement

import (
	"sort"
	"strings"
	"time"

	"pitchvault/internal/domain"
)

// ApplyQuery filters then sorts a listing. The input slice is never mutated;
// callers get a fresh sequence.
func ApplyQuery(agreements []domain.Agreement, q domain.AgreementQuery) []domain.Agreement {
	q.Normalize()

	out := filterAgreements(agreements, q)
	sortAgreements(out, q.SortBy, q.SortOrder)
	return out
}

func filterAgreements(agreements []domain.Agreement, q domain.AgreementQuery) []domain.Agreement {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.Agreement, 0, len(agreements))
	for _, a := range agreements {
		if q.Status != "" && string(a.Status) != q.Status {
			continue
		}
		if q.Urgency != "" && string(a.Urgency) != q.Urgency {
			continue
		}
		if search != "" && !matchesSearch(&a, search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// matchesSearch checks the fixed search surface: requester name, requester
// company, pitch title.
func matchesSearch(a *domain.Agreement, search string) bool {
	if a.Requester != nil {
		if strings.Contains(strings.ToLower(a.Requester.FullName), search) {
			return true
		}
		if strings.Contains(strings.ToLower(a.Requester.Company), search) {
			return true
		}
	}
	if a.Pitch != nil && strings.Contains(strings.ToLower(a.Pitch.Title), search) {
		return true
	}
	return false
}

// sortAgreements orders by a single comparator per key; descending simply
// flips the same comparator rather than using a second one.
func sortAgreements(agreements []domain.Agreement, key domain.SortKey, order domain.SortOrder) {
	sort.SliceStable(agreements, func(i, j int) bool {
		c := compareAgreements(&agreements[i], &agreements[j], key)
		if order == domain.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func compareAgreements(a, b *domain.Agreement, key domain.SortKey) int {
	switch key {
	case domain.SortByUrgency:
		if d := a.Urgency.Rank() - b.Urgency.Rank(); d != 0 {
			return d
		}
	case domain.SortByRequester:
		if d := strings.Compare(strings.ToLower(requesterName(a)), strings.ToLower(requesterName(b))); d != 0 {
			return d
		}
	}

	// Date is the primary key for SortByDate and the tie-break for the rest.
	at, bt := relevantTime(a), relevantTime(b)
	if at.Before(bt) {
		return -1
	}
	if at.After(bt) {
		return 1
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func requesterName(a *domain.Agreement) string {
	if a.Requester == nil {
		return ""
	}
	return a.Requester.FullName
}

// relevantTime is the most recent lifecycle timestamp the agreement carries.
func relevantTime(a *domain.Agreement) time.Time {
	t := a.RequestedAt
	for _, candidate := range []*time.Time{a.RespondedAt, a.SignedAt, a.RevokedAt} {
		if candidate != nil && candidate.After(t) {
			t = *candidate
		}
	}
	return t
}

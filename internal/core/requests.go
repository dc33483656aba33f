package core

import (
	"sort"
	"strings"
)

const StatusFilterAll = "all"

// RequestFilter selects withdrawal requests for the review table.
type RequestFilter struct {
	// Status is "all" (or empty) to pass everything, otherwise an exact
	// case-insensitive status match.
	Status string
	// Search keeps a request only when the lowercased resolved display
	// name, email or client account contains it as a substring.
	Search string
}

// ProfileIndex maps user ids to their profiles.
type ProfileIndex map[string]Profile

// BuildProfileIndex indexes profiles by user id.
func BuildProfileIndex(profiles []Profile) ProfileIndex {
	idx := make(ProfileIndex, len(profiles))
	for _, p := range profiles {
		idx[p.UserID] = p
	}
	return idx
}

// FilterRequests applies status and search filtering and returns the result
// sorted by creation time, newest first.
func FilterRequests(withdrawals []Withdrawal, f RequestFilter, profiles ProfileIndex) []Withdrawal {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	query := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Withdrawal, 0, len(withdrawals))
	for _, w := range withdrawals {
		if status != "" && status != StatusFilterAll && !strings.EqualFold(string(w.Status), status) {
			continue
		}
		if query != "" && !matchesQuery(w, query, profiles) {
			continue
		}
		out = append(out, w)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func matchesQuery(w Withdrawal, query string, profiles ProfileIndex) bool {
	name := strings.ToLower(ResolveDisplayName(w.OwnerID, profiles))
	if strings.Contains(name, query) {
		return true
	}
	if p, ok := profiles[w.OwnerID]; ok && strings.Contains(strings.ToLower(p.Email), query) {
		return true
	}
	return strings.Contains(strings.ToLower(w.ClientAccount), query)
}

// ResolveDisplayName picks the best human label for an owner: the trimmed
// profile name, else a title-cased name derived from the email local part,
// else a truncated owner id.
func ResolveDisplayName(ownerID string, profiles ProfileIndex) string {
	p, ok := profiles[ownerID]
	if ok {
		if name := strings.TrimSpace(p.FullName); name != "" {
			return name
		}
		if name := nameFromEmail(p.Email); name != "" {
			return name
		}
	}
	if len(ownerID) > 8 {
		return ownerID[:8]
	}
	return ownerID
}

func nameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return ""
	}
	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, t := range tokens {
		tokens[i] = capitalize(t)
	}
	return strings.Join(tokens, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

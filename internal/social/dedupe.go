package social

import "spacebook/internal/model"

// FilterKnown removes the logged-in user, existing friends, and users
// with a pending friend request from search results, keyed by stable
// user ID. Result order is preserved.
func FilterKnown(results []model.User, selfID string, friends []model.User, pending []model.FriendRequest) []model.User {
	known := make(map[string]struct{}, len(friends)+len(pending)+1)
	if selfID != "" {
		known[selfID] = struct{}{}
	}
	for _, f := range friends {
		known[f.ID] = struct{}{}
	}
	for _, r := range pending {
		known[r.UserID] = struct{}{}
	}
	out := make([]model.User, 0, len(results))
	for _, u := range results {
		if _, ok := known[u.ID]; ok {
			continue
		}
		known[u.ID] = struct{}{} // also drop duplicate rows in the results
		out = append(out, u)
	}
	return out
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dekarrin/claripy/server/dao"
	"github.com/dekarrin/claripy/server/middle"
	"github.com/dekarrin/claripy/server/result"
	"github.com/google/uuid"
)

// HTTPGetHistory returns a HandlerFunc that retrieves past translation runs.
// An unauthenticated client sees all runs; an authenticated one sees only
// their own, unless they are an admin requesting the unfiltered list via
// ?all=1.
//
// The handler has requirements for the request context it receives: the
// context must denote whether the client making the request is logged-in.
func (api API) HTTPGetHistory() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetHistory)
}

func (api API) epGetHistory(req *http.Request) result.Result {
	limit := 20
	if limitStr := req.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return result.BadRequest("limit: must be an integer", "limit: %s", err.Error())
		}
		limit = parsed
	}

	var userID *uuid.UUID
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)
	if loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		wantAll := req.URL.Query().Get("all") != "" && user.Role == dao.Admin
		if !wantAll {
			userID = &user.ID
		}
	}

	entries, err := api.Backend.RecentHistory(req.Context(), userID, limit)
	if err != nil {
		return result.InternalServerError("could not retrieve history: " + err.Error())
	}

	resp := make([]HistoryEntryModel, len(entries))
	for i, e := range entries {
		resp[i] = HistoryEntryModel{
			ID:         e.ID.String(),
			Direction:  string(e.Direction),
			SourceText: e.SourceText,
			ResultText: e.ResultText,
			Created:    e.Created.Format(time.RFC3339),
		}
	}

	return result.OK(resp, "got %d history entries", len(resp))
}

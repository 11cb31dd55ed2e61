package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/claripy/internal/history"
	"github.com/dekarrin/claripy/internal/lang"
	"github.com/dekarrin/claripy/server/dao"
	"github.com/dekarrin/claripy/server/middle"
	"github.com/dekarrin/claripy/server/result"
	"github.com/google/uuid"
)

// HTTPCreateTranslation returns a HandlerFunc that translates a source
// snippet between ClariPy and PyLite and records the run in history.
//
// The handler has requirements for the request context it receives: the
// context must denote whether the client making the request is logged-in,
// so the run can be attributed to them in history.
func (api API) HTTPCreateTranslation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateTranslation)
}

func parseDirection(s string) (history.Direction, error) {
	switch s {
	case "to_pylite":
		return history.ToPyLite, nil
	case "to_claripy":
		return history.ToClariPy, nil
	default:
		return "", errors.New("direction must be \"to_pylite\" or \"to_claripy\"")
	}
}

func (api API) epCreateTranslation(req *http.Request) result.Result {
	var reqBody TranslateRequest
	if err := parseJSON(req, &reqBody); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if reqBody.Source == "" {
		return result.BadRequest("source: property is empty or missing from request", "empty source")
	}

	dir, err := parseDirection(reqBody.Direction)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	var userID *uuid.UUID
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)
	if loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		userID = &user.ID
	}

	tr, err := api.Backend.Translate(req.Context(), userID, dir, reqBody.Source)
	if err != nil {
		return result.BadRequest(err.Error(), "translate %s: %s", reqBody.Direction, err.Error())
	}

	resp := TranslateResponse{
		Output:  tr.Output,
		EntryID: tr.EntryID.String(),
	}
	if reqBody.IncludeTree {
		resp.Tree = toTreeNode(tr.Tree)
	}

	return result.Created(resp, "translated %s (%s)", reqBody.Direction, tr.EntryID)
}

func toTreeNode(n *lang.DisplayNode) *TreeNode {
	if n == nil {
		return nil
	}
	out := &TreeNode{Label: n.Label}
	for _, c := range n.Children {
		out.Children = append(out.Children, toTreeNode(c))
	}
	return out
}

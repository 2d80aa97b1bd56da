package report

import (
	"context"
	"errors"

	"github.com/reporthub/api/internal/model"
)

// Bulk action names
const (
	ActionApprove      = "approve"
	ActionReject       = "reject"
	ActionDelete       = "delete"
	ActionMarkReviewed = "mark_reviewed"
)

var ErrInvalidAction = errors.New("invalid bulk action")

// BulkResult aggregates the outcome of a bulk action. Failed maps report id
// to the error message for that id.
type BulkResult struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
}

// BulkAction applies action to every id independently. A failure on one id
// never aborts the others; the per-id outcomes are collected into the result.
func (s *Service) BulkAction(ctx context.Context, identity model.Identity, action string, ids []string) (*BulkResult, error) {
	if !identity.IsAdmin() {
		return nil, ErrUnauthorized
	}
	switch action {
	case ActionApprove, ActionReject, ActionDelete, ActionMarkReviewed:
	default:
		return nil, ErrInvalidAction
	}

	result := &BulkResult{Failed: make(map[string]string)}
	for _, id := range ids {
		var err error
		switch action {
		case ActionApprove:
			_, err = s.Approve(ctx, identity, id, "")
		case ActionReject:
			_, err = s.Reject(ctx, identity, id, "")
		case ActionMarkReviewed:
			_, err = s.MarkReviewed(ctx, identity, id, "")
		case ActionDelete:
			err = s.Delete(ctx, identity, id)
		}
		if err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

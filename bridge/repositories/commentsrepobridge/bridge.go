// Package commentsrepobridge contains HTTP route registration for Comment.
// Comments are created and listed through the task routes; this bridge
// covers editing and removing one's own comment.
package commentsrepobridge

import "github.com/companionhealth/companion/core/repositories/commentsrepo"

// bridge provides HTTP handlers for Comment operations.
type bridge struct {
	commentRepository *commentsrepo.Repository
}

func newBridge(commentRepository *commentsrepo.Repository) *bridge {
	return &bridge{
		commentRepository: commentRepository,
	}
}

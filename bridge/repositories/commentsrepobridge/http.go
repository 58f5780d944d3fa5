package commentsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Comment bridge.
type Config struct {
	Log        *logger.Logger
	Repository *commentsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Comment.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.PUT("/comments/{comment_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/comments/{comment_id}", b.httpDelete, cfg.Middleware...)
}

// ownComment loads the comment and checks the caller authored it.
func (b *bridge) ownComment(ctx context.Context, userID string, commentID string) (commentsrepo.Comment, web.Encoder) {
	comment, err := b.commentRepository.QueryByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return commentsrepo.Comment{}, errs.New(errs.NotFound, err)
		}
		return commentsrepo.Comment{}, errs.Newf(errs.Internal, "query comment[%s]: %s", commentID, err)
	}

	if comment.AuthorID != userID {
		return commentsrepo.Comment{}, errs.Newf(errs.PermissionDenied, "comment belongs to another user")
	}

	return comment, nil
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	commentID := web.Param(r, "comment_id")

	if _, errResp := b.ownComment(ctx, mid.GetUserID(ctx), commentID); errResp != nil {
		return errResp
	}

	var uc commentsrepo.UpdateComment
	if err := web.Decode(r, &uc); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	comment, err := b.commentRepository.Update(ctx, commentID, uc)
	if err != nil {
		return errs.Newf(errs.Internal, "update comment[%s]: %s", commentID, err)
	}

	return fopbridge.NewRecordResponse(comment)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	commentID := web.Param(r, "comment_id")

	if _, errResp := b.ownComment(ctx, mid.GetUserID(ctx), commentID); errResp != nil {
		return errResp
	}

	if err := b.commentRepository.Delete(ctx, commentID); err != nil {
		return errs.Newf(errs.Internal, "delete comment[%s]: %s", commentID, err)
	}

	return nil
}

package institutionsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/core/repositories/institutionsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Institution bridge.
type Config struct {
	Log        *logger.Logger
	Repository *institutionsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers the read side: the directory plus the reference
// data onboarding needs.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/institutions", b.httpList, cfg.Middleware...)
	group.GET("/institutions/{institution_id}", b.httpGetByID, cfg.Middleware...)
	group.GET("/cancer-types", b.httpListCancerTypes, cfg.Middleware...)
	group.GET("/specializations", b.httpListSpecializations, cfg.Middleware...)
}

// AddAdminHttpRoutes registers the directory management routes reserved for
// the admin surface.
func AddAdminHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.POST("/institutions", b.httpCreate, cfg.Middleware...)
	group.PUT("/institutions/{institution_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/institutions/{institution_id}", b.httpDelete, cfg.Middleware...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	institutions, err := b.institutionRepository.Query(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "query institutions: %s", err)
	}

	return fopbridge.NewRecordsResponse(institutions)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	institutionID := web.Param(r, "institution_id")

	institution, err := b.institutionRepository.QueryByID(ctx, institutionID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query institution[%s]: %s", institutionID, err)
	}

	return fopbridge.NewRecordResponse(institution)
}

func (b *bridge) httpListCancerTypes(ctx context.Context, r *http.Request) web.Encoder {
	cancerTypes, err := b.institutionRepository.QueryCancerTypes(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "query cancer types: %s", err)
	}

	return fopbridge.NewRecordsResponse(cancerTypes)
}

func (b *bridge) httpListSpecializations(ctx context.Context, r *http.Request) web.Encoder {
	specializations, err := b.institutionRepository.QuerySpecializations(ctx)
	if err != nil {
		return errs.Newf(errs.Internal, "query specializations: %s", err)
	}

	return fopbridge.NewRecordsResponse(specializations)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var ni institutionsrepo.CreateInstitution
	if err := web.Decode(r, &ni); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	institution, err := b.institutionRepository.Create(ctx, ni)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return errs.New(errs.Conflict, err)
		}
		return errs.Newf(errs.Internal, "create institution: %s", err)
	}

	return fopbridge.NewRecordResponse(institution)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	institutionID := web.Param(r, "institution_id")

	var ui institutionsrepo.UpdateInstitution
	if err := web.Decode(r, &ui); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	institution, err := b.institutionRepository.Update(ctx, institutionID, ui)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "update institution[%s]: %s", institutionID, err)
	}

	return fopbridge.NewRecordResponse(institution)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	institutionID := web.Param(r, "institution_id")

	if err := b.institutionRepository.Delete(ctx, institutionID); err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "delete institution[%s]: %s", institutionID, err)
	}

	return nil
}

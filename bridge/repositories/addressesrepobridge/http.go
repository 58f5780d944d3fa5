package addressesrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/core/repositories/addressesrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the Address bridge.
type Config struct {
	Log        *logger.Logger
	Repository *addressesrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for Address.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	group.GET("/addresses/{address_id}", b.httpGetByID, cfg.Middleware...)
	group.POST("/addresses", b.httpCreate, cfg.Middleware...)
	group.PUT("/addresses/{address_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/addresses/{address_id}", b.httpDelete, cfg.Middleware...)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	addressID := web.Param(r, "address_id")

	address, err := b.addressRepository.QueryByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "query address[%s]: %s", addressID, err)
	}

	return fopbridge.NewRecordResponse(address)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var na addressesrepo.CreateAddress
	if err := web.Decode(r, &na); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	address, err := b.addressRepository.Create(ctx, na)
	if err != nil {
		return errs.Newf(errs.Internal, "create address: %s", err)
	}

	return fopbridge.NewRecordResponse(address)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	addressID := web.Param(r, "address_id")

	var ua addressesrepo.UpdateAddress
	if err := web.Decode(r, &ua); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	address, err := b.addressRepository.Update(ctx, addressID, ua)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "update address[%s]: %s", addressID, err)
	}

	return fopbridge.NewRecordResponse(address)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	addressID := web.Param(r, "address_id")

	if err := b.addressRepository.Delete(ctx, addressID); err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return errs.New(errs.NotFound, err)
		}
		return errs.Newf(errs.Internal, "delete address[%s]: %s", addressID, err)
	}

	return nil
}

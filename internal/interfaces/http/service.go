package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/application"
	interfaces "github.com/chro-network/chro-marketplace/internal/interfaces"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// LedgerService is implemented by the in-process reference ledgers and
// exposed through the ledger routes, if given.
type LedgerService interface {
	BalanceOf(ctx context.Context, account string) (uint64, error)
	Allowance(ctx context.Context, owner string) (uint64, error)
	Approve(owner string, amount uint64) error
	OwnerOf(ctx context.Context, collection string, assetID uint64) (string, error)
	IsApproved(ctx context.Context, collection, holder string) (bool, error)
	SetApprovalForAll(collection, holder string, approved bool) error
}

type ServiceOpts struct {
	Address       string
	AuthSecret    string
	EnableMetrics bool

	MarketplaceSvc application.MarketplaceService
	OperatorSvc    application.OperatorService
	Ledger         LedgerService
	EventStream    EventStream
}

func (o ServiceOpts) validate() error {
	if _, _, err := net.SplitHostPort(o.Address); err != nil {
		return fmt.Errorf("invalid listening address %s: %s", o.Address, err)
	}
	if len(o.AuthSecret) <= 0 {
		return fmt.Errorf("missing auth secret")
	}
	if o.MarketplaceSvc == nil {
		return fmt.Errorf("marketplace app service must not be null")
	}
	if o.OperatorSvc == nil {
		return fmt.Errorf("operator app service must not be null")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           newRouter(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// NewHandler returns the handler serving the HTTP API without binding it to
// any address.
func NewHandler(opts ServiceOpts) (http.Handler, error) {
	opts.Address = ":0"
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return newRouter(opts), nil
}

func (s *service) Start() error {
	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()

	log.Infof("http server listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http server did not shut down gracefully")
		return
	}
	log.Info("http server stopped")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"funpass/config"
	"funpass/db"
	funpassHttp "funpass/http"
	"funpass/message/event"
	"funpass/pricing"
	observability "funpass/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	addr string

	conn          db.DB
	repo          db.PricingRepository
	bus           *event.Bus
	editor        *pricing.Editor
	board         *pricing.PriceBoard
	echoRouter    *echo.Echo
	traceProvider *tracesdk.TracerProvider
}

func New(ctx context.Context, cfg config.Config) (*Service, error) {
	traceProvider, err := observability.ConfigureTraceProvider(cfg.Tracing.JaegerEndpoint)
	if err != nil {
		return nil, err
	}

	conn, err := db.NewDBConn(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, errors.Join(err, traceProvider.Shutdown(ctx))
	}

	closeOnErr := func(err error) error {
		return errors.Join(err, conn.Close(), traceProvider.Shutdown(ctx))
	}

	if err := conn.MigrateSchema(ctx); err != nil {
		return nil, closeOnErr(fmt.Errorf("could not migrate schema: %w", err))
	}

	repo := db.NewPricingRepository(&conn)
	bus := event.NewBus()

	editor := pricing.NewEditor(repo, bus)
	if _, err := editor.Load(ctx); err != nil {
		return nil, closeOnErr(fmt.Errorf("could not load prices: %w", err))
	}

	board, err := pricing.NewPriceBoard(ctx, repo, bus)
	if err != nil {
		return nil, closeOnErr(fmt.Errorf("could not build price board: %w", err))
	}

	echoRouter := funpassHttp.NewHttpRouter(editor, board)

	return &Service{
		addr:          cfg.HTTP.Addr,
		conn:          conn,
		repo:          repo,
		bus:           bus,
		editor:        editor,
		board:         board,
		echoRouter:    echoRouter,
		traceProvider: traceProvider,
	}, nil
}

func (s *Service) Editor() *pricing.Editor {
	return s.editor
}

func (s *Service) Board() *pricing.PriceBoard {
	return s.board
}

func (s *Service) Bus() *event.Bus {
	return s.bus
}

func (s *Service) Repository() db.PricingRepository {
	return s.repo
}

// Run serves the admin API until ctx is cancelled.
func (s *Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		log.FromContext(ctx).WithField("addr", s.addr).Info("Starting pricing admin API")

		err := s.echoRouter.Start(s.addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}

func (s *Service) Close(ctx context.Context) error {
	s.board.Close()

	return errors.Join(
		s.conn.Close(),
		s.traceProvider.Shutdown(ctx),
	)
}

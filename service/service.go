package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ticketing/db"
	"ticketing/document"
	"ticketing/gateway"
	"ticketing/http"
	"ticketing/notification"
	"ticketing/payment"
	"ticketing/pubsub"
	"ticketing/ticket"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	db              *sqlx.DB
	redisClient     *redis.Client
	watermillRouter *message.Router
	httpServer      *http.Server
}

func New(
	addr string,
	jwtSecret string,
	returnURL string,
	dbConn *sqlx.DB,
	redisClient *redis.Client,
	paymentGateway gateway.PaymentGateway,
	mailClient gateway.MailClient,
) Service {
	eventsRepo := db.NewEventsPostgresRepository(dbConn)
	ticketsRepo := db.NewTicketsPostgresRepository(dbConn)
	pendingRepo := db.NewPendingPurchasesPostgresRepository(dbConn)
	engagementRepo := db.NewEngagementPostgresRepository(dbConn)

	issuer := ticket.NewIssuer(eventsRepo, ticketsRepo)
	validator := ticket.NewValidator(ticketsRepo)
	dispatcher := notification.NewDispatcher(mailClient, document.NewBuilder())
	bridge := payment.NewBridge(paymentGateway, eventsRepo, pendingRepo, issuer, returnURL)

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	eventProcessorConfig := pubsub.NewEventProcessorConfig(redisClient, watermillLogger)
	eventsHandler := pubsub.NewHandler(eventsRepo, ticketsRepo, dispatcher)

	watermillRouter, err := pubsub.NewWatermillRouter(
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	httpServer := http.NewServer(
		addr,
		jwtSecret,
		issuer,
		validator,
		eventsRepo,
		engagementRepo,
		bridge,
	)

	return Service{
		db:              dbConn,
		redisClient:     redisClient,
		watermillRouter: watermillRouter,
		httpServer:      httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	watermillLogger := log.NewWatermill(log.FromContext(ctx))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		return pubsub.RunForwarder(ctx, s.db, s.redisClient, watermillLogger)
	})

	g.Go(func() error {
		// the HTTP server must not be healthy before the router is ready
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}

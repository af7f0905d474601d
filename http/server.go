package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"ticketing/entity"
	"ticketing/payment"
)

type TicketIssuer interface {
	Purchase(ctx context.Context, purchaser entity.User, eventID, ticketType string, quantity int) ([]entity.Ticket, error)
	FindByUser(ctx context.Context, userID string) ([]entity.Ticket, error)
}

type TicketValidator interface {
	Validate(ctx context.Context, ticketID string, requester entity.User) (entity.TicketValidation, error)
}

type EventsRepository interface {
	Store(ctx context.Context, event entity.Event) error
	Get(ctx context.Context, eventID string) (entity.Event, error)
	FindAll(ctx context.Context) ([]entity.Event, error)
}

type EngagementRepository interface {
	AddInterest(ctx context.Context, eventID, userID string) error
	AddRating(ctx context.Context, eventID, userID string, value int) error
}

type PaymentBridge interface {
	Initiate(ctx context.Context, purchaser entity.User, req payment.InitiateRequest) (string, error)
	HandleCallback(ctx context.Context, transactionRef, amount string) error
}

type Server struct {
	addr           string
	e              *echo.Echo
	issuer         TicketIssuer
	validator      TicketValidator
	eventsRepo     EventsRepository
	engagementRepo EngagementRepository
	paymentBridge  PaymentBridge
}

func NewServer(
	addr string,
	jwtSecret string,
	issuer TicketIssuer,
	validator TicketValidator,
	eventsRepo EventsRepository,
	engagementRepo EngagementRepository,
	paymentBridge PaymentBridge,
) *Server {
	e := echoHTTP.NewEcho()
	e.Use(otelecho.Middleware("ticketing"))
	e.HTTPErrorHandler = httpErrorHandler(e)

	server := &Server{
		addr:           addr,
		e:              e,
		issuer:         issuer,
		validator:      validator,
		eventsRepo:     eventsRepo,
		engagementRepo: engagementRepo,
		paymentBridge:  paymentBridge,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/events", server.GetEvents)
	e.GET("/events/:event_id", server.GetEvent)
	e.GET("/payments/callback", server.GetPaymentCallback)

	auth := JWTAuth(jwtSecret)

	e.POST("/events", server.PostEvents, auth, RequireCapability(entity.CapabilityOrganizer))
	e.POST("/tickets/:ticket_id/validation", server.PostTicketValidation, auth, RequireCapability(entity.CapabilityOrganizer))

	e.POST("/events/:event_id/tickets", server.PostTickets, auth, RequireCapability(entity.CapabilityAttendee))
	e.GET("/tickets", server.GetMyTickets, auth, RequireCapability(entity.CapabilityAttendee))
	e.POST("/events/:event_id/interest", server.PostInterest, auth, RequireCapability(entity.CapabilityAttendee))
	e.POST("/events/:event_id/rating", server.PostRating, auth, RequireCapability(entity.CapabilityAttendee))
	e.POST("/payments", server.PostPayments, auth, RequireCapability(entity.CapabilityAttendee))

	return server
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(ctx)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

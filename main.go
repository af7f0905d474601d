package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jessevdk/go-flags"

	"ticketing/db"
	"ticketing/gateway"
	"ticketing/pubsub"
	"ticketing/service"
	"ticketing/tracing"
)

type config struct {
	HTTPAddr string `long:"http-addr" env:"HTTP_ADDR" default:":8080" description:"HTTP listen address"`

	PostgresURL string `long:"postgres-url" env:"POSTGRES_URL" required:"true" description:"Postgres connection string"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" required:"true" description:"Redis address"`

	JWTSecret string `long:"jwt-secret" env:"JWT_SECRET" required:"true" description:"HS256 secret for API tokens"`

	PaymentGatewayURL     string        `long:"payment-gateway-url" env:"PAYMENT_GATEWAY_URL" required:"true" description:"payment gateway base URL"`
	PaymentGatewayKey     string        `long:"payment-gateway-key" env:"PAYMENT_GATEWAY_KEY" required:"true" description:"payment gateway secret key"`
	PaymentGatewayTimeout time.Duration `long:"payment-gateway-timeout" env:"PAYMENT_GATEWAY_TIMEOUT" default:"10s" description:"payment gateway request timeout"`
	PaymentReturnURL      string        `long:"payment-return-url" env:"PAYMENT_RETURN_URL" required:"true" description:"URL the gateway redirects buyers back to"`

	SMTPAddr     string `long:"smtp-addr" env:"SMTP_ADDR" required:"true" description:"SMTP server address (host:port)"`
	SMTPHost     string `long:"smtp-host" env:"SMTP_HOST" description:"SMTP host for auth, defaults to the host part of the address"`
	SMTPUsername string `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP username"`
	SMTPPassword string `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
	SMTPFrom     string `long:"smtp-from" env:"SMTP_FROM" required:"true" description:"sender address for outgoing mail"`
	SMTPFromName string `long:"smtp-from-name" env:"SMTP_FROM_NAME" default:"Ticketing" description:"sender name for outgoing mail"`

	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces" description:"Jaeger collector endpoint"`
}

func main() {
	var cfg config
	if _, err := flags.Parse(&cfg); err != nil {
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	dbConn, err := db.Open(cfg.PostgresURL)
	if err != nil {
		log.FromContext(ctx).WithError(err).Fatal("failed to connect to Postgres")
	}
	defer dbConn.Close()

	redisClient := pubsub.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	if cfg.SMTPHost == "" {
		if host, _, err := net.SplitHostPort(cfg.SMTPAddr); err == nil {
			cfg.SMTPHost = host
		}
	}

	paymentGateway := gateway.NewPaymentClient(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey, cfg.PaymentGatewayTimeout)
	mailClient := gateway.NewSMTPClient(gateway.SMTPConfig{
		Addr:     cfg.SMTPAddr,
		Host:     cfg.SMTPHost,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	svc := service.New(
		cfg.HTTPAddr,
		cfg.JWTSecret,
		cfg.PaymentReturnURL,
		dbConn,
		redisClient,
		paymentGateway,
		mailClient,
	)

	if err := svc.Run(ctx); err != nil {
		log.FromContext(ctx).WithError(err).Fatal("service stopped with error")
	}
}

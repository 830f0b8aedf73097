package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revive/internal/campaign"
	"revive/internal/db"
	"revive/internal/identity"
	"revive/internal/message"
	"revive/internal/notify"
	"revive/internal/profile"
	"revive/internal/server"
	"revive/internal/storage"
	"revive/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)
	s3Client := s3.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	campaignRepo := store.NewCampaignRepository(pool)
	applicationRepo := store.NewApplicationRepository(pool)
	notificationRepo := store.NewNotificationRepository(pool)
	messageRepo := store.NewMessageRepository(pool)
	statsRepo := store.NewStatsRepository(pool)

	sink := notify.Chain{notify.NewStoreSink(notificationRepo)}
	if config.AMQPURL != "" {
		publisher, err := notify.DialPublisher(config.AMQPURL, config.AMQPExchange)
		if err != nil {
			return err
		}
		defer publisher.Close()

		sink = append(sink, publisher)
		logger.WithField("exchange", config.AMQPExchange).Info("publishing notifications to amqp")
	}

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := identity.JWKSURL(config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		identity.NewVerifier(logger, jwkCache, config.CognitoIssuerURL, config.CognitoClientID, userRepo),
		userRepo,
		campaign.NewManager(logger, campaignRepo, applicationRepo, userRepo, sink),
		notify.NewService(notificationRepo),
		message.NewService(logger, messageRepo, userRepo, sink),
		profile.NewService(logger, userRepo, statsRepo),
		storage.NewImageStorage(s3Client, config.S3BucketName, config.S3PublicBaseURL),
		pool,
	)
	if err != nil {
		return err
	}

	logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)

	return runServer(ctx, logger, srv, 10*time.Second)
}

type lifecycle interface {
	Start() error
	Stop(ctx context.Context) error
}

// runServer blocks until ctx is done or the server stops on its own. Start
// failures are returned so the caller's deferred cleanup still runs.
func runServer(ctx context.Context, logger logrus.FieldLogger, srv lifecycle, shutdownTimeout time.Duration) error {
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

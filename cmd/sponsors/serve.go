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

	"sponsors/internal/auth"
	"sponsors/internal/db"
	"sponsors/internal/media"
	"sponsors/internal/server"
	"sponsors/internal/storage"
	"sponsors/internal/store"

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

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return err
	}

	if config.Environment == "development" {
		logger.SetLevel(logrus.DebugLevel)
	}

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

	sponsorsRepo := store.NewSponsorRepository(pool)
	levelsRepo := store.NewLevelRepository(pool)
	mediaRepo := store.NewMediaRepository(pool)

	registry := media.NewRegistry(
		logger,
		mediaRepo,
		storage.NewS3Storage(s3Client, config.S3BucketName),
		config.S3KeyPrefix,
		time.Duration(config.MediaURLTTLSec)*time.Second,
	)

	// Without a bucket, logos are still registered but uploads are not served.
	var mediaService server.MediaService
	if config.S3BucketName != "" {
		mediaService = registry
	} else {
		logger.Warn("S3_BUCKET_NAME is not set, media routes are disabled")
	}

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwk with cache: %w", err)
	}

	cookie, err := loadCookieCodec(config)
	if err != nil {
		return err
	}

	authorizer := auth.NewJWTAuthorizer(logger, auth.Options{
		Keys:       jwkCache,
		JWKSURL:    jwksURL,
		Groups:     cognitoClient,
		UserPoolID: config.CognitoUserPoolID,
		Cookie:     cookie,
		CookieName: config.CookieName,
		RolesClaim: config.RolesClaim,
		AdminRole:  config.AdminRole,
	})

	srv, err := server.New(
		config,
		logger,
		sponsorsRepo,
		levelsRepo,
		media.NewLogoResolver(registry),
		mediaService,
		authorizer,
	)
	if err != nil {
		return err
	}

	component := srv.Component()
	logger.WithFields(logrus.Fields{
		"component": component.Name,
		"data_path": component.DataPath,
	}).Info("component registered")

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

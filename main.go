package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mantisgestion/drive-migrator/config"
	"github.com/mantisgestion/drive-migrator/database"
	"github.com/mantisgestion/drive-migrator/drive"
	"github.com/mantisgestion/drive-migrator/handler"
	"github.com/mantisgestion/drive-migrator/pkg/metrics"
	"github.com/mantisgestion/drive-migrator/repository"
	"github.com/mantisgestion/drive-migrator/router"
	"github.com/mantisgestion/drive-migrator/service"
)

func main() {
	getToken := flag.Bool("get-refresh-token", false, "obtain a Drive refresh token interactively and exit")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if *getToken {
		// Only the OAuth client settings are needed for the consent flow.
		_ = godotenv.Load()
		if err := obtainRefreshToken(drive.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URI"),
		}); err != nil {
			logger.Fatalf("could not obtain refresh token: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	driveCfg := drive.Config{
		ClientID:     cfg.Drive.ClientID,
		ClientSecret: cfg.Drive.ClientSecret,
		RedirectURL:  cfg.Drive.RedirectURL,
		RefreshToken: cfg.Drive.RefreshToken,
	}

	ctx := context.Background()
	driveClient, err := drive.NewClient(ctx, driveCfg)
	if err != nil {
		logger.Fatalf("drive client error: %v", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Fatalf("database error: %v", err)
	}

	policy, err := service.ParseAmbiguityPolicy(cfg.Drive.FolderPolicy)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	migrator := service.NewMigrator(
		driveClient,
		repository.NewConnectionScope(db),
		service.MigratorConfig{
			RootFolderID: cfg.Drive.RootFolderID,
			FolderPolicy: policy,
			CutoffDays:   cfg.Migration.CutoffDays,
		},
		logger,
	)

	metrics.StartMetricsServer(cfg.MetricsPort)

	r := router.Setup(handler.NewUploadHandler(migrator, logger))
	logger.Infof("listening on :%s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

// obtainRefreshToken walks through the one-time offline-consent flow and
// prints the refresh token to put in GOOGLE_REFRESH_TOKEN.
func obtainRefreshToken(cfg drive.Config) error {
	fmt.Printf("Authorize this application by visiting:\n\n%s\n\n", cfg.AuthURL())
	fmt.Print("Enter the code from the redirect URL: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}
	code = strings.TrimSpace(code)

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	if token.RefreshToken == "" {
		return fmt.Errorf("no refresh token returned; revoke prior grants and retry")
	}
	fmt.Printf("\nGOOGLE_REFRESH_TOKEN=%s\n", token.RefreshToken)
	return nil
}

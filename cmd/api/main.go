package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/handler"
	apimiddleware "github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/router"
	"github.com/Tzla1/medsearch-sub000/internal/adapter/repository"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/firebase"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/ratelimit"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/storage"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/websocket"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			log.Fatalf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH is required")
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	customerRepo := repository.NewFirestoreCustomerRepository(firestoreClient)
	doctorRepo := repository.NewFirestoreDoctorRepository(firestoreClient)
	specialtyRepo := repository.NewFirestoreSpecialtyRepository(firestoreClient)
	appointmentRepo := repository.NewFirestoreAppointmentRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	adminRepo := repository.NewFirestoreAdminRepository(firestoreClient)

	identityClient := firebase.NewAuthClient(fbAuth, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, customerRepo, identityClient)
	userUseCase := usecase.NewUserUseCase(userRepo, adminRepo, identityClient)
	customerUseCase := usecase.NewCustomerUseCase(customerRepo, doctorRepo)
	doctorUseCase := usecase.NewDoctorUseCase(doctorRepo, specialtyRepo, adminRepo)
	specialtyUseCase := usecase.NewSpecialtyUseCase(specialtyRepo, doctorRepo)
	appointmentUseCase := usecase.NewAppointmentUseCase(appointmentRepo, doctorRepo, customerRepo, specialtyRepo, wsManager)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, appointmentRepo, customerRepo, doctorRepo, adminRepo)
	adminUseCase := usecase.NewAdminUseCase(adminRepo, userRepo)

	handler.Setup(
		authUseCase,
		userUseCase,
		customerUseCase,
		doctorUseCase,
		specialtyUseCase,
		appointmentUseCase,
		reviewUseCase,
		adminUseCase,
	)
	handler.SetupFileHandler(storageClient, doctorUseCase)
	handler.SetupWebhookHandler(authUseCase, cfg.WebhookSecret)
	handler.SetupHealthHandler(firestoreClient, time.Duration(cfg.QueryTimeoutSec)*time.Second)

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitPerMin)
	limiter.StartCleanupRoutine()

	authMiddleware := apimiddleware.NewAuthMiddleware(identityClient, userRepo)
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)

	e := echo.New()
	e.Validator = api.NewValidator()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	router.Setup(e, authMiddleware, rateLimitMiddleware, wsManager)

	log.Printf("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

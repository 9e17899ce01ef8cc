package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"ngcrud-backend-go/internal/config"
)

// FirebaseClients groups the Admin SDK clients the application needs.
// Firestore is nil when the in-memory store driver is configured.
type FirebaseClients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// InitFirebase initializes the Firebase Admin SDK and returns its Auth client, and its
// Firestore client unless the memory store driver is selected.
func InitFirebase(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*FirebaseClients, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist, the SDK may fall back to ADC", zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: appConfig.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Auth: %w", err)
	}
	clients := &FirebaseClients{Auth: authClient}

	if appConfig.StoreDriver == config.StoreDriverMemory {
		logger.Warn("STORE_DRIVER=memory: Firestore is not used, data lives only in this process")
		return clients, nil
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	clients.Firestore = fsClient
	logger.Info("Firestore client initialized", zap.String("projectID", appConfig.FirebaseProjectID))
	return clients, nil
}

// NewDocumentStore returns the DocumentStore selected by the configuration.
func NewDocumentStore(appConfig *config.Config, clients *FirebaseClients) (DocumentStore, error) {
	if appConfig.StoreDriver == config.StoreDriverMemory {
		return NewMemoryStore(), nil
	}
	if clients == nil || clients.Firestore == nil {
		return nil, fmt.Errorf("firestore driver selected but Firestore client is not initialized")
	}
	return NewFirestoreStore(clients.Firestore), nil
}

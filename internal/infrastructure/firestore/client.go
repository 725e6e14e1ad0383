package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// defaultCredentialsFile GOOGLE_APPLICATION_CREDENTIALS未設定時に探すサービスアカウントキー
const defaultCredentialsFile = "ecoleta-firestore-key.json"

type FirestoreClient struct {
	client *firestore.Client
}

func NewFirestoreClient(ctx context.Context, projectID string, logger zerolog.Logger) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
	}

	// Cloud Run環境ではデフォルト認証を使用
	if os.Getenv("K_SERVICE") != "" {
		client, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Firestore client with default auth: %w", err)
		}
		logger.Info().Str("project", projectID).Msg("✅ Firestore client initialized (default auth)")
		return &FirestoreClient{client: client}, nil
	}

	credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile == "" {
		credentialsFile = defaultCredentialsFile
	}

	var opts []option.ClientOption
	if _, err := os.Stat(credentialsFile); err != nil {
		logger.Warn().Str("file", credentialsFile).Msg("⚠️ credentials file not found, trying default authentication")
	} else {
		logger.Info().Str("file", credentialsFile).Msg("📄 using credentials file")
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	logger.Info().Str("project", projectID).Msg("✅ Firestore client initialized")

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}

package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
)

// ConnectFirestore opens a client using application default credentials.
func ConnectFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID not set")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Connected to Firestore project %s", projectID)
	return client, nil
}

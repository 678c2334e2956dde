package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"realestate/internal/config"
)

// Collection names used by the Firestore stores.
const (
	UsersCollection       = "users"
	InvitationsCollection = "invitations"
	PropertiesCollection  = "properties"
)

// NewFirestore builds a Firestore client from service-account fields and
// performs one bounded read so unreachable or rejected credentials fail here.
func NewFirestore(ctx context.Context, creds config.FirebaseConfig) (*firestore.Client, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("encode firebase credentials: %w", err)
	}

	client, err := firestore.NewClient(ctx, creds.ProjectID, option.WithCredentialsJSON(payload))
	if err != nil {
		return nil, fmt.Errorf("connect firestore: %w", err)
	}

	it := client.Collection(PropertiesCollection).Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		_ = client.Close()
		return nil, fmt.Errorf("probe firestore: %w", err)
	}
	return client, nil
}

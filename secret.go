package btuid

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish" // registers the blowfish:// key cipher
)

// loadKey reads the default codec passphrase from an encrypted scy resource.
func loadKey(ctx context.Context, URL, cipher string) (string, error) {
	resource := scy.NewResource(nil, URL, cipher)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load codec key from %s: %w", URL, err)
	}
	return strings.TrimSpace(secret.String()), nil
}

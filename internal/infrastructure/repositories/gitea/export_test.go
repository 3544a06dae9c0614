package gitea

import (
	"time"

	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
)

// EncodeWebhook exports encodeWebhook for testing.
var EncodeWebhook = encodeWebhook //nolint:gochecknoglobals // test export

// DecodeWebhook exports decodeWebhook for testing.
var DecodeWebhook = decodeWebhook //nolint:gochecknoglobals // test export

// ErrSocketTimeout exports errSocketTimeout for testing.
var ErrSocketTimeout = errSocketTimeout //nolint:gochecknoglobals // test export

// NewForgeRepositoryWithReadTimeout creates a client whose body reads stall out after timeout.
func NewForgeRepositoryWithReadTimeout(conn entities.ForgeConnection, timeout time.Duration) repositories.ForgeRepository {
	forge := NewForgeRepository(conn).(*ForgeRepository)
	forge.readTimeout = timeout
	return forge
}

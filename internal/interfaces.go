package internal

import (
	"context"

	"github.com/IBM/fp-go/v2/ioeither"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/models"
)

type GroupListerInterface interface {
	ListGroups(ctx context.Context) ioeither.IOEither[error, []models.Group]
}

type FilePickerInterface interface {
	Pick(ctx context.Context, source string) ioeither.IOEither[error, []models.Upload]
}

type LoginStateInterface interface {
	IsLoggedIn() bool
	Token() string
	Subject() string
}

package client

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
)

type Client interface {
	Close() error
	Register(ctx context.Context, name, email, password string) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*models.Token, error)
	WhoAmI(ctx context.Context) (*models.Account, error)
	Ping(ctx context.Context) error
	SetAccessToken(token string)
}

package auth

import (
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// Strategy issues and verifies tokens carrying the caller identity.
type Strategy interface {
	IssueToken(actor model.Actor) (string, error)
	ParseToken(token string) (model.Actor, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

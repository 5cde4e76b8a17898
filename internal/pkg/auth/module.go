package auth

import (
	"github.com/polkiloo/verigate/internal/config"
	"go.uber.org/fx"
)

// Module provides token verification and the payment webhook secret via fx.
var Module = fx.Options(
	fx.Provide(newTokenParser),
	fx.Provide(newWebhookSecret),
)

type moduleParams struct {
	fx.In

	Config *config.Config
}

func newTokenParser(p moduleParams) TokenParser {
	return NewJWTVerifier(p.Config.JWTSecret, Options{})
}

func newWebhookSecret(p moduleParams) *SharedSecret {
	return NewSharedSecret(p.Config.WebhookSecret)
}

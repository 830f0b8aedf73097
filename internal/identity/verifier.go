// Package identity turns a bearer token into the principal behind a request.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"revive/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// KeySource is satisfied by *jwk.Cache.
type KeySource interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

type UserLookup interface {
	User(ctx context.Context, userID string) (*types.User, error)
}

// Verifier validates Cognito issued JWTs against the pool's JWKS and resolves
// the subject to a stored user.
type Verifier struct {
	logger   logrus.FieldLogger
	keys     KeySource
	issuer   string
	clientID string
	users    UserLookup
}

// NewVerifier accepts access tokens minted by issuer for the app client
// clientID. An empty clientID skips the client check.
func NewVerifier(logger logrus.FieldLogger, keys KeySource, issuer, clientID string, users UserLookup) *Verifier {
	return &Verifier{
		logger:   logger,
		keys:     keys,
		issuer:   strings.TrimSuffix(issuer, "/"),
		clientID: clientID,
		users:    users,
	}
}

func (v *Verifier) parseOptions(set jwk.Set) []jwt.ParseOption {
	opts := []jwt.ParseOption{
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithClaimValue("token_use", "access"),
	}
	if v.clientID != "" {
		opts = append(opts, jwt.WithClaimValue("client_id", v.clientID))
	}
	return opts
}

// JWKSURL is where a Cognito user pool issuer publishes its signing keys.
func JWKSURL(issuer string) string {
	return fmt.Sprintf("%s/.well-known/jwks.json", strings.TrimSuffix(issuer, "/"))
}

func (v *Verifier) Authenticate(ctx context.Context, accessToken string) (types.Principal, error) {
	if accessToken == "" {
		return types.Principal{}, types.ErrNotAuthed
	}

	set, err := v.keys.Lookup(ctx, JWKSURL(v.issuer))
	if err != nil {
		return types.Principal{}, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(accessToken), v.parseOptions(set)...)
	if err != nil {
		v.logger.WithError(err).Debug("failed to parse JWT")
		return types.Principal{}, types.NewError(types.ErrUnauthenticated, "Not authorized, token failed")
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return types.Principal{}, types.NewError(types.ErrUnauthenticated, "Not authorized, token has no subject")
	}

	user, err := v.users.User(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return types.Principal{}, types.NewError(types.ErrUnauthenticated, "Not authorized, user not found")
		}
		return types.Principal{}, err
	}

	v.logger.WithField("user_id", userID).Debug("authenticated user")

	return user.Principal(), nil
}

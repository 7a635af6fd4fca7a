package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("insufficient permissions")
)

// Principal is the authenticated caller.
type Principal struct {
	Subject  string
	Username string
	Email    string
	Roles    []string
}

// Allowed reports whether p holds any of required. Holding adminRole
// grants everything.
func (p *Principal) Allowed(required []string, adminRole string) bool {
	if len(required) == 0 {
		return true
	}

	if adminRole != "" && slices.Contains(p.Roles, adminRole) {
		return true
	}

	for _, role := range required {
		if slices.Contains(p.Roles, role) {
			return true
		}
	}

	return false
}

type KeySetSource interface {
	Lookup(ctx context.Context, url string) (jwk.Set, error)
}

type GroupLister interface {
	AdminListGroupsForUser(ctx context.Context, params *cognitoidentityprovider.AdminListGroupsForUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error)
}

type Options struct {
	Keys    KeySetSource
	JWKSURL string

	// Groups is consulted when the token carries no roles claim.
	Groups     GroupLister
	UserPoolID string

	Cookie     *securecookie.SecureCookie
	CookieName string

	RolesClaim string
	AdminRole  string
}

// JWTAuthorizer checks bearer or cookie access tokens against the JWKS of
// the identity provider and resolves the caller's roles.
type JWTAuthorizer struct {
	logger *logrus.Logger
	opts   Options
}

func NewJWTAuthorizer(logger *logrus.Logger, opts Options) *JWTAuthorizer {
	return &JWTAuthorizer{logger: logger, opts: opts}
}

func (a *JWTAuthorizer) Authorize(r *http.Request, required []string) (*Principal, error) {
	ctx := r.Context()

	raw, err := a.accessToken(r)
	if err != nil {
		return nil, err
	}

	set, err := a.opts.Keys.Lookup(ctx, a.opts.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(raw), jwt.WithKeySet(set), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("%w: no subject claim", ErrUnauthenticated)
	}

	principal := &Principal{
		Subject:  subject,
		Username: stringClaim(token, "username"),
		Email:    stringClaim(token, "email"),
		Roles:    stringsClaim(token, a.opts.RolesClaim),
	}

	if len(principal.Roles) == 0 && a.opts.Groups != nil {
		principal.Roles, err = a.cognitoGroups(ctx, principal)
		if err != nil {
			return nil, err
		}
	}

	if !principal.Allowed(required, a.opts.AdminRole) {
		a.logger.WithFields(logrus.Fields{
			"user_id":  principal.Subject,
			"roles":    principal.Roles,
			"required": required,
		}).Info("caller lacks required role")
		return principal, ErrForbidden
	}

	return principal, nil
}

func (a *JWTAuthorizer) accessToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", fmt.Errorf("%w: malformed authorization header", ErrUnauthenticated)
		}
		return strings.TrimSpace(token), nil
	}

	if a.opts.Cookie == nil || a.opts.CookieName == "" {
		return "", ErrUnauthenticated
	}

	cookie, err := r.Cookie(a.opts.CookieName)
	if err != nil {
		return "", ErrUnauthenticated
	}

	var token string
	if err := a.opts.Cookie.Decode(a.opts.CookieName, cookie.Value, &token); err != nil {
		a.logger.WithError(err).Debug("failed to decrypt access token cookie")
		return "", fmt.Errorf("%w: undecodable cookie", ErrUnauthenticated)
	}

	return token, nil
}

func (a *JWTAuthorizer) cognitoGroups(ctx context.Context, p *Principal) ([]string, error) {
	username := p.Username
	if username == "" {
		username = p.Subject
	}

	out, err := a.opts.Groups.AdminListGroupsForUser(ctx, &cognitoidentityprovider.AdminListGroupsForUserInput{
		UserPoolId: aws.String(a.opts.UserPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cognito groups: %w", err)
	}

	groups := make([]string, 0, len(out.Groups))
	for _, g := range out.Groups {
		if name := aws.ToString(g.GroupName); name != "" {
			groups = append(groups, name)
		}
	}

	return groups, nil
}

func stringClaim(token jwt.Token, name string) string {
	var v string
	if err := token.Get(name, &v); err != nil {
		return ""
	}
	return v
}

// stringsClaim accepts a JSON array of strings or a space separated string.
func stringsClaim(token jwt.Token, name string) []string {
	if name == "" {
		return nil
	}

	var list []any
	if err := token.Get(name, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var s string
	if err := token.Get(name, &s); err == nil {
		return strings.Fields(s)
	}

	return nil
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

type staticKeys struct {
	set jwk.Set
}

func (s staticKeys) Lookup(context.Context, string) (jwk.Set, error) {
	return s.set, nil
}

type fakeGroups struct {
	groups   []string
	username string
}

func (f *fakeGroups) AdminListGroupsForUser(_ context.Context, in *cognitoidentityprovider.AdminListGroupsForUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error) {
	f.username = aws.ToString(in.Username)
	out := &cognitoidentityprovider.AdminListGroupsForUserOutput{}
	for _, g := range f.groups {
		out.Groups = append(out.Groups, ctypes.GroupType{GroupName: aws.String(g)})
	}
	return out, nil
}

type signer struct {
	priv jwk.Key
	set  jwk.Set
}

func newSigner(t *testing.T) *signer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	priv, err := jwk.Import(raw)
	if err != nil {
		t.Fatalf("import key: %v", err)
	}
	if err := priv.Set(jwk.KeyIDKey, "test-key"); err != nil {
		t.Fatalf("set kid: %v", err)
	}
	if err := priv.Set(jwk.AlgorithmKey, jwa.RS256()); err != nil {
		t.Fatalf("set alg: %v", err)
	}

	pub, err := jwk.PublicKeyOf(priv)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(pub); err != nil {
		t.Fatalf("add key: %v", err)
	}

	return &signer{priv: priv, set: set}
}

func (s *signer) sign(t *testing.T, claims map[string]any) string {
	t.Helper()

	b := jwt.NewBuilder().
		Subject("user-1").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour))
	for k, v := range claims {
		b = b.Claim(k, v)
	}

	tok, err := b.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), s.priv))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return string(signed)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPrincipalAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		roles    []string
		required []string
		want     bool
	}{
		{name: "has role", roles: []string{"manage_sponsors"}, required: []string{"manage_sponsors"}, want: true},
		{name: "missing role", roles: []string{"editor"}, required: []string{"manage_sponsors"}, want: false},
		{name: "admin bypass", roles: []string{"admin"}, required: []string{"manage_sponsors"}, want: true},
		{name: "any of", roles: []string{"b"}, required: []string{"a", "b"}, want: true},
		{name: "nothing required", roles: nil, required: nil, want: true},
		{name: "no roles", roles: nil, required: []string{"manage_sponsors"}, want: false},
	}

	for _, tc := range tests {
		p := &Principal{Roles: tc.roles}
		if got := p.Allowed(tc.required, "admin"); got != tc.want {
			t.Errorf("%s: Allowed = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAuthorizeBearerToken(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	a := NewJWTAuthorizer(quietLogger(), Options{
		Keys:       staticKeys{set: s.set},
		RolesClaim: "cognito:groups",
		AdminRole:  "admin",
	})

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "allowed", header: "Bearer " + s.sign(t, map[string]any{"cognito:groups": []string{"manage_sponsors"}})},
		{name: "forbidden", header: "Bearer " + s.sign(t, map[string]any{"cognito:groups": []string{"viewer"}}), wantErr: ErrForbidden},
		{name: "missing header", header: "", wantErr: ErrUnauthenticated},
		{name: "wrong scheme", header: "Basic abc", wantErr: ErrUnauthenticated},
		{name: "garbage token", header: "Bearer not-a-jwt", wantErr: ErrUnauthenticated},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/sponsors", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			p, err := a.Authorize(req, []string{"manage_sponsors"})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authorize: %v", err)
			}
			if p.Subject != "user-1" {
				t.Fatalf("subject = %q, want user-1", p.Subject)
			}
		})
	}
}

func TestAuthorizeScopeStyleClaim(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	a := NewJWTAuthorizer(quietLogger(), Options{Keys: staticKeys{set: s.set}, RolesClaim: "scope"})

	req := httptest.NewRequest(http.MethodPost, "/sponsors", nil)
	req.Header.Set("Authorization", "Bearer "+s.sign(t, map[string]any{"scope": "read manage_sponsors"}))

	p, err := a.Authorize(req, []string{"manage_sponsors"})
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !reflect.DeepEqual(p.Roles, []string{"read", "manage_sponsors"}) {
		t.Fatalf("roles = %v", p.Roles)
	}
}

func TestAuthorizeFallsBackToCognitoGroups(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	groups := &fakeGroups{groups: []string{"manage_sponsors"}}
	a := NewJWTAuthorizer(quietLogger(), Options{
		Keys:       staticKeys{set: s.set},
		Groups:     groups,
		UserPoolID: "pool",
		RolesClaim: "cognito:groups",
	})

	req := httptest.NewRequest(http.MethodPut, "/sponsors/1", nil)
	req.Header.Set("Authorization", "Bearer "+s.sign(t, map[string]any{"username": "jane"}))

	p, err := a.Authorize(req, []string{"manage_sponsors"})
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if groups.username != "jane" {
		t.Fatalf("cognito username = %q, want jane", groups.username)
	}
	if !reflect.DeepEqual(p.Roles, []string{"manage_sponsors"}) {
		t.Fatalf("roles = %v", p.Roles)
	}
}

func TestAuthorizeCookieToken(t *testing.T) {
	t.Parallel()

	s := newSigner(t)
	cookie := securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	a := NewJWTAuthorizer(quietLogger(), Options{
		Keys:       staticKeys{set: s.set},
		Cookie:     cookie,
		CookieName: "access_token",
		RolesClaim: "cognito:groups",
	})

	encoded, err := cookie.Encode("access_token", s.sign(t, map[string]any{"cognito:groups": []string{"manage_sponsors"}}))
	if err != nil {
		t.Fatalf("encode cookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/sponsors/1", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: encoded})

	if _, err := a.Authorize(req, []string{"manage_sponsors"}); err != nil {
		t.Fatalf("Authorize: %v", err)
	}

	bad := httptest.NewRequest(http.MethodDelete, "/sponsors/1", nil)
	bad.AddCookie(&http.Cookie{Name: "access_token", Value: "tampered"})
	if _, err := a.Authorize(bad, []string{"manage_sponsors"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("tampered cookie err = %v, want ErrUnauthenticated", err)
	}
}

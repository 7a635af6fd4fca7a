package media

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sponsors/pkg/types"

	"github.com/google/uuid"
)

// Constraints applied to every logo registered on behalf of a sponsor.
const LogoMaxSize int64 = 10 << 20

var LogoExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// http(s) with a domain name, localhost or a dotted IPv4 host, then an
// optional port and path.
var urlReg = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+(?:[a-z]{2,6}\.?|[a-z0-9-]{2,}\.?)` +
	`|localhost` +
	`|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

var (
	slugInvalidReg = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashesReg  = regexp.MustCompile(`-+`)
)

// IsUsableReference reports whether v can be stored as a logo as-is: a
// media UUID or an http(s) URL.
func IsUsableReference(v string) bool {
	if v == "" {
		return false
	}

	if _, err := uuid.Parse(v); err == nil {
		return true
	}

	return urlReg.MatchString(v)
}

func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalidReg.ReplaceAllString(s, "")
	s = slugDashesReg.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func Alias(name, id string) string {
	return fmt.Sprintf("%s-%s", Slugify(name), id)
}

type Registrar interface {
	Register(ctx context.Context, reg types.MediaRegistration) (string, error)
}

// LogoResolver turns a caller supplied logo value into the value to store.
type LogoResolver struct {
	registrar Registrar
	newID     func() string
}

func NewLogoResolver(registrar Registrar) *LogoResolver {
	return &LogoResolver{registrar: registrar, newID: uuid.NewString}
}

// Resolve returns logo unchanged when it is usable. Otherwise it registers
// a fresh media slot aliased after the sponsor name and returns its ID.
func (l *LogoResolver) Resolve(ctx context.Context, sponsorName string, logo *string) (*string, error) {
	if logo != nil && IsUsableReference(*logo) {
		return logo, nil
	}

	id, err := l.registrar.Register(ctx, types.MediaRegistration{
		MaxSize:         LogoMaxSize,
		AllowsRewrite:   true,
		ValidExtensions: LogoExtensions,
		Alias:           Alias(sponsorName, l.newID()),
	})
	if err != nil {
		return nil, fmt.Errorf("register logo media: %w", err)
	}

	return &id, nil
}

package authz

import (
	"net/http"

	pkglog "github.com/kaylkveip512/Viktorov-bookstore/pkg/log"
	"github.com/kaylkveip512/Viktorov-bookstore/pkg/metrics"
)

// Actor is the authenticated principal a request runs as. A nil *Actor means
// the request carried no valid access token.
type Actor struct {
	ID       string
	Username string
	IsStaff  bool
}

// Resource is anything with a declared owner. Each authorizable type states
// its owner explicitly instead of being probed for one at runtime.
type Resource interface {
	ResourceOwnerID() string
}

type Check struct {
	Name  string
	allow func(actor *Actor) bool
}

func IsAuthenticated() Check {
	return Check{
		Name:  "is_authenticated",
		allow: func(actor *Actor) bool { return actor != nil },
	}
}

func IsAdmin() Check {
	return Check{
		Name:  "is_admin",
		allow: func(actor *Actor) bool { return actor != nil && actor.IsStaff },
	}
}

func IsOwnerOrAdmin(resource Resource) Check {
	return Check{
		Name: "is_owner_or_admin",
		allow: func(actor *Actor) bool {
			if actor == nil {
				return false
			}
			if actor.IsStaff {
				return true
			}
			return resource != nil && resource.ResourceOwnerID() == actor.ID
		},
	}
}

func IsOwnerOrReadOnly(method string, resource Resource) Check {
	return Check{
		Name: "is_owner_or_read_only",
		allow: func(actor *Actor) bool {
			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return true
			}
			if actor == nil {
				return false
			}
			if actor.IsStaff {
				return true
			}
			return resource != nil && resource.ResourceOwnerID() == actor.ID
		},
	}
}

// Engine evaluates permission chains. Denials are logged with the denied
// actor's identity for later review; logging never alters the result.
type Engine struct {
	logger pkglog.Logger
}

func NewEngine(logger pkglog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Permits AND-composes the checks and short-circuits on the first failure.
func (e *Engine) Permits(actor *Actor, checks ...Check) bool {
	for _, check := range checks {
		if check.allow(actor) {
			continue
		}
		username := "anonymous"
		actorID := ""
		if actor != nil {
			username = actor.Username
			actorID = actor.ID
		}
		e.logger.Warn().
			Str("check", check.Name).
			Str("actor_id", actorID).
			Str("username", username).
			Msg("permission denied")
		metrics.AuthzDenials.WithLabelValues(check.Name).Inc()
		return false
	}
	return true
}

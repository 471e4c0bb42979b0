package session

const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"
)

// Route describes a navigation target.
type Route struct {
	Path      string
	Public    bool
	AdminOnly bool
}

type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard decides whether the current session may open r.
func (s *Session) Guard(r Route) Decision {
	switch {
	case r.Public:
		return Decision{Allowed: true}
	case !s.IsAuthenticated():
		return Decision{Redirect: LoginPath}
	case r.AdminOnly && !s.IsAdmin():
		return Decision{Redirect: DefaultPath}
	default:
		return Decision{Allowed: true}
	}
}

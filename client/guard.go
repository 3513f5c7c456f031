package client

// Route guards. They are pure deciders: given the current auth state and the
// requested path they say what the router should do, so the routing layer
// stays trivial and the behavior stays testable.

const (
	LoginPath = "/login"
	HomePath  = "/"
)

type GuardAction int

const (
	// GuardLoading means auth state is still resolving; show a placeholder.
	GuardLoading GuardAction = iota
	// GuardRender means the requested view may render.
	GuardRender
	// GuardRedirect means navigate to Target instead.
	GuardRedirect
)

type GuardDecision struct {
	Action GuardAction
	// Target is the path to navigate to for GuardRedirect.
	Target string
	// From preserves the originally requested path so login can return there.
	From string
}

// GuardState is the slice of auth state the guards need.
type GuardState struct {
	IsLoading       bool
	IsAuthenticated bool
}

// Protected guards views that require authentication. Unauthenticated
// requests are sent to the login view with the original path retained.
func Protected(state GuardState, requestedPath string) GuardDecision {
	if state.IsLoading {
		return GuardDecision{Action: GuardLoading}
	}
	if !state.IsAuthenticated {
		return GuardDecision{Action: GuardRedirect, Target: LoginPath, From: requestedPath}
	}
	return GuardDecision{Action: GuardRender}
}

// PublicOnly guards views like login that authenticated users should not
// see; they are sent back to where they came from, or home.
func PublicOnly(state GuardState, from string) GuardDecision {
	if state.IsLoading {
		return GuardDecision{Action: GuardLoading}
	}
	if state.IsAuthenticated {
		target := from
		if target == "" {
			target = HomePath
		}
		return GuardDecision{Action: GuardRedirect, Target: target}
	}
	return GuardDecision{Action: GuardRender}
}

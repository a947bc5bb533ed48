package mirror

import (
	"os"
	"strings"
)

// Event is the trigger notification for one mirror run: a push happened on
// Branch. Consumed once, never persisted.
type Event struct {
	Branch string
}

// EventFromEnvironment derives the trigger event from the hosting CI
// system's environment. Returns false when the environment does not
// describe a branch push (tag pushes and non-push events do not trigger).
//
// GitHub Actions is recognized via GITHUB_REF/GITHUB_EVENT_NAME; other CI
// systems (or local runs) should pass the branch explicitly instead.
func EventFromEnvironment() (Event, bool) {
	if os.Getenv("GITHUB_ACTIONS") == "" {
		return Event{}, false
	}

	if name := os.Getenv("GITHUB_EVENT_NAME"); name != "" && name != "push" {
		return Event{}, false
	}

	ref := os.Getenv("GITHUB_REF")
	if !strings.HasPrefix(ref, "refs/heads/") {
		// refs/tags/* or refs/pull/* never qualify
		return Event{}, false
	}

	return Event{Branch: strings.TrimPrefix(ref, "refs/heads/")}, true
}

// InCI reports whether a recognized CI environment is present at all.
// Used to distinguish "not in CI, treat as manual dispatch" from "in CI,
// but the event does not qualify".
func InCI() bool {
	return os.Getenv("GITHUB_ACTIONS") != "" || os.Getenv("CI") != ""
}

// Package mirror orchestrates the destructive, one-directional
// synchronization of all branches and tags from the local repository to a
// secondary remote. The remote's history is overwritten on conflict; that
// is the point of a mirror, not an accident.
package mirror

import (
	"context"
	"fmt"

	"github.com/lcgerke/gitmirror/internal/credential"
	"github.com/lcgerke/gitmirror/internal/errors"
)

// RepoInspector reports facts about the local working copy that gate the run
type RepoInspector interface {
	IsShallowClone() (bool, error)
}

// Options configures a Trigger
type Options struct {
	// TriggerBranch is the only branch whose push events start a run;
	// events for any other branch are a no-op
	TriggerBranch string
	// RemoteName is the logical name the destination is registered under
	RemoteName string
	// RemoteURL is the SSH URL of the destination repository
	RemoteURL string
	// SkipVerify disables the post-push ref comparison
	SkipVerify bool
	// DryRun stops after the preconditions: no credential install, no
	// remote registration, no push
	DryRun bool
}

// Result describes the outcome of a completed run
type Result struct {
	// Skipped is true when the event did not match the trigger branch and
	// nothing was done
	Skipped bool
	// Verified is true when the post-push ref comparison ran and matched
	Verified bool
	// DryRun is true when the run stopped after the preconditions
	DryRun bool
}

// Trigger runs the mirror sequence. Each run is atomic at the level of the
// two force-pushes; there is no retry, the next trigger event is the retry.
type Trigger struct {
	opts      Options
	repo      RepoInspector
	pusher    Pusher
	transport Transport
}

// NewTrigger wires a Trigger from its collaborators
func NewTrigger(opts Options, repo RepoInspector, pusher Pusher, transport Transport) *Trigger {
	return &Trigger{
		opts:      opts,
		repo:      repo,
		pusher:    pusher,
		transport: transport,
	}
}

// Run executes the mirror sequence for one trigger event, in order, each
// step a hard precondition for the next:
//
//  1. full-history precondition (shallow clone fails fast, zero pushes)
//  2. credential install (key file + host trust + ssh wiring)
//  3. add-or-update the destination remote
//  4. force-push all branches, then force-push all tags
//
// Events for branches other than the trigger branch return a skipped
// result and perform no network action.
func (t *Trigger) Run(ctx context.Context, event Event, key string) (*Result, error) {
	if event.Branch != t.opts.TriggerBranch {
		return &Result{Skipped: true}, nil
	}

	// Configuration-class failures, all detected before any remote
	// interaction
	if t.opts.RemoteURL == "" {
		return nil, errors.MissingRemoteURL()
	}
	if err := credential.ValidateKey(key); err != nil {
		return nil, err
	}

	shallow, err := t.repo.IsShallowClone()
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeGit, "failed to check history depth", err)
	}
	if shallow {
		return nil, errors.ShallowRepository(".")
	}

	if t.opts.DryRun {
		return &Result{DryRun: true}, nil
	}

	cleanup, err := t.transport.Install(ctx, key)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := t.pusher.AddOrUpdateRemote(t.opts.RemoteName, t.opts.RemoteURL); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeGit,
			fmt.Sprintf("failed to register remote '%s'", t.opts.RemoteName), err)
	}

	// Branches strictly before tags: not semantically required, kept for
	// determinism of observable side effects
	if err := t.pusher.PushBranches(ctx, t.opts.RemoteName); err != nil {
		return nil, errors.PushFailed("branches", t.opts.RemoteName, err)
	}
	if err := t.pusher.PushTags(ctx, t.opts.RemoteName); err != nil {
		return nil, errors.PushFailed("tags", t.opts.RemoteName, err)
	}

	result := &Result{}
	if !t.opts.SkipVerify {
		if comparer, ok := t.pusher.(RefComparer); ok {
			if err := t.verify(ctx, comparer); err != nil {
				return nil, err
			}
			result.Verified = true
		}
	}

	return result, nil
}

// verify compares local refs/heads and refs/tags tips against the
// destination's after both pushes completed
func (t *Trigger) verify(ctx context.Context, comparer RefComparer) error {
	local, err := comparer.LocalRefs()
	if err != nil {
		return errors.Wrap(errors.ErrorTypeGit, "failed to enumerate local refs", err)
	}

	remote, err := comparer.RemoteRefs(ctx, t.opts.RemoteName)
	if err != nil {
		return errors.Wrap(errors.ErrorTypeTransport, "failed to enumerate destination refs", err)
	}

	for ref, hash := range local {
		got, ok := remote[ref]
		if !ok {
			return errors.VerificationFailed(fmt.Sprintf("%s missing on destination", ref))
		}
		if got != hash {
			return errors.VerificationFailed(fmt.Sprintf("%s is %s on destination, want %s", ref, got, hash))
		}
	}

	for ref := range remote {
		if _, ok := local[ref]; !ok {
			return errors.VerificationFailed(fmt.Sprintf("%s exists on destination but not locally", ref))
		}
	}

	return nil
}

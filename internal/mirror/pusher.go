package mirror

import (
	"context"

	"github.com/lcgerke/gitmirror/internal/credential"
	"github.com/lcgerke/gitmirror/internal/git"
)

// Pusher is the push-capable abstraction the orchestration runs against.
// The production implementation shells out to git; tests substitute a fake.
type Pusher interface {
	AddOrUpdateRemote(name, url string) error
	PushBranches(ctx context.Context, remote string) error
	PushTags(ctx context.Context, remote string) error
}

// Transport installs credentials for the push and hands back a cleanup
// function. Key material must never outlive the run; callers defer cleanup
// unconditionally once Install succeeds.
type Transport interface {
	Install(ctx context.Context, key string) (cleanup func() error, err error)
}

// RefComparer is an optional upgrade on Pusher: when implemented, the
// orchestration verifies after both pushes that the destination's refs
// match the local ones.
type RefComparer interface {
	LocalRefs() (map[string]string, error)
	RemoteRefs(ctx context.Context, remote string) (map[string]string, error)
}

// gitPusher implements Pusher and RefComparer on top of the git CLI client
type gitPusher struct {
	client *git.Client
}

// NewGitPusher returns a Pusher backed by the git CLI in workdir's client
func NewGitPusher(client *git.Client) Pusher {
	return &gitPusher{client: client}
}

func (p *gitPusher) AddOrUpdateRemote(name, url string) error {
	return p.client.AddOrUpdateRemote(name, url)
}

func (p *gitPusher) PushBranches(ctx context.Context, remote string) error {
	return p.client.ForcePushBranches(ctx, remote)
}

func (p *gitPusher) PushTags(ctx context.Context, remote string) error {
	return p.client.ForcePushTags(ctx, remote)
}

func (p *gitPusher) LocalRefs() (map[string]string, error) {
	return p.client.LocalRefs()
}

func (p *gitPusher) RemoteRefs(ctx context.Context, remote string) (map[string]string, error) {
	return p.client.LsRemoteRefs(ctx, remote)
}

// sshTransport implements Transport: key material to a 0600 file in a
// private temp dir, known-hosts entry for the destination host, and
// repository-local core.sshCommand pointing at both.
type sshTransport struct {
	client     *git.Client
	host       string
	knownHosts string
}

// NewSSHTransport returns the credentialed transport for remoteURL's host.
// knownHostsEntry, when non-empty, pins the host key; otherwise trust is
// established on first use.
func NewSSHTransport(client *git.Client, host, knownHostsEntry string) Transport {
	return &sshTransport{
		client:     client,
		host:       host,
		knownHosts: knownHostsEntry,
	}
}

func (t *sshTransport) Install(ctx context.Context, key string) (func() error, error) {
	inst, err := credential.Install(ctx, key, t.host, t.knownHosts)
	if err != nil {
		return nil, err
	}

	if err := t.client.ConfigureSSH(inst.PrivateKeyPath, inst.KnownHostsPath); err != nil {
		inst.Cleanup()
		return nil, err
	}

	return inst.Cleanup, nil
}

package executor

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"
)

// containerWorkspace is where the document directory is mounted.
const containerWorkspace = "/workspace"

// ContainerExecutor runs each invocation in a fresh container
// through the Docker API. The document directory is mounted
// read-only at /workspace and the encoded context is the last
// command argument.
type ContainerExecutor struct {
	env map[string]string
}

// NewContainerExecutor creates a ContainerExecutor. env is passed
// to every container.
func NewContainerExecutor(env map[string]string) *ContainerExecutor {
	copied := make(map[string]string, len(env))
	for k, v := range env {
		copied[k] = v
	}
	return &ContainerExecutor{env: copied}
}

// Name returns "container".
func (e *ContainerExecutor) Name() string { return "container" }

func newDockerClient() (*client.Client, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv, client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return cli, nil
}

// ValidateEnvironment reports whether the Docker daemon endpoint
// is reachable.
func (e *ContainerExecutor) ValidateEnvironment(
	ctx context.Context,
) bool {
	cli, err := newDockerClient()
	if err != nil {
		return false
	}
	defer cli.Close()
	return daemonReachable(ctx, cli.DaemonHost())
}

func daemonReachable(ctx context.Context, host string) bool {
	u, err := url.Parse(host)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "unix":
		info, err := os.Stat(u.Path)
		return err == nil && info.Mode()&os.ModeSocket != 0
	case "tcp", "http", "https":
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
	return false
}

// Execute creates, starts and waits for a container, returning
// its parsed output.
func (e *ContainerExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	if inv.Image == "" {
		return nil, fmt.Errorf(
			"runtime %s has no container image", inv.Runtime,
		)
	}
	payload, err := rc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}
	cmd, err := containerCommand(inv, payload)
	if err != nil {
		return nil, err
	}

	cli, err := newDockerClient()
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	hostCfg := &container.HostConfig{}
	if inv.BaseDir != "" {
		hostCfg.Mounts = []mount.Mount{{
			Type:     mount.TypeBind,
			Source:   inv.BaseDir,
			Target:   containerWorkspace,
			ReadOnly: true,
		}}
	}

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config: &container.Config{
			Image:      inv.Image,
			Cmd:        cmd,
			Env:        e.environ(payload),
			WorkingDir: containerWorkspace,
			Tty:        true,
			Labels:     map[string]string{"polyglot.runtime": inv.Runtime},
		},
		HostConfig: hostCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	containerID := createResp.ID
	defer func() {
		cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true})
	}()

	if _, err := cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	waitResult := cli.ContainerWait(ctx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})
	for {
		select {
		case err := <-waitResult.Error:
			if err != nil {
				cli.ContainerKill(context.Background(), containerID, client.ContainerKillOptions{Signal: "SIGKILL"})
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				return nil, fmt.Errorf("waiting for container: %w", err)
			}
		case status := <-waitResult.Result:
			out, err := containerOutput(cli, containerID)
			if err != nil {
				return nil, err
			}
			if status.StatusCode != 0 {
				return nil, &ProcessError{
					Command:  inv.Image,
					ExitCode: int(status.StatusCode),
					Message:  wrapperError(out),
					Stderr:   out,
				}
			}
			return ParseOutput(out), nil
		}
	}
}

func containerOutput(cli *client.Client, id string) (string, error) {
	logReader, err := cli.ContainerLogs(context.Background(), id, client.ContainerLogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", fmt.Errorf("reading container logs: %w", err)
	}
	defer logReader.Close()

	data, err := io.ReadAll(logReader)
	if err != nil {
		return "", fmt.Errorf("reading container logs: %w", err)
	}
	return string(data), nil
}

// containerCommand builds the container command: the entry point
// (if any), the workspace path of the resolved file (if any), and
// the encoded context.
func containerCommand(inv *Invocation, payload string) ([]string, error) {
	var cmd []string
	if inv.EntryPoint != "" {
		cmd = append(cmd, inv.EntryPoint)
	}
	if inv.Path != "" && inv.BaseDir != "" {
		rel, err := filepath.Rel(inv.BaseDir, inv.Path)
		if err != nil {
			return nil, fmt.Errorf("map %s into container: %w", inv.Path, err)
		}
		cmd = append(cmd, path.Join(containerWorkspace, filepath.ToSlash(rel)))
	}
	return append(cmd, payload), nil
}

func (e *ContainerExecutor) environ(payload string) []string {
	keys := make([]string, 0, len(e.env))
	for k := range e.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		env = append(env, k+"="+e.env[k])
	}
	return append(env, "POLYGLOT_CONTEXT="+payload)
}

// CheckInvocation requires an image.
func (e *ContainerExecutor) CheckInvocation(
	_ context.Context, inv *Invocation,
) error {
	if inv.Image == "" {
		return fmt.Errorf(
			"runtime %s has no container image", inv.Runtime,
		)
	}
	return nil
}

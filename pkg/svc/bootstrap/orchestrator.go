package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/client/argocd"
	"github.com/devantler-tech/argoboot/pkg/svc/credentials"
	clusterprovisioner "github.com/devantler-tech/argoboot/pkg/svc/provisioner/cluster"
	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/devantler-tech/argoboot/pkg/utils/notify"
)

// Dependencies are the collaborators of an Orchestrator.
type Dependencies struct {
	Prerequisites PrerequisiteChecker
	Provisioner   clusterprovisioner.ClusterProvisioner
	Connect       Connector
	Ports         PortFinder
	Sweeper       ProcessSweeper
	NewTunnel     TunnelFactory
	ArgoCD        argocd.API
	Store         CredentialStore
	// RemoveDir deletes a directory if present and reports whether it existed.
	RemoveDir func(path string) (bool, error)
}

// Orchestrator runs setup and reset for one configuration.
type Orchestrator struct {
	cfg   *v1alpha1.Config
	out   io.Writer
	timer timer.Timer
	deps  Dependencies
}

// New returns an Orchestrator writing progress to out.
func New(cfg *v1alpha1.Config, out io.Writer, tmr timer.Timer, deps Dependencies) *Orchestrator {
	if tmr == nil {
		tmr = timer.New()
	}

	return &Orchestrator{cfg: cfg, out: out, timer: tmr, deps: deps}
}

// Run performs setup and then holds the tunnel until ctx is cancelled. The tunnel is
// closed on every return path.
func (o *Orchestrator) Run(ctx context.Context) error {
	session, err := o.Setup(ctx)
	if err != nil {
		return err
	}

	defer func() { _ = session.Close() }()

	if session.Manual {
		return nil
	}

	notify.Infof(o.out, "tunnel open on %s, press Ctrl+C to stop", session.URL)

	err = session.Hold(ctx)
	if err != nil {
		return err
	}

	notify.Infof(o.out, "closing tunnel")

	return nil
}

// Setup brings up the cluster, Argo CD and the application. On error nothing is left
// running locally; on success the caller owns the returned session and must Close it.
func (o *Orchestrator) Setup(ctx context.Context) (*Session, error) {
	o.timer.Start()

	session := &Session{Config: o.cfg, KubeContext: o.cfg.ContextName()}

	err := o.runSetup(ctx, session)
	if err != nil {
		_ = session.Close()

		return nil, err
	}

	return session, nil
}

func (o *Orchestrator) runSetup(ctx context.Context, session *Session) error {
	err := o.checkPrerequisites(ctx)
	if err != nil {
		return err
	}

	err = o.provisionCluster(ctx)
	if err != nil {
		return err
	}

	access, err := o.connect(ctx)
	if err != nil {
		return err
	}

	err = o.installArgoCD(ctx, access)
	if err != nil {
		return err
	}

	err = o.retrieveCredentials(ctx, access, session)
	if err != nil {
		return err
	}

	if !o.openTunnel(ctx, session) || !o.login(ctx, session) {
		if ctx.Err() != nil {
			return fmt.Errorf("setup interrupted: %w", ctx.Err())
		}

		session.Manual = true
		o.printManualSteps(session)

		return nil
	}

	err = o.deployApplication(ctx)
	if err != nil {
		return err
	}

	o.printSummary(session)

	return nil
}

func (o *Orchestrator) checkPrerequisites(ctx context.Context) error {
	notify.Titlef(o.out, "🔎", "Check prerequisites...")

	result, err := o.deps.Prerequisites.Check(ctx)
	if err != nil {
		return fmt.Errorf("check prerequisites: %w", err)
	}

	if result.EngineVersion != "" {
		notify.Activityf(o.out, "container engine API %s", result.EngineVersion)
	}

	notify.SuccessWithTimerf(o.out, o.timer, "prerequisites satisfied")

	return nil
}

func (o *Orchestrator) provisionCluster(ctx context.Context) error {
	o.timer.NewStage()

	name := o.cfg.Cluster.Name
	notify.Titlef(o.out, "🚀", "Create cluster...")

	exists, err := o.deps.Provisioner.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("check cluster %s: %w", name, err)
	}

	if exists {
		notify.Activityf(o.out, "deleting existing cluster '%s'", name)

		err = o.deps.Provisioner.Delete(ctx, name)
		if err != nil {
			return fmt.Errorf("delete existing cluster %s: %w", name, err)
		}
	}

	notify.Activityf(o.out, "creating %s cluster '%s' with %d agent(s)",
		o.cfg.Cluster.Distribution, name, o.cfg.Cluster.Agents)

	err = o.deps.Provisioner.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create cluster %s: %w", name, err)
	}

	notify.SuccessWithTimerf(o.out, o.timer, "cluster '%s' created", name)

	return nil
}

func (o *Orchestrator) connect(ctx context.Context) (*ClusterAccess, error) {
	access, err := o.deps.Connect(o.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to cluster: %w", err)
	}

	if access.Cluster != nil {
		err = access.Cluster.WaitForCluster(ctx)
		if err != nil {
			return nil, fmt.Errorf("wait for cluster: %w", err)
		}
	}

	return access, nil
}

func (o *Orchestrator) installArgoCD(ctx context.Context, access *ClusterAccess) error {
	o.timer.NewStage()
	notify.Titlef(o.out, "🐙", "Install Argo CD...")

	notify.Activityf(o.out, "applying %s", o.cfg.ArgoCD.InstallManifest)

	err := access.Installer.Install(ctx)
	if err != nil {
		return fmt.Errorf("install Argo CD: %w", err)
	}

	notify.Activityf(o.out, "waiting for Argo CD to become ready")

	err = access.Installer.WaitForReady(ctx)
	if err != nil {
		return fmt.Errorf("wait for Argo CD: %w", err)
	}

	notify.SuccessWithTimerf(o.out, o.timer, "Argo CD installed")

	return nil
}

func (o *Orchestrator) retrieveCredentials(ctx context.Context, access *ClusterAccess, session *Session) error {
	o.timer.NewStage()
	notify.Titlef(o.out, "🔑", "Retrieve credentials...")
	notify.Activityf(o.out, "waiting for secret '%s'", o.cfg.ArgoCD.AdminSecret)

	password, err := access.Password.WaitForAdminPassword(ctx)
	if err != nil {
		return fmt.Errorf("retrieve admin password: %w", err)
	}

	session.Password = password

	port, err := o.deps.Ports.Find(ctx, o.cfg.Tunnel.BasePort)
	if err != nil {
		return fmt.Errorf("find tunnel port: %w", err)
	}

	session.Port = port
	session.URL = fmt.Sprintf("https://localhost:%d", port)

	err = o.deps.Store.Save(credentials.Connection{
		Port:     port,
		URL:      session.URL,
		Username: o.cfg.ArgoCD.Username,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	notify.SuccessWithTimerf(o.out, o.timer, "credentials written to '%s' and '%s'",
		o.cfg.Files.PasswordFile, o.cfg.Files.ConnectionFile)

	return nil
}

// openTunnel reports false when the tunnel could not be established.
func (o *Orchestrator) openTunnel(ctx context.Context, session *Session) bool {
	o.timer.NewStage()
	notify.Titlef(o.out, "🔌", "Open tunnel...")

	killed, err := o.deps.Sweeper.KillMatching(ctx)
	if err != nil {
		notify.Warningf(o.out, "could not stop earlier port-forwards: %v", err)
	}

	if len(killed) > 0 {
		notify.Activityf(o.out, "stopped %d earlier port-forward process(es)", len(killed))
	}

	tun := o.deps.NewTunnel(o.cfg, session.Port)
	session.tunnel = tun

	notify.Activityf(o.out, "forwarding localhost:%d to svc/%s", session.Port, o.cfg.ArgoCD.ServerService)

	err = tun.Establish(ctx)
	if err != nil {
		notify.Warningf(o.out, "tunnel did not come up: %v", err)

		return false
	}

	notify.SuccessWithTimerf(o.out, o.timer, "tunnel open on %s", session.URL)

	return true
}

// login reports false when every login attempt failed.
func (o *Orchestrator) login(ctx context.Context, session *Session) bool {
	o.timer.NewStage()
	notify.Titlef(o.out, "🔐", "Log in to Argo CD...")

	err := o.deps.ArgoCD.Login(ctx, argocd.LoginOptions{
		Server:     session.Server(),
		Username:   o.cfg.ArgoCD.Username,
		Password:   session.Password,
		Attempts:   o.cfg.Tunnel.LoginAttempts,
		RetryDelay: o.cfg.Tunnel.LoginRetryDelay,
	})
	if err != nil {
		notify.Warningf(o.out, "login failed: %v", err)

		return false
	}

	notify.SuccessWithTimerf(o.out, o.timer, "logged in as '%s'", o.cfg.ArgoCD.Username)

	return true
}

func (o *Orchestrator) deployApplication(ctx context.Context) error {
	o.timer.NewStage()

	app := o.cfg.Application
	notify.Titlef(o.out, "📦", "Deploy application...")

	notify.Activityf(o.out, "registering repository %s", app.RepoURL)

	err := o.deps.ArgoCD.AddRepo(ctx, app.RepoURL)
	if err != nil {
		return fmt.Errorf("register repository: %w", err)
	}

	notify.Activityf(o.out, "declaring application '%s'", app.Name)

	err = o.deps.ArgoCD.CreateApp(ctx, argocd.ApplicationOptions{
		Name:          app.Name,
		RepoURL:       app.RepoURL,
		Path:          app.Path,
		DestServer:    app.DestServer,
		DestNamespace: app.DestNamespace,
	})
	if err != nil {
		return fmt.Errorf("declare application: %w", err)
	}

	notify.Activityf(o.out, "syncing application '%s'", app.Name)

	err = o.deps.ArgoCD.SyncApp(ctx, app.Name)
	if err != nil {
		return fmt.Errorf("sync application: %w", err)
	}

	notify.SuccessWithTimerf(o.out, o.timer, "application '%s' synced", app.Name)

	return nil
}

func (o *Orchestrator) printSummary(session *Session) {
	notify.Titlef(o.out, "✅", "Argo CD is ready")
	notify.Infof(o.out, "url: %s", session.URL)
	notify.Infof(o.out, "username: %s", o.cfg.ArgoCD.Username)
	notify.Infof(o.out, "password: see '%s'", o.cfg.Files.PasswordFile)
}

package bootstrap_test

import (
	"context"
	"sync"

	"github.com/devantler-tech/argoboot/pkg/apis/bootstrap/v1alpha1"
	"github.com/devantler-tech/argoboot/pkg/client/argocd"
	"github.com/devantler-tech/argoboot/pkg/svc/bootstrap"
	"github.com/devantler-tech/argoboot/pkg/svc/credentials"
	"github.com/devantler-tech/argoboot/pkg/svc/prerequisites"
)

// recorder collects the order in which collaborators are called.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.calls...)
}

type fakePrereqs struct {
	rec *recorder
	err error
}

func (f *fakePrereqs) Check(context.Context) (prerequisites.Result, error) {
	f.rec.add("prereqs")

	return prerequisites.Result{EngineVersion: "1.47"}, f.err
}

type fakeProvisioner struct {
	rec      *recorder
	clusters map[string]bool
	err      error
}

func (f *fakeProvisioner) Create(_ context.Context, name string) error {
	f.rec.add("create " + name)

	if f.err != nil {
		return f.err
	}

	f.clusters[name] = true

	return nil
}

func (f *fakeProvisioner) Delete(_ context.Context, name string) error {
	f.rec.add("delete " + name)
	delete(f.clusters, name)

	return nil
}

func (f *fakeProvisioner) List(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.clusters))
	for name := range f.clusters {
		names = append(names, name)
	}

	return names, nil
}

func (f *fakeProvisioner) Exists(_ context.Context, name string) (bool, error) {
	return f.clusters[name], nil
}

type fakeCluster struct {
	rec         *recorder
	installErr  error
	password    string
	passwordErr error
}

func (f *fakeCluster) WaitForCluster(context.Context) error {
	f.rec.add("wait-cluster")

	return nil
}

func (f *fakeCluster) Install(context.Context) error {
	f.rec.add("install")

	return f.installErr
}

func (f *fakeCluster) WaitForReady(context.Context) error {
	f.rec.add("wait-argocd")

	return nil
}

func (f *fakeCluster) WaitForAdminPassword(context.Context) (string, error) {
	f.rec.add("password")

	return f.password, f.passwordErr
}

type fakePorts struct {
	rec  *recorder
	port int
}

func (f *fakePorts) Find(_ context.Context, _ int) (int, error) {
	f.rec.add("find-port")

	return f.port, nil
}

type fakeSweeper struct {
	rec    *recorder
	killed []int32
	err    error
}

func (f *fakeSweeper) KillMatching(context.Context) ([]int32, error) {
	f.rec.add("sweep")

	return f.killed, f.err
}

type fakeTunnel struct {
	rec          *recorder
	port         int
	establishErr error
	closes       int
}

func (f *fakeTunnel) Establish(context.Context) error {
	f.rec.add("establish")

	return f.establishErr
}

func (f *fakeTunnel) Hold(ctx context.Context) error {
	f.rec.add("hold")
	<-ctx.Done()

	return nil
}

func (f *fakeTunnel) Close() error {
	f.rec.add("close-tunnel")
	f.closes++

	return nil
}

type fakeArgoCD struct {
	rec      *recorder
	loginErr error
	login    argocd.LoginOptions
}

func (f *fakeArgoCD) Login(_ context.Context, opts argocd.LoginOptions) error {
	f.rec.add("login")
	f.login = opts

	return f.loginErr
}

func (f *fakeArgoCD) AddRepo(_ context.Context, repoURL string) error {
	f.rec.add("repo-add " + repoURL)

	return nil
}

func (f *fakeArgoCD) CreateApp(_ context.Context, opts argocd.ApplicationOptions) error {
	f.rec.add("app-create " + opts.Name)

	return nil
}

func (f *fakeArgoCD) SyncApp(_ context.Context, name string) error {
	f.rec.add("app-sync " + name)

	return nil
}

type fakeStore struct {
	rec   *recorder
	saved []credentials.Connection
	files map[string]bool
}

func (f *fakeStore) Save(conn credentials.Connection) error {
	f.rec.add("save")
	f.saved = append(f.saved, conn)

	return nil
}

func (f *fakeStore) Remove() ([]credentials.Removal, error) {
	f.rec.add("remove-files")

	removals := []credentials.Removal{}
	for _, path := range []string{"argocd-password.txt", "argocd-connection.env"} {
		removals = append(removals, credentials.Removal{Path: path, Removed: f.files[path]})
		delete(f.files, path)
	}

	return removals, nil
}

type harness struct {
	rec         *recorder
	prereqs     *fakePrereqs
	provisioner *fakeProvisioner
	cluster     *fakeCluster
	sweeper     *fakeSweeper
	tunnel      *fakeTunnel
	argocd      *fakeArgoCD
	store       *fakeStore
	removedDirs []string
	configDirs  map[string]bool
}

func newHarness() *harness {
	rec := &recorder{}

	return &harness{
		rec:         rec,
		prereqs:     &fakePrereqs{rec: rec},
		provisioner: &fakeProvisioner{rec: rec, clusters: map[string]bool{}},
		cluster:     &fakeCluster{rec: rec, password: "hunter2"},
		sweeper:     &fakeSweeper{rec: rec},
		tunnel:      &fakeTunnel{rec: rec},
		argocd:      &fakeArgoCD{rec: rec},
		store:       &fakeStore{rec: rec, files: map[string]bool{}},
		configDirs:  map[string]bool{},
	}
}

func (h *harness) dependencies() bootstrap.Dependencies {
	return bootstrap.Dependencies{
		Prerequisites: h.prereqs,
		Provisioner:   h.provisioner,
		Connect: func(*v1alpha1.Config) (*bootstrap.ClusterAccess, error) {
			return &bootstrap.ClusterAccess{Cluster: h.cluster, Installer: h.cluster, Password: h.cluster}, nil
		},
		Ports:   &fakePorts{rec: h.rec, port: 8091},
		Sweeper: h.sweeper,
		NewTunnel: func(_ *v1alpha1.Config, port int) bootstrap.Tunnel {
			h.tunnel.port = port

			return h.tunnel
		},
		ArgoCD: h.argocd,
		Store:  h.store,
		RemoveDir: func(path string) (bool, error) {
			h.rec.add("remove-dir")

			existed := h.configDirs[path]
			delete(h.configDirs, path)
			h.removedDirs = append(h.removedDirs, path)

			return existed, nil
		},
	}
}

package bootstrap

import (
	"fmt"
	"strings"

	"github.com/devantler-tech/argoboot/pkg/utils/notify"
)

// ManualSteps returns the commands that finish the setup by hand.
func ManualSteps(session *Session) []string {
	cfg := session.Config
	app := cfg.Application

	forward := fmt.Sprintf("kubectl port-forward svc/%s -n %s %d:443",
		cfg.ArgoCD.ServerService, cfg.ArgoCD.Namespace, session.Port)
	if session.KubeContext != "" {
		forward += " --context " + session.KubeContext
	}

	return []string{
		forward,
		fmt.Sprintf("argocd login %s --username %s --password \"$(cat %s)\" --insecure",
			session.Server(), cfg.ArgoCD.Username, cfg.Files.PasswordFile),
		"argocd repo add " + app.RepoURL,
		strings.Join([]string{
			"argocd app create", app.Name,
			"--repo", app.RepoURL,
			"--path", app.Path,
			"--dest-server", app.DestServer,
			"--dest-namespace", app.DestNamespace,
			"--upsert",
		}, " "),
		"argocd app sync " + app.Name,
	}
}

func (o *Orchestrator) printManualSteps(session *Session) {
	notify.Warningf(o.out, "could not reach Argo CD through the tunnel, finish the setup manually:")

	for _, step := range ManualSteps(session) {
		notify.Hintf(o.out, "%s", step)
	}

	notify.Infof(o.out, "the password is in '%s'", o.cfg.Files.PasswordFile)
}

package notify_test

import (
	"bytes"
	"testing"

	"github.com/devantler-tech/argoboot/pkg/utils/notify"
	"github.com/stretchr/testify/assert"
)

func TestStageSeparatingWriter_SeparatesTitles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	out := notify.NewStageSeparatingWriter(&buf)

	notify.Titlef(out, "🚀", "Create cluster...")
	notify.Successf(out, "cluster created")
	notify.Titlef(out, "🐙", "Install Argo CD...")
	notify.Activityf(out, "applying manifests")

	assert.Equal(t,
		"🚀 Create cluster...\n✔ cluster created\n\n🐙 Install Argo CD...\n► applying manifests\n",
		buf.String(),
	)
}

func TestStageSeparatingWriter_NoLeadingBlankLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	out := notify.NewStageSeparatingWriter(&buf)

	notify.Titlef(out, "🧹", "Reset...")

	assert.Equal(t, "🧹 Reset...\n", buf.String())
}

func TestStageSeparatingWriter_EmptyWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	n, err := notify.NewStageSeparatingWriter(&buf).Write(nil)

	assert.NoError(t, err)
	assert.Zero(t, n)
}

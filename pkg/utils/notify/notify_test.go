package notify_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/devantler-tech/argoboot/pkg/timer"
	"github.com/devantler-tech/argoboot/pkg/utils/notify"
	"github.com/stretchr/testify/assert"
)

type staticTimer struct {
	total time.Duration
	stage time.Duration
}

func (staticTimer) Start()    {}
func (staticTimer) NewStage() {}

func (s staticTimer) GetTiming() (time.Duration, time.Duration) { return s.total, s.stage }

var _ timer.Timer = staticTimer{}

func TestWriteMessage_Symbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msgType notify.MessageType
		want    string
	}{
		{name: "error", msgType: notify.ErrorType, want: "✗ hello\n"},
		{name: "warning", msgType: notify.WarningType, want: "⚠ hello\n"},
		{name: "activity", msgType: notify.ActivityType, want: "► hello\n"},
		{name: "success", msgType: notify.SuccessType, want: "✔ hello\n"},
		{name: "info", msgType: notify.InfoType, want: "ℹ hello\n"},
		{name: "hint", msgType: notify.HintType, want: "→ hello\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			notify.WriteMessage(notify.Message{Type: testCase.msgType, Content: "hello", Writer: &out})

			assert.Equal(t, testCase.want, out.String())
		})
	}
}

func TestWriteMessage_FormatsArgs(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Errorf(&out, "port %d: %s", 8090, "busy")

	assert.Equal(t, "✗ port 8090: busy\n", out.String())
}

func TestWriteMessage_IndentsContinuationLines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Hintf(&out, "run:\nkubectl port-forward\n\nargocd login")

	assert.Equal(t, "→ run:\n  kubectl port-forward\n\n  argocd login\n", out.String())
}

func TestTitlef(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.Titlef(&out, "🚀", "Create %s...", "cluster")

	assert.Equal(t, "🚀 Create cluster...\n", out.String())
}

func TestTitlef_DefaultEmoji(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{Type: notify.TitleType, Content: "Summary", Writer: &out})

	assert.Equal(t, "ℹ️ Summary\n", out.String())
}

func TestSuccessWithTimerf_AppendsTiming(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.SuccessWithTimerf(&out, staticTimer{total: 3 * time.Second, stage: time.Second}, "cluster created")

	assert.Equal(t, "✔ cluster created\n⏲ current: 1s\n  total:  3s\n", out.String())
}

func TestErrorf_IgnoresTimer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.ErrorType,
		Content: "boom",
		Timer:   staticTimer{total: time.Second, stage: time.Second},
		Writer:  &out,
	})

	assert.Equal(t, "✗ boom\n", out.String())
}

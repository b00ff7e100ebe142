package shell

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const fallbackMessage = "Something went wrong."

// crash is shared by every copy of a boundary so a panic caught during View,
// which cannot return a new model, still latches.
type crash struct {
	reason string
}

// boundary wraps a child model. Once the child panics it is replaced by the
// fallback view for the rest of the session.
type boundary struct {
	child  tea.Model
	crash  *crash
	logger *zap.Logger
}

func newBoundary(child tea.Model, logger *zap.Logger) boundary {
	return boundary{child: child, crash: &crash{}, logger: logger}
}

func (b boundary) failed() bool {
	return b.crash.reason != ""
}

func (b boundary) fail(where string, recovered any) {
	if b.failed() {
		return
	}
	b.crash.reason = fmt.Sprint(recovered)
	b.logger.Error("view crashed",
		zap.String("phase", where),
		zap.String("panic", b.crash.reason),
		zap.StackSkip("stack", 2),
	)
}

func (b boundary) init() (cmd tea.Cmd) {
	if b.failed() || b.child == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			b.fail("init", r)
			cmd = nil
		}
	}()
	return b.child.Init()
}

func (b boundary) update(msg tea.Msg) (next boundary, cmd tea.Cmd) {
	if b.failed() || b.child == nil {
		return b, nil
	}
	defer func() {
		if r := recover(); r != nil {
			b.fail("update", r)
			next, cmd = b, nil
		}
	}()

	b.child, cmd = b.child.Update(msg)
	return b, cmd
}

func (b boundary) view(s styles) (out string) {
	if b.failed() {
		return s.fallback.Render(fallbackMessage)
	}
	if b.child == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			b.fail("view", r)
			out = s.fallback.Render(fallbackMessage)
		}
	}()
	return b.child.View()
}

// Package model provides Bubble Tea models for long-running CLI commands.
package model

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/walcache/internal/cli/styles"
)

// TaskModel shows a spinner while a single job runs.
type TaskModel[T any] struct {
	loading  styles.LoadingModel
	job      func() (T, error)
	cancel   context.CancelFunc
	result   T
	err      error
	done     bool
	canceled bool
}

type taskDoneMsg[T any] struct {
	result T
	err    error
}

// NewTaskModel creates a model that runs job once started.
func NewTaskModel[T any](theme *styles.Theme, message string, job func() (T, error)) TaskModel[T] {
	return TaskModel[T]{
		loading: styles.NewLoading(theme, message),
		job:     job,
	}
}

// Init implements tea.Model.
func (m TaskModel[T]) Init() tea.Cmd {
	return tea.Batch(m.loading.Spinner.Tick, m.run)
}

func (m TaskModel[T]) run() tea.Msg {
	result, err := m.job()
	return taskDoneMsg[T]{result: result, err: err}
}

// Update implements tea.Model.
func (m TaskModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg[T]:
		m.done = true
		m.result, m.err = msg.result, msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading.Spinner, cmd = m.loading.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m TaskModel[T]) View() string {
	if m.done || m.canceled {
		return ""
	}
	return "  " + m.loading.View() + "\n"
}

// Result returns the job outcome. A canceled task reports context.Canceled.
func (m TaskModel[T]) Result() (T, error) {
	if m.canceled && !m.done {
		var zero T
		return zero, context.Canceled
	}
	return m.result, m.err
}

// RunTask runs job behind a spinner drawn on stderr and returns its result.
// Pressing ctrl+c cancels the job's context.
func RunTask[T any](ctx context.Context, theme *styles.Theme, message string, job func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewTaskModel(theme, message, func() (T, error) { return job(ctx) })
	m.cancel = cancel

	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("run %q: %w", message, err)
	}
	return final.(TaskModel[T]).Result()
}

var _ tea.Model = TaskModel[int]{}

package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const barWidth = 40

// ProgressMsg reports cumulative work.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg ends the progress program.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type progressModel struct {
	title    string
	done     int
	total    int
	frame    int
	started  time.Time
	now      time.Time
	finished bool
	aborted  bool
	err      error
	cancel   context.CancelFunc
}

func newProgressModel(title string, cancel context.CancelFunc) progressModel {
	now := time.Now()
	return progressModel{title: title, started: now, now: now, cancel: cancel}
}

func (m progressModel) Init() tea.Cmd { return tick() }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case ProgressMsg:
		if msg.Done > m.done {
			m.done = msg.Done
		}
		m.total = msg.Total
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		if msg.Err == nil && m.total > 0 {
			m.done = m.total
		}
		return m, tea.Quit
	case tickMsg:
		m.frame++
		m.now = time.Time(msg)
		return m, tick()
	}
	return m, nil
}

func (m progressModel) fraction() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// eta extrapolates the remaining time from the average rate so far.
func (m progressModel) eta() time.Duration {
	elapsed := m.now.Sub(m.started)
	if m.done <= 0 || elapsed <= 0 || m.done >= m.total {
		return 0
	}
	perItem := elapsed / time.Duration(m.done)
	return perItem * time.Duration(m.total-m.done)
}

func (m progressModel) View() string {
	var b strings.Builder

	status := Spinner(m.frame)
	switch {
	case m.aborted:
		status = Warn.Render("✗")
	case m.finished && m.err != nil:
		status = Warn.Render("✗")
	case m.finished:
		status = "✓"
	}
	fmt.Fprintf(&b, "%s %s\n", status, Title.Render(m.title))
	fmt.Fprintf(&b, "%s %s", ProgressBar(m.fraction(), barWidth), Value.Render(fmt.Sprintf("%5.1f%%", 100*m.fraction())))
	fmt.Fprintf(&b, " %s", Subtle.Render(fmt.Sprintf("%d/%d px", m.done, m.total)))
	if eta := m.eta(); eta > 0 && !m.finished {
		fmt.Fprintf(&b, " %s", Subtle.Render("eta "+eta.Round(time.Second).String()))
	}
	b.WriteString("\n")
	if !m.finished && !m.aborted {
		b.WriteString(Subtle.Render("q to abort") + "\n")
	}
	return b.String()
}

// RunProgress runs work while drawing a progress view on out. Quitting the
// view cancels the context handed to work. The returned error is work's.
func RunProgress(ctx context.Context, out io.Writer, title string, work func(ctx context.Context, progress func(done, total int)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(title, cancel), tea.WithOutput(out), tea.WithContext(ctx))

	errc := make(chan error, 1)
	go func() {
		err := work(ctx, func(done, total int) {
			p.Send(ProgressMsg{Done: done, Total: total})
		})
		p.Send(DoneMsg{Err: err})
		errc <- err
	}()

	_, runErr := p.Run()
	cancel()
	err := <-errc
	if err != nil {
		return err
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}

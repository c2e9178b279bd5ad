package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gosuda/minic"
	mruntime "github.com/gosuda/minic/runtime"
)

var tuiCmd = &cobra.Command{
	Use:   "tui FILE",
	Short: "Run a program in a full screen terminal view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("load program: %w", err)
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			log.Infof("stdout is not a terminal, running %s in plain mode", args[0])
			return runSource(string(b), mruntime.LineReader(os.Stdin), os.Stdout)
		}
		p := tea.NewProgram(newModel(args[0], string(b)), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

type vmStartedMsg struct {
	events <-chan tea.Msg
}

type vmOutputMsg struct {
	out mruntime.Output
}

type vmDoneMsg struct {
	err error
}

type vmInputResp struct {
	value string
	eof   bool
}

type vmPromptMsg struct {
	req  mruntime.InputRequest
	resp chan vmInputResp
}

type model struct {
	name     string
	src      string
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	height   int
	status   string
	running  bool
	events   <-chan tea.Msg
	pending  *vmPromptMsg
	lines    []string
	tail     string
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func newModel(name, src string) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 64
	return model{
		name:     name,
		src:      src,
		viewport: viewport.New(80, 20),
		input:    ti,
		status:   "starting",
	}
}

// runVM executes src and forwards output and input requests as messages.
// The channel is closed once the run is over.
func runVM(src string, events chan<- tea.Msg) {
	defer close(events)
	opts := append(cfg.RuntimeOptions(),
		mruntime.WithOutputHook(func(out mruntime.Output) {
			events <- vmOutputMsg{out: out}
		}),
		mruntime.WithInputProvider(func(req mruntime.InputRequest) (string, error) {
			resp := make(chan vmInputResp, 1)
			events <- vmPromptMsg{req: req, resp: resp}
			r := <-resp
			if r.eof {
				return "", io.EOF
			}
			return r.value, nil
		}),
	)
	vm, err := minic.Compile(src, opts...)
	if err != nil {
		events <- vmDoneMsg{err: err}
		return
	}
	_, err = vm.Run()
	events <- vmDoneMsg{err: err}
}

func startVM(src string) tea.Cmd {
	return func() tea.Msg {
		events := make(chan tea.Msg, 256)
		go runVM(src, events)
		return vmStartedMsg{events: events}
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m model) Init() tea.Cmd {
	return startVM(m.src)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.height = msg.Height
		m.fit()
		m.ready = true
		return m, nil

	case vmStartedMsg:
		m.events = msg.events
		m.running = true
		m.status = "running"
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendOutput(msg.out)
		return m, waitVMEvent(m.events)

	case vmPromptMsg:
		m.pending = &msg
		m.input.SetValue("")
		m.input.Placeholder = "integer"
		m.input.Focus()
		m.fit()
		if msg.req.Target != "" {
			m.status = fmt.Sprintf("input for %s", msg.req.Target)
		} else {
			m.status = "input"
		}
		return m, textinput.Blink

	case vmDoneMsg:
		m.running = false
		m.pending = nil
		m.input.Blur()
		m.fit()
		if msg.err != nil {
			m.status = "failed"
			m.appendOutput(mruntime.Output{Text: errStyle.Render("Error: " + msg.err.Error()), NewLine: true})
		} else {
			m.status = "done"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.pending != nil {
				m.pending.resp <- vmInputResp{eof: true}
			}
			return m, tea.Quit
		}

		if m.pending != nil {
			if msg.Type == tea.KeyEnter {
				val := strings.TrimSpace(m.input.Value())
				m.appendOutput(mruntime.Output{Text: "> " + val, NewLine: true})
				m.pending.resp <- vmInputResp{value: val}
				m.pending = nil
				m.input.Blur()
				m.input.SetValue("")
				m.fit()
				m.status = "running"
				return m, waitVMEvent(m.events)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			if !m.running {
				return m, tea.Quit
			}
		case "r":
			if m.running {
				return m, nil
			}
			m.lines = nil
			m.tail = ""
			m.viewport.SetContent("")
			m.status = "restarting"
			return m, startVM(m.src)
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	parts := []string{m.viewport.View()}
	if m.pending != nil {
		parts = append(parts, inputStyle.Render(m.input.View()))
	}
	help := "ctrl+c quit"
	if !m.running {
		help = "q quit  r rerun  g/G top/bottom"
	}
	parts = append(parts, statusStyle.Render(fmt.Sprintf("%s | %s | %s", m.name, m.status, help)))
	return strings.Join(parts, "\n")
}

// fit leaves room below the viewport for the status line and, while a read is
// pending, the input line.
func (m *model) fit() {
	if m.height == 0 {
		return
	}
	footer := 1
	if m.pending != nil {
		footer++
	}
	m.viewport.Height = max(m.height-footer, 1)
}

func (m *model) appendOutput(out mruntime.Output) {
	if out.NewLine {
		m.lines = append(m.lines, m.tail+out.Text)
		m.tail = ""
	} else {
		m.tail += out.Text
	}
	content := strings.Join(m.lines, "\n")
	if m.tail != "" {
		if content != "" {
			content += "\n"
		}
		content += m.tail
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// Package tui renders the terminal interface: login, dashboard, and the chat
// session with its document-generation modal. All backend work runs inside
// tea commands; the controllers in internal/service hold the session state.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ritankar/legalaid/internal/api"
	"github.com/ritankar/legalaid/internal/model/user"
	"github.com/ritankar/legalaid/internal/service/session"
	"github.com/ritankar/legalaid/internal/store"
)

type view int

const (
	viewLogin view = iota
	viewHome
	viewChat
)

// modalFocus tracks which pane of the document modal receives input.
type modalFocus int

const (
	focusTemplates modalFocus = iota
	focusFields
)

const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldFirstName
	loginFieldLastName
)

// Model is the root bubbletea model.
type Model struct {
	client *api.Client
	store  *store.Store
	logger *zap.Logger
	styles styles

	view   view
	width  int
	height int

	// login / signup
	signup      bool
	loginInputs []textinput.Model
	loginFocus  int
	loginBusy   bool
	loginNote   string

	// dashboard
	profile    user.Profile
	sessions   []api.SessionSummary
	homeCursor int
	homeNote   string

	// chat session
	co        *session.Coordinator
	sessionID string // backend id of a restored session, empty for a fresh one
	chatView  viewport.Model
	chatInput textinput.Model
	spinner   spinner.Model

	// document modal
	modalFocus     modalFocus
	templateCursor int
	fieldCursor    int
	fieldKeys      []string
	fieldInputs    []textinput.Model
	alert          string
}

// New builds the root model. A non-nil profile skips the login view, matching
// the stored-identity behavior of the web client.
func New(client *api.Client, st *store.Store, logger *zap.Logger, profile *user.Profile) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	inputs := make([]textinput.Model, 4)
	placeholders := []string{"user@example.com", "password", "first name", "last name"}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 128
	}
	inputs[loginFieldPassword].EchoMode = textinput.EchoPassword
	inputs[loginFieldEmail].Focus()

	chatInput := textinput.New()
	chatInput.Placeholder = "Type your legal query..."
	chatInput.CharLimit = 1024

	m := Model{
		client:      client,
		store:       st,
		logger:      logger,
		styles:      newStyles(),
		loginInputs: inputs,
		chatView:    viewport.New(80, 20),
		chatInput:   chatInput,
		spinner:     sp,
	}
	if profile != nil {
		m.profile = *profile
		m.view = viewHome
	}
	return m
}

// Init starts cursor blinking and, when already logged in, the dashboard fetch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.view == viewHome {
		cmds = append(cmds, m.fetchSessionsCmd())
	}
	return tea.Batch(cmds...)
}

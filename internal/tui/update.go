package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ritankar/legalaid/internal/api"
	"github.com/ritankar/legalaid/internal/model/chat"
	"github.com/ritankar/legalaid/internal/model/document"
	"github.com/ritankar/legalaid/internal/model/user"
	"github.com/ritankar/legalaid/internal/service/session"
	"github.com/ritankar/legalaid/internal/store"
)

type (
	loginDoneMsg struct {
		profile user.Profile
		err     error
	}
	signupDoneMsg struct{ err error }
	sessionsMsg   struct{ sessions []api.SessionSummary }
	transcriptMsg struct{ err error }
	turnDoneMsg   struct{}
	catalogMsg    struct{}
	generateMsg   struct{ err error }
	newChatMsg    struct{ err error }
	signedOutMsg  struct{}
)

// Update drives the single cooperative event loop: every async result comes
// back through one of the messages above and is applied here.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatView.Width = msg.Width - 4
		m.chatView.Height = msg.Height - 8
		m.refreshChatView()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case viewLogin:
			return m.updateLogin(msg)
		case viewHome:
			return m.updateHome(msg)
		case viewChat:
			return m.updateChat(msg)
		}

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case loginDoneMsg:
		m.loginBusy = false
		if msg.err != nil {
			m.loginNote = msg.err.Error()
			return m, nil
		}
		m.profile = msg.profile
		m.loginNote = ""
		m.view = viewHome
		return m, m.fetchSessionsCmd()

	case signupDoneMsg:
		m.loginBusy = false
		if msg.err != nil {
			m.loginNote = msg.err.Error()
			return m, nil
		}
		m.signup = false
		m.loginNote = "Account created. Please log in."
		return m, nil

	case sessionsMsg:
		m.sessions = msg.sessions
		if m.homeCursor > len(m.sessions) {
			m.homeCursor = 0
		}
		return m, nil

	case transcriptMsg:
		if msg.err != nil {
			m.homeNote = "Could not restore session: " + msg.err.Error()
			m.view = viewHome
			m.co = nil
			return m, nil
		}
		m.refreshChatView()
		return m, nil

	case turnDoneMsg:
		m.refreshChatView()
		return m, nil

	case catalogMsg:
		m.templateCursor = 0
		return m, nil

	case generateMsg:
		if msg.err != nil {
			if api.IsStatus(msg.err) {
				m.alert = "Failed to generate document."
			} else {
				m.alert = "Error generating document."
			}
			return m, nil
		}
		m.refreshChatView()
		return m, nil

	case newChatMsg:
		if msg.err != nil {
			m.logger.Warn("backend memory reset failed", zap.Error(msg.err))
		}
		m.refreshChatView()
		return m, nil

	case signedOutMsg:
		m = m.resetToLogin()
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) busy() bool {
	if m.loginBusy {
		return true
	}
	if m.co == nil {
		return false
	}
	return m.co.Awaiting() || m.co.Draft().Phase == document.GenerationInProgress
}

func (m Model) resetToLogin() Model {
	m.view = viewLogin
	m.co = nil
	m.sessions = nil
	m.profile = user.Profile{}
	m.signup = false
	m.loginBusy = false
	m.loginNote = ""
	m.loginFocus = loginFieldEmail
	for i := range m.loginInputs {
		m.loginInputs[i].SetValue("")
		m.loginInputs[i].Blur()
	}
	m.loginInputs[loginFieldEmail].Focus()
	return m
}

// --- login -----------------------------------------------------------------

func (m Model) loginFieldCount() int {
	if m.signup {
		return 4
	}
	return 2
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loginBusy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.loginFocus = (m.loginFocus + 1) % m.loginFieldCount()
		return m.focusLoginField()
	case "shift+tab", "up":
		m.loginFocus = (m.loginFocus + m.loginFieldCount() - 1) % m.loginFieldCount()
		return m.focusLoginField()
	case "ctrl+t":
		m.signup = !m.signup
		m.loginNote = ""
		m.loginFocus = loginFieldEmail
		return m.focusLoginField()
	case "enter":
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m Model) focusLoginField() (tea.Model, tea.Cmd) {
	for i := range m.loginInputs {
		m.loginInputs[i].Blur()
	}
	return m, m.loginInputs[m.loginFocus].Focus()
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.loginInputs[loginFieldEmail].Value())
	password := m.loginInputs[loginFieldPassword].Value()
	if email == "" || password == "" {
		m.loginNote = "Email and password are required."
		return m, nil
	}

	m.loginBusy = true
	m.loginNote = ""
	if m.signup {
		first := strings.TrimSpace(m.loginInputs[loginFieldFirstName].Value())
		last := strings.TrimSpace(m.loginInputs[loginFieldLastName].Value())
		return m, tea.Batch(m.signupCmd(email, password, first, last), m.spinner.Tick)
	}
	return m, tea.Batch(m.loginCmd(email, password), m.spinner.Tick)
}

// --- dashboard -------------------------------------------------------------

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.homeCursor > 0 {
			m.homeCursor--
		}
	case "down", "j":
		if m.homeCursor < len(m.sessions) {
			m.homeCursor++
		}
	case "r":
		return m, m.fetchSessionsCmd()
	case "x":
		return m, m.signOutCmd()
	case "q":
		return m, tea.Quit
	case "enter":
		m.homeNote = ""
		m.co = session.New(m.profile, m.client, m.logger)
		m.view = viewChat
		m.chatInput.SetValue("")
		m.refreshChatView()
		if m.homeCursor == 0 {
			m.sessionID = ""
			return m, tea.Batch(m.newChatCmd(), m.chatInput.Focus())
		}
		summary := m.sessions[m.homeCursor-1]
		m.sessionID = summary.ID
		return m, tea.Batch(m.restoreCmd(summary.ID), m.chatInput.Focus())
	}
	return m, nil
}

// --- chat session ----------------------------------------------------------

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.co != nil && m.co.ModalOpen() {
		return m.updateModal(msg)
	}

	switch msg.String() {
	case "esc":
		// Save the transcript server-side, then return to the dashboard.
		return m.leaveChat()
	case "ctrl+d":
		m.modalFocus = focusTemplates
		m.fieldInputs = nil
		m.fieldKeys = nil
		m.alert = ""
		return m, m.openModalCmd()
	case "enter":
		text := m.chatInput.Value()
		if strings.TrimSpace(text) == "" || m.co.Awaiting() {
			return m, nil
		}
		m.chatInput.SetValue("")
		m.refreshChatView()
		return m, tea.Batch(m.sendCmd(text), m.spinner.Tick)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) leaveChat() (tea.Model, tea.Cmd) {
	m.view = viewHome
	co := m.co
	m.co = nil
	return m, m.saveAndFetchCmd(co, m.sessionID)
}

// --- document modal --------------------------------------------------------

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.alert = ""

	if msg.String() == "esc" {
		m.co.CloseDocumentModal()
		m.fieldInputs = nil
		m.fieldKeys = nil
		return m, nil
	}

	if m.modalFocus == focusTemplates {
		templates := m.co.Templates()
		switch msg.String() {
		case "up", "k":
			if m.templateCursor > 0 {
				m.templateCursor--
			}
		case "down", "j":
			if m.templateCursor < len(templates)-1 {
				m.templateCursor++
			}
		case "enter":
			if len(templates) == 0 {
				return m, nil
			}
			selected := templates[m.templateCursor]
			m.co.SelectTemplate(selected)
			m.buildFieldForm(selected)
			m.modalFocus = focusFields
			if len(m.fieldInputs) > 0 {
				return m, m.fieldInputs[0].Focus()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m.focusField(m.fieldCursor + 1)
	case "shift+tab", "up":
		return m.focusField(m.fieldCursor - 1)
	case "ctrl+t":
		m.modalFocus = focusTemplates
		return m, nil
	case "ctrl+g":
		if m.co.Draft().Phase == document.GenerationInProgress {
			return m, nil
		}
		return m, tea.Batch(m.generateCmd(), m.spinner.Tick)
	}

	if len(m.fieldInputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.fieldInputs[m.fieldCursor], cmd = m.fieldInputs[m.fieldCursor].Update(msg)
	if err := m.co.SetFieldValue(m.fieldKeys[m.fieldCursor], m.fieldInputs[m.fieldCursor].Value()); err != nil {
		m.logger.Warn("field update rejected", zap.Error(err))
	}
	return m, cmd
}

// buildFieldForm creates one text input per declared field, in declared order.
func (m *Model) buildFieldForm(t document.Template) {
	m.fieldCursor = 0
	m.fieldKeys = make([]string, 0, len(t.Fields))
	m.fieldInputs = make([]textinput.Model, 0, len(t.Fields))
	for _, f := range t.Fields {
		input := textinput.New()
		input.Placeholder = "Enter " + f.Label + "..."
		input.CharLimit = 256
		m.fieldKeys = append(m.fieldKeys, f.Key)
		m.fieldInputs = append(m.fieldInputs, input)
	}
}

func (m Model) focusField(target int) (tea.Model, tea.Cmd) {
	if len(m.fieldInputs) == 0 {
		return m, nil
	}
	if target < 0 {
		target = len(m.fieldInputs) - 1
	}
	target %= len(m.fieldInputs)
	for i := range m.fieldInputs {
		m.fieldInputs[i].Blur()
	}
	m.fieldCursor = target
	return m, m.fieldInputs[target].Focus()
}

// --- commands --------------------------------------------------------------

func (m *Model) loginCmd(email, password string) tea.Cmd {
	client, st := m.client, m.store
	return func() tea.Msg {
		ctx := context.Background()
		profile, err := client.Login(ctx, email, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		if saveErr := st.SaveProfile(ctx, profile); saveErr != nil {
			return loginDoneMsg{profile: profile, err: saveErr}
		}
		return loginDoneMsg{profile: profile}
	}
}

func (m *Model) signupCmd(email, password, first, last string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return signupDoneMsg{err: client.Signup(context.Background(), email, password, first, last)}
	}
}

func (m *Model) signOutCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		_ = st.ClearProfile(context.Background())
		return signedOutMsg{}
	}
}

// fetchSessionsCmd loads recent sessions, falling back to the local cache
// when the backend is unreachable.
func (m *Model) fetchSessionsCmd() tea.Cmd {
	client, st, email := m.client, m.store, m.profile.Email
	logger := m.logger
	return func() tea.Msg {
		ctx := context.Background()
		sessions, err := client.RecentSessions(ctx, email)
		if err != nil {
			logger.Warn("history fetch failed, using cache", zap.Error(err))
			cached, cacheErr := st.Summaries(ctx, email)
			if cacheErr != nil {
				return sessionsMsg{}
			}
			out := make([]api.SessionSummary, len(cached))
			for i, c := range cached {
				out[i] = api.SessionSummary{ID: c.ID, Timestamp: c.Timestamp, Preview: c.Preview}
			}
			return sessionsMsg{sessions: out}
		}

		cache := make([]store.SessionSummary, len(sessions))
		for i, s := range sessions {
			cache[i] = store.SessionSummary{ID: s.ID, Timestamp: s.Timestamp, Preview: s.Preview}
		}
		if err := st.ReplaceSummaries(ctx, email, cache); err != nil {
			logger.Warn("history cache update failed", zap.Error(err))
		}
		return sessionsMsg{sessions: sessions}
	}
}

func (m *Model) sendCmd(text string) tea.Cmd {
	co := m.co
	logger := m.logger
	return func() tea.Msg {
		if err := co.Send(context.Background(), text); err != nil {
			logger.Warn("send rejected", zap.Error(err))
		}
		return turnDoneMsg{}
	}
}

func (m *Model) openModalCmd() tea.Cmd {
	co := m.co
	return func() tea.Msg {
		co.OpenDocumentModal(context.Background())
		return catalogMsg{}
	}
}

func (m *Model) generateCmd() tea.Cmd {
	co := m.co
	return func() tea.Msg {
		return generateMsg{err: co.Generate(context.Background())}
	}
}

func (m *Model) newChatCmd() tea.Cmd {
	client, email := m.client, m.profile.Email
	return func() tea.Msg {
		return newChatMsg{err: client.NewChat(context.Background(), email)}
	}
}

// restoreCmd pulls a saved transcript into both the backend's memory and the
// local conversation log.
func (m *Model) restoreCmd(sessionID string) tea.Cmd {
	client, co, email := m.client, m.co, m.profile.Email
	return func() tea.Msg {
		ctx := context.Background()
		messages, err := client.SessionMessages(ctx, sessionID)
		if err != nil {
			return transcriptMsg{err: err}
		}
		if err := client.RestoreChat(ctx, email, messages); err != nil {
			return transcriptMsg{err: err}
		}
		return transcriptMsg{err: co.RestoreTranscript(messages)}
	}
}

// saveAndFetchCmd persists the finished conversation server-side and then
// refreshes the dashboard list.
func (m *Model) saveAndFetchCmd(co *session.Coordinator, priorSessionID string) tea.Cmd {
	client, email := m.client, m.profile.Email
	logger := m.logger
	fetch := m.fetchSessionsCmd()
	return func() tea.Msg {
		// Nothing to save when the user never spoke.
		if co != nil && hasUserMessage(co.Messages()) {
			if _, err := client.SaveSession(context.Background(), email, priorSessionID); err != nil {
				logger.Warn("session save failed", zap.Error(err))
			}
		}
		return fetch()
	}
}

func hasUserMessage(messages []chat.Message) bool {
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			return true
		}
	}
	return false
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ritankar/legalaid/internal/model/chat"
	"github.com/ritankar/legalaid/internal/model/document"
)

// View renders the active screen.
func (m Model) View() string {
	switch m.view {
	case viewLogin:
		return m.viewLogin()
	case viewHome:
		return m.viewHome()
	case viewChat:
		if m.co != nil && m.co.ModalOpen() {
			return m.viewModal()
		}
		return m.viewChat()
	}
	return ""
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Legal Aid Assistant") + "\n")
	b.WriteString(m.styles.subtle.Render("Professional legal guidance, simplified.") + "\n\n")

	mode := "Login"
	if m.signup {
		mode = "Sign Up"
	}
	b.WriteString(m.styles.selected.Render(mode) + "\n\n")

	labels := []string{"Email", "Password", "First Name", "Last Name"}
	for i := 0; i < m.loginFieldCount(); i++ {
		b.WriteString(m.styles.label.Render(labels[i]) + "\n")
		b.WriteString(m.loginInputs[i].View() + "\n")
	}

	if m.loginBusy {
		b.WriteString("\n" + m.spinner.View() + " working...\n")
	}
	if m.loginNote != "" {
		b.WriteString("\n" + m.styles.notice.Render(m.loginNote) + "\n")
	}

	b.WriteString("\n" + m.styles.help.Render("enter submit · tab next field · ctrl+t toggle login/signup · ctrl+c quit"))
	return m.styles.panel.Render(b.String())
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Welcome, "+m.profile.DisplayName()) + "\n\n")

	cursor := func(idx int) string {
		if m.homeCursor == idx {
			return m.styles.selected.Render("> ")
		}
		return "  "
	}

	b.WriteString(cursor(0) + "Start new session\n\n")
	b.WriteString(m.styles.label.Render("Recent sessions") + "\n")
	if len(m.sessions) == 0 {
		b.WriteString(m.styles.subtle.Render("  No saved sessions yet.") + "\n")
	}
	for i, s := range m.sessions {
		preview := s.Preview
		if preview == "" {
			preview = s.ID
		}
		b.WriteString(cursor(i+1) + fmt.Sprintf("%s  %s\n", m.styles.subtle.Render(s.Timestamp), preview))
	}
	b.WriteString(m.styles.subtle.Render("  End of history") + "\n")

	if m.homeNote != "" {
		b.WriteString("\n" + m.styles.notice.Render(m.homeNote) + "\n")
	}

	b.WriteString("\n" + m.styles.help.Render("enter open · r refresh · x sign out · q quit"))
	return m.styles.panel.Render(b.String())
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("ACTIVE SESSION") + "  ")
	b.WriteString(m.styles.subtle.Render("Connected to Legal Aid Core") + "\n\n")

	b.WriteString(m.chatView.View() + "\n")

	if m.co.Awaiting() {
		b.WriteString(m.spinner.View() + m.styles.subtle.Render(" ANALYZING LEGAL PRECEDENTS...") + "\n")
	} else {
		b.WriteString(m.chatInput.View() + "\n")
	}

	b.WriteString(m.styles.help.Render("enter send · ctrl+d generate doc · esc dashboard · ctrl+c quit"))
	return b.String()
}

func (m Model) viewModal() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Generate Legal Document") + "\n\n")

	templates := m.co.Templates()
	draft := m.co.Draft()

	b.WriteString(m.styles.label.Render("Templates") + "\n")
	if len(templates) == 0 {
		b.WriteString(m.styles.subtle.Render("  No templates available.") + "\n")
	}
	for i, t := range templates {
		marker := "  "
		title := t.Title
		if draft.Template != nil && draft.Template.ID == t.ID {
			title = m.styles.success.Render(title)
		}
		if m.modalFocus == focusTemplates && i == m.templateCursor {
			marker = m.styles.selected.Render("> ")
		}
		b.WriteString(marker + title + "\n")
	}
	b.WriteString("\n")

	if draft.Template == nil {
		b.WriteString(m.styles.subtle.Render("Select a template to start drafting") + "\n")
	} else {
		b.WriteString(m.styles.selected.Render(draft.Template.Title) + "\n")
		for i, f := range draft.Template.Fields {
			b.WriteString(m.styles.label.Render(f.Label) + "\n")
			if i < len(m.fieldInputs) {
				b.WriteString(m.fieldInputs[i].View() + "\n")
			}
		}
		b.WriteString("\n" + m.renderGenerationStatus(draft))
	}

	if m.alert != "" {
		b.WriteString("\n" + m.styles.alert.Render(m.alert) + "\n")
	}

	b.WriteString("\n" + m.styles.help.Render("enter select · tab next field · ctrl+g generate · ctrl+t templates · esc close"))
	return m.styles.panel.Render(b.String())
}

func (m Model) renderGenerationStatus(draft document.DraftView) string {
	switch draft.Phase {
	case document.GenerationInProgress:
		return m.spinner.View() + m.styles.subtle.Render(" Generating...") + "\n"
	case document.GenerationSucceeded:
		return m.styles.success.Render("Document ready: "+draft.ArtifactURL) + "\n"
	case document.GenerationFailed:
		return m.styles.alert.Render("Generation failed.") + "\n"
	}
	return ""
}

// refreshChatView re-renders the conversation into the viewport and pins the
// latest message into view.
func (m *Model) refreshChatView() {
	if m.co == nil {
		m.chatView.SetContent("")
		return
	}
	m.chatView.SetContent(m.renderMessages(m.co.Messages()))
	m.chatView.GotoBottom()
}

func (m Model) renderMessages(messages []chat.Message) string {
	width := m.chatView.Width
	if width <= 0 {
		width = 76
	}

	var b strings.Builder
	for _, msg := range messages {
		label := m.styles.assistant.Render("Assistant")
		if msg.Role == chat.RoleUser {
			label = m.styles.user.Render("You")
		}
		body := lipgloss.NewStyle().Width(width).Render(msg.Content)
		b.WriteString(label + "\n" + body + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

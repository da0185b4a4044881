// Package render draws the chat on a terminal: bot and system panels,
// the menu table and the priced order summary.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ccastromar/pizzabot/internal/logx"
	"github.com/ccastromar/pizzabot/internal/menu"
	"github.com/ccastromar/pizzabot/internal/order"
)

const minWidth = 30

var (
	accent  = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
	info    = lipgloss.Color("#2196F3")
	gold    = lipgloss.Color("#ffd54f")
)

type styles struct {
	panel   lipgloss.Style
	header  lipgloss.Style
	system  lipgloss.Style
	failure lipgloss.Style
	order   lipgloss.Style
	centred lipgloss.Style
	prompt  lipgloss.Style
	notice  lipgloss.Style
	table   lipgloss.Style
	cell    lipgloss.Style
}

func newStyles(re *lipgloss.Renderer, width int) styles {
	box := re.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width - 2)
	return styles{
		panel:   box.BorderForeground(accent),
		header:  re.NewStyle().Bold(true).Foreground(accent),
		system:  box.BorderForeground(warning),
		failure: box.BorderForeground(danger),
		order:   box.BorderForeground(gold),
		centred: re.NewStyle().Bold(true).Width(width - 4).Align(lipgloss.Center),
		prompt:  re.NewStyle().Bold(true).Foreground(accent),
		notice:  re.NewStyle().Bold(true).Foreground(info),
		table:   re.NewStyle().Foreground(info),
		cell:    re.NewStyle().Padding(0, 1),
	}
}

// Terminal writes the conversation to out. Colours follow what the
// writer supports; a plain file or buffer gets no escape codes.
type Terminal struct {
	out   io.Writer
	title string
	width int
	re    *lipgloss.Renderer
	md    *glamour.TermRenderer
	st    styles
}

func New(out io.Writer, title string, width int) *Terminal {
	if width < minWidth {
		width = minWidth
	}
	re := lipgloss.NewRenderer(out)

	style := glamour.WithAutoStyle()
	if re.ColorProfile() == termenv.Ascii {
		style = glamour.WithStandardStyle("notty")
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width-6))
	if err != nil {
		logx.Warn("Render", "markdown renderer unavailable, using plain text: %v", err)
		md = nil
	}

	return &Terminal{
		out:   out,
		title: title,
		width: width,
		re:    re,
		md:    md,
		st:    newStyles(re, width),
	}
}

func (t *Terminal) Width() int { return t.width }

func (t *Terminal) println(s string) {
	fmt.Fprintln(t.out, s)
}

// Welcome prints the opening banner.
func (t *Terminal) Welcome(text string) {
	t.println(t.st.panel.Render(t.st.centred.Render(t.title) + "\n\n" + text))
}

// Bot prints a model reply. The reply is Markdown; a literal "\n" is
// treated as a newline since models often double-escape inside JSON.
func (t *Terminal) Bot(msg string) {
	msg = strings.ReplaceAll(msg, `\n`, "\n")
	body := t.markdown(msg)
	t.println(t.st.panel.Render(t.st.header.Render("🤖 "+t.title) + "\n\n" + body))
}

func (t *Terminal) markdown(msg string) string {
	if t.md == nil {
		return msg
	}
	out, err := t.md.Render(msg)
	if err != nil {
		logx.Debug("Render", "markdown render failed: %v", err)
		return msg
	}
	return strings.Trim(out, "\n")
}

// System prints a note from the ordering system, not from the model.
func (t *Terminal) System(msg string) {
	t.println(t.st.system.Render("SYSTEM: " + msg))
}

func (t *Terminal) Error(msg string) {
	t.println(t.st.failure.Render("SYSTEM: " + msg))
}

// Notice prints a single highlighted line outside any panel.
func (t *Terminal) Notice(msg string) {
	t.println(t.st.notice.Render(msg))
}

// Prompt asks for the next customer line without a trailing newline.
func (t *Terminal) Prompt() {
	fmt.Fprint(t.out, t.st.prompt.Render("   👤 You:")+" ")
}

// Order prints the final order panel followed by the closing line.
func (t *Terminal) Order(o *order.Order, closing string) {
	inner := t.width - 4
	body := t.st.centred.Render("🍕 "+t.title+" 🍕") + "\n" +
		t.st.centred.Render("~ Your Final Order ~") + "\n\n" +
		Summary(o, inner)
	t.println(t.st.order.Render(body))
	if closing != "" {
		t.Notice(closing)
	}
}

// Partial prints what was ordered before the chat ended early.
func (t *Terminal) Partial(o *order.Order) {
	if o == nil || o.Len() == 0 {
		return
	}
	inner := t.width - 4
	body := t.st.centred.Render("Your order so far (not placed)") + "\n\n" + Summary(o, inner)
	t.println(t.st.system.Render(body))
}

func (t *Terminal) Goodbye(msg string) {
	t.Notice(msg)
}

// Menu prints the catalog as a table.
func (t *Terminal) Menu(m *menu.Menu) {
	t.println(menuTable(t.re, m, t.st).Render())
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
	"github.com/kamelfcis/childtodotasks/internal/storage"
	"github.com/kamelfcis/childtodotasks/internal/ui"
)

type boardModel struct {
	ctx context.Context
	svc *ledger.Service

	childID string
	day     ledger.Day

	width  int
	height int

	child     *storage.Child
	instances []storage.TaskInstance
	gifts     []storage.GiftTemplate

	selected  int
	lastLog   string
	loading   bool
	celebrate bool
	err       error
}

type loadedMsg struct {
	child     *storage.Child
	instances []storage.TaskInstance
	gifts     []storage.GiftTemplate
	err       error
}

type completedMsg struct {
	id  string
	res *ledger.CompleteResult
	err error
}

type redeemedMsg struct {
	res *ledger.RedeemResult
	err error
}

func newBoardModel(ctx context.Context, svc *ledger.Service, childID string, day ledger.Day) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		childID: childID,
		day:     day,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		child, err := m.svc.FindChild(m.ctx, m.childID)
		if err != nil {
			return loadedMsg{err: err}
		}
		instances, err := m.svc.EnsureDailyTasks(m.ctx, child.ID, m.day)
		if err != nil {
			return loadedMsg{err: err}
		}
		gifts, err := m.svc.ListGifts(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{child: child, instances: instances, gifts: gifts}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Complete(m.ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) redeemCmd(giftID string) tea.Cmd {
	childID := m.child.ID
	return func() tea.Msg {
		res, err := m.svc.Redeem(m.ctx, ledger.RedeemInput{ChildID: childID, GiftID: giftID})
		return redeemedMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.child = msg.child
		m.instances = msg.instances
		m.gifts = msg.gifts
		m.celebrate = allDone(m.instances)
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		if msg.res.AlreadyDone {
			m.lastLog = "Already done."
		} else {
			c := ui.CelebrationFor(m.childName())
			m.lastLog = fmt.Sprintf("%s +%d points (balance %d) %s", c.Label, msg.res.PointsAwarded, msg.res.NewBalance, c.Burst())
		}
		return m, m.loadCmd()
	case redeemedMsg:
		if msg.err != nil {
			var short ledger.InsufficientBalanceError
			if errors.As(msg.err, &short) {
				m.lastLog = fmt.Sprintf("Need %d more points for that gift.", short.Missing())
				return m, nil
			}
			m.lastLog = "Redeem failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Redeemed %s for %d points (balance %d) %s", msg.res.GiftTitle, msg.res.Cost, msg.res.NewBalance, ui.IconGift)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.rows())-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			rows := m.rows()
			if m.selected < 0 || m.selected >= len(rows) {
				return m, nil
			}
			row := rows[m.selected]
			if row.giftID != "" {
				m.lastLog = fmt.Sprintf("Redeeming %s…", row.title)
				return m, m.redeemCmd(row.giftID)
			}
			if row.done {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %s…", row.title)
			return m, m.completeCmd(row.instanceID)
		}
	}
	return m, nil
}

type boardRow struct {
	instanceID string
	giftID     string
	title      string
	icon       string
	points     int
	done       bool
	affordable bool
}

// rows lists today's tasks first, then the gift shop.
func (m boardModel) rows() []boardRow {
	var out []boardRow
	for _, inst := range m.instances {
		out = append(out, boardRow{
			instanceID: inst.ID,
			title:      inst.Title,
			icon:       inst.Icon,
			points:     inst.Points,
			done:       inst.Done,
		})
	}
	balance := 0
	if m.child != nil {
		balance = m.child.Balance
	}
	for _, g := range m.gifts {
		out = append(out, boardRow{
			giftID:     g.ID,
			title:      g.Title,
			icon:       ui.IconGift,
			points:     g.Cost,
			affordable: balance >= g.Cost,
		})
	}
	return out
}

func (m boardModel) childName() string {
	if m.child == nil {
		return ""
	}
	return m.child.Name
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.child == nil {
		return "ChoreChart — loading…"
	}
	done, total := doneCount(m.instances)
	bar := progressBar(done, total, 30)
	return fmt.Sprintf("ChoreChart | %s %s | %s | Today %d/%d %s",
		ui.IconChild, m.child.Name, ui.Points(m.child.Balance), done, total, bar)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Today: " + m.day.String()}
	if m.child != nil {
		lines = append(lines, fmt.Sprintf("Balance: %d", m.child.Balance))
		if g := cheapestUnaffordable(m.gifts, m.child.Balance); g != nil {
			lines = append(lines, fmt.Sprintf("Next gift: %s (%d)", g.Title, g.Cost))
			lines = append(lines, "Need "+fmt.Sprint(g.Cost-m.child.Balance)+" more")
		}
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- c/space: complete/redeem")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	rows := m.rows()
	var out []string
	out = append(out, "Checklist")
	if len(m.instances) == 0 {
		out = append(out, "(no tasks today — add templates with `chore task add`)")
	}
	for i, row := range rows {
		if i == len(m.instances) && len(m.gifts) > 0 {
			out = append(out, "")
			out = append(out, "Gift Shop")
		}
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		if row.giftID != "" {
			afford := ""
			if !row.affordable {
				afford = " (locked)"
			}
			out = append(out, fmt.Sprintf("%s%s %s — %d points%s", cursor, row.icon, row.title, row.points, afford))
			continue
		}
		out = append(out, fmt.Sprintf("%s%s %s %s (+%d)", cursor, ui.DoneIcon(row.done), row.icon, row.title, row.points))
	}
	if m.celebrate && len(m.instances) > 0 {
		c := ui.CelebrationFor(m.childName())
		out = append(out, "")
		out = append(out, ui.BadgeAllDone+" "+c.Label+" "+c.Burst())
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func allDone(instances []storage.TaskInstance) bool {
	if len(instances) == 0 {
		return false
	}
	for _, inst := range instances {
		if !inst.Done {
			return false
		}
	}
	return true
}

func doneCount(instances []storage.TaskInstance) (done int, total int) {
	for _, inst := range instances {
		if inst.Done {
			done++
		}
	}
	return done, len(instances)
}

func cheapestUnaffordable(gifts []storage.GiftTemplate, balance int) *storage.GiftTemplate {
	for i := range gifts {
		if gifts[i].Cost > balance {
			return &gifts[i]
		}
	}
	return nil
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// Package tui is an interactive terminal browser over the catalog views.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/BielosX/wombat/pokedex/src/loading"
	"github.com/BielosX/wombat/pokedex/src/pokedex"
)

type page int

const (
	listPage page = iota
	detailPage
)

const defaultVisibleRows = 15

type listActivatedMsg struct {
	seq int
	err error
}

type detailActivatedMsg struct {
	seq int
	err error
}

type loadingMsg bool

// Model switches between the list and the detail view. Leaving a page
// cancels its in-flight activation, and completions of superseded
// activations are dropped by sequence number.
type Model struct {
	ctx          context.Context
	fetcher      pokedex.Fetcher
	loading      *loading.State
	updates      <-chan bool
	unsubscribe  func()
	displayFloor time.Duration
	sugar        *zap.SugaredLogger

	page         page
	list         *pokedex.ListView
	listSeq      int
	cancelList   context.CancelFunc
	detail       *pokedex.DetailView
	detailName   string
	detailSeq    int
	cancelDetail context.CancelFunc

	search    textinput.Model
	spinner   spinner.Model
	cursor    int
	isLoading bool
	height    int
	styles    Styles
}

func New(ctx context.Context,
	fetcher pokedex.Fetcher,
	loadingState *loading.State,
	displayFloor time.Duration,
	sugar *zap.SugaredLogger) Model {
	search := textinput.New()
	search.Placeholder = "Search by name..."
	search.CharLimit = 32
	search.Width = 32
	search.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	updates, unsubscribe := loadingState.Subscribe()
	return Model{
		ctx:          ctx,
		fetcher:      fetcher,
		loading:      loadingState,
		updates:      updates,
		unsubscribe:  unsubscribe,
		displayFloor: displayFloor,
		sugar:        sugar,
		search:       search,
		spinner:      s,
		isLoading:    loadingState.IsLoading(),
		styles:       DefaultStyles(),
	}
}

// Close releases the loading subscription and cancels pending activations.
func (m Model) Close() {
	m.unsubscribe()
	if m.cancelList != nil {
		m.cancelList()
	}
	if m.cancelDetail != nil {
		m.cancelDetail()
	}
}

func (m *Model) startList() tea.Cmd {
	if m.cancelDetail != nil {
		m.cancelDetail()
		m.cancelDetail = nil
	}
	if m.cancelList != nil {
		m.cancelList()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelList = cancel
	m.listSeq++
	m.page = listPage
	m.cursor = 0
	m.search.SetValue("")
	m.search.Focus()

	view := pokedex.NewListView(m.fetcher, m.loading, m.displayFloor, m.sugar)
	m.list = view
	seq := m.listSeq
	return func() tea.Msg {
		return listActivatedMsg{seq: seq, err: view.Activate(ctx)}
	}
}

func (m *Model) startDetail(name string) tea.Cmd {
	if m.cancelList != nil {
		m.cancelList()
		m.cancelList = nil
	}
	if m.cancelDetail != nil {
		m.cancelDetail()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelDetail = cancel
	m.detailSeq++
	m.page = detailPage
	m.detailName = name
	m.search.Blur()

	view := pokedex.NewDetailView(m.fetcher, m.sugar)
	m.detail = view
	seq := m.detailSeq
	return func() tea.Msg {
		return detailActivatedMsg{seq: seq, err: view.Activate(ctx, name)}
	}
}

func (m Model) watchLoading() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		value, ok := <-updates
		if !ok {
			return nil
		}
		return loadingMsg(value)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.watchLoading(), func() tea.Msg {
		return startListMsg{}
	})
}

type startListMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startListMsg:
		return m, m.startList()
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case loadingMsg:
		m.isLoading = bool(msg)
		return m, m.watchLoading()
	case listActivatedMsg:
		if msg.seq != m.listSeq {
			return m, nil
		}
		if msg.err != nil {
			m.sugar.Debugf("List activation ended: %s", msg.err)
		}
		return m, nil
	case detailActivatedMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		if msg.err != nil {
			m.sugar.Debugf("Detail activation ended: %s", msg.err)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.page == detailPage {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.list != nil && m.cursor < len(m.list.Filtered())-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyEnter:
		if m.list == nil {
			return m, nil
		}
		items := m.list.Filtered()
		if m.cursor >= len(items) {
			return m, nil
		}
		return m, m.startDetail(items[m.cursor].Name)
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before && m.list != nil {
		m.list.OnSearch(value)
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyBackspace:
		return m, m.startList()
	}
	return m, nil
}

func (m Model) View() string {
	if m.page == detailPage {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Pokédex"))
	b.WriteString("\n")
	if m.isLoading {
		b.WriteString(fmt.Sprintf("%s Loading Pokédex...\n", m.spinner.View()))
		return b.String()
	}
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	if m.list == nil {
		return b.String()
	}
	state := m.list.Snapshot()
	if state.Error != "" {
		b.WriteString(m.styles.Error.Render(state.Error))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("esc quit"))
		return b.String()
	}

	rows := defaultVisibleRows
	if m.height > 8 {
		rows = m.height - 8
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(state.Items))
	for i := start; i < end; i++ {
		name := state.Items[i].Name
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + name))
		} else {
			b.WriteString(m.styles.Item.Render(name))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d of %d", len(state.Items), state.Total)))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ select • enter details • esc quit"))
	return b.String()
}

func (m Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Pokédex"))
	b.WriteString("\n")
	state := m.detail.State()
	switch {
	case state.IsLoading:
		b.WriteString(fmt.Sprintf("%s Loading %s...\n", m.spinner.View(), m.detailName))
	case state.Error != "":
		b.WriteString(m.styles.Error.Render(state.Error))
		b.WriteString("\n")
	case state.Detail != nil:
		primary, secondary := state.Palette()
		detail := state.Detail
		card := fmt.Sprintf("#%d %s\n\nHeight: %d\nWeight: %d",
			detail.Id, capitalize(detail.Name), detail.Height, detail.Weight)
		if detail.Sprites.FrontDefault != "" {
			card += "\nSprite: " + detail.Sprites.FrontDefault
		}
		b.WriteString(cardStyle(primary, secondary).Render(card))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("esc back • ctrl+c quit"))
	return b.String()
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

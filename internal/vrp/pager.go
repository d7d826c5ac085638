package vrp

import "strings"

// MorePrompt is the banner shown between pages of long output.
const MorePrompt = "  ---- More ----"

// clearBanner erases the banner line before the next page is written.
var clearBanner = "\r" + strings.Repeat(" ", len(MorePrompt)) + "\r"

type pagerState int

const (
	pagerIdle pagerState = iota
	pagerWaiting
)

// Pager splits command output that exceeds the screen length into pages,
// waiting for a keystroke between them. It is owned by a single
// connection and holds state only while a page is pending.
type Pager struct {
	state    pagerState
	lines    []string
	current  int
	pageSize int
}

func NewPager() *Pager {
	return &Pager{}
}

// Active reports whether a "More" banner is on screen and the pager is
// waiting for input.
func (p *Pager) Active() bool {
	return p.state == pagerWaiting
}

// Start paginates content for the given screen length. screenLength 0
// disables paging. Two lines are reserved for the banner and the next
// prompt, with a floor of one content line per page. The bool reports
// whether more output is pending behind a banner.
func (p *Pager) Start(content string, screenLength int) (string, bool) {
	if screenLength == 0 {
		return content, false
	}

	lines := strings.Split(content, "\n")

	pageSize := screenLength - 2
	if pageSize < 1 {
		pageSize = 1
	}

	if len(lines) <= pageSize {
		return content, false
	}

	p.lines = lines
	p.current = 0
	p.pageSize = pageSize

	return p.nextPage()
}

// HandleInput advances pagination for one keystroke: space emits the next
// page, enter the next line, q/Q/Ctrl+C aborts. Any other byte leaves the
// banner waiting.
func (p *Pager) HandleInput(b byte) (string, bool) {
	if !p.Active() {
		return "", false
	}

	switch b {
	case ' ':
		output, more := p.nextPage()
		return clearBanner + output, more
	case '\r', '\n':
		output, more := p.nextLine()
		return clearBanner + output, more
	case 'q', 'Q', 0x03:
		p.reset()
		return clearBanner, false
	default:
		return "", true
	}
}

func (p *Pager) nextPage() (string, bool) {
	end := min(p.current+p.pageSize, len(p.lines))
	output := strings.Join(p.lines[p.current:end], "\n")
	p.current = end

	if p.current >= len(p.lines) {
		p.reset()
		return output, false
	}

	p.state = pagerWaiting
	return output + "\n" + MorePrompt, true
}

func (p *Pager) nextLine() (string, bool) {
	if p.current >= len(p.lines) {
		p.reset()
		return "", false
	}

	output := p.lines[p.current]
	p.current++

	if p.current >= len(p.lines) {
		p.reset()
		return output, false
	}

	p.state = pagerWaiting
	return output + "\n" + MorePrompt, true
}

func (p *Pager) reset() {
	p.lines = nil
	p.current = 0
	p.state = pagerIdle
}

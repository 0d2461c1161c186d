package components

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dafoggo/klinh-admin/internal/ui/theme"
)

// Calendar is a month grid with a day cursor
type Calendar struct {
	cursor time.Time
	loc    *time.Location
	today  time.Time
}

// NewCalendar creates a calendar positioned on the day of t
func NewCalendar(t time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	c := Calendar{loc: loc}
	c.cursor = startOfDay(t, loc)
	c.today = startOfDay(time.Now(), loc)
	return c
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Cursor returns the start of the day under the cursor
func (c Calendar) Cursor() time.Time {
	return c.cursor
}

// SetCursor moves the cursor to the day of t
func (c *Calendar) SetCursor(t time.Time) {
	c.cursor = startOfDay(t, c.loc)
}

// Update moves the cursor. It reports whether the day under the cursor was picked.
func (c *Calendar) Update(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "h":
		c.cursor = c.cursor.AddDate(0, 0, -1)
	case "right", "l":
		c.cursor = c.cursor.AddDate(0, 0, 1)
	case "up", "k":
		c.cursor = c.cursor.AddDate(0, 0, -7)
	case "down", "j":
		c.cursor = c.cursor.AddDate(0, 0, 7)
	case "[", "pgup":
		c.cursor = addMonths(c.cursor, -1)
	case "]", "pgdown":
		c.cursor = addMonths(c.cursor, 1)
	case "t":
		c.cursor = c.today
	case "enter", " ":
		return true
	}
	return false
}

// addMonths keeps the day when possible and clamps to the month's last day
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// View renders the month of the cursor. Days in selected are highlighted.
func (c Calendar) View(th theme.Theme, focused bool, selected ...time.Time) string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(th.Info)
	b.WriteString(header.Render(fmt.Sprintf("%s %d", c.cursor.Month(), c.cursor.Year())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(th.Muted).Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	isSelected := func(day time.Time) bool {
		for _, s := range selected {
			if !s.IsZero() && startOfDay(s, c.loc).Equal(day) {
				return true
			}
		}
		return false
	}

	first := time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, c.loc)
	// Monday first
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))

	daysInMonth := first.AddDate(0, 1, -1).Day()
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, c.loc)
		style := lipgloss.NewStyle()
		switch {
		case focused && day.Equal(c.cursor):
			style = style.Reverse(true)
		case isSelected(day):
			style = style.Background(th.CalendarSelected).Foreground(th.Foreground)
		case day.Equal(c.today):
			style = style.Foreground(th.CalendarToday).Bold(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("%2d", d)))

		if (offset+d)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

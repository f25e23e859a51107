// Package report renders planning results for the terminal.
//
// Every Printer method writes one self-contained block. Tables are drawn with
// lipgloss/table; colors are dropped entirely when the Printer is built
// without color so output stays stable in pipes and tests.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	v1 "github.com/capest-planner/capest/api/v1"
	"github.com/capest-planner/capest/pkg/core"
)

const barWidth = 10

// Printer writes styled reports to w.
type Printer struct {
	w     io.Writer
	theme Theme
}

// New returns a Printer writing to w.
func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, theme: newTheme(newRenderer(w, color))}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Message writes a single plain line.
func (p *Printer) Message(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}

func (p *Printer) write(blocks ...string) error {
	_, err := io.WriteString(p.w, strings.Join(blocks, "\n")+"\n")
	return err
}

// table draws rows under headers. style, when non-nil, picks the style of a
// data cell; header cells always use the header style.
func (p *Printer) table(headers []string, rows [][]string, style func(row, col int) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.theme.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.theme.Header
			}
			if style != nil {
				return style(row, col)
			}
			return p.theme.Cell
		})
	return t.String()
}

func (p *Printer) title(format string, args ...any) string {
	return p.theme.Title.Render(fmt.Sprintf(format, args...))
}

func (p *Printer) faint(s string) string {
	return p.theme.Faint.Render(s)
}

func itoa(n int) string { return strconv.Itoa(n) }

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (part*200 + whole) / (2 * whole)
}

// bar draws a fixed-width progress bar for pct in [0,100].
func bar(pct int) string {
	filled := min(barWidth, max(0, (pct*barWidth+50)/100))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func weeksList(weeks []int) string {
	parts := make([]string, len(weeks))
	for i, w := range weeks {
		parts[i] = itoa(w)
	}
	return strings.Join(parts, ", ")
}

func rolesList(roles []v1.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// Summary renders the quarter-wide capacity report.
func (p *Printer) Summary(q v1.Quarter, s core.QuarterSummary) error {
	blocks := []string{
		p.title("%s (%s, %d weeks)", q.Label, q.ID, q.TotalWeeks),
		fmt.Sprintf("Available %d  Allocated %d  Utilization %d%%",
			s.TotalAvailable, s.TotalAllocated, percent(s.TotalAllocated, s.TotalAvailable)),
	}

	if len(s.MemberCapacities) == 0 {
		blocks = append(blocks, p.faint("No members."))
	} else {
		rows := make([][]string, 0, len(s.MemberCapacities))
		for _, mc := range s.MemberCapacities {
			status := "ok"
			if mc.IsOverAllocated {
				status = "over"
			}
			rows = append(rows, []string{mc.MemberName, itoa(mc.Available), itoa(mc.Allocated), itoa(mc.Remaining), status})
		}
		blocks = append(blocks, p.table(
			[]string{"Member", "Available", "Allocated", "Remaining", "Status"}, rows,
			func(row, col int) lipgloss.Style {
				if s.MemberCapacities[row].IsOverAllocated && (col == 3 || col == 4) {
					return p.theme.Bad
				}
				return p.theme.Cell
			}))
	}

	names := make(map[string]string, len(s.MemberCapacities))
	for _, mc := range s.MemberCapacities {
		names[mc.MemberID] = mc.MemberName
	}
	if len(s.OverAllocatedMembers) > 0 {
		over := make([]string, len(s.OverAllocatedMembers))
		for i, id := range s.OverAllocatedMembers {
			over[i] = names[id]
		}
		blocks = append(blocks, p.theme.Bad.UnsetPadding().Render("Over-allocated: "+strings.Join(over, ", ")))
	}

	if len(s.UnassignedRequirements) == 0 {
		blocks = append(blocks, p.faint("All role requirements are staffed."))
	} else {
		rows := make([][]string, 0, len(s.UnassignedRequirements))
		for _, u := range s.UnassignedRequirements {
			rows = append(rows, []string{u.InitiativeName, string(u.Role), itoa(u.Effort)})
		}
		blocks = append(blocks, "Unassigned requirements",
			p.table([]string{"Initiative", "Role", "Missing weeks"}, rows, nil))
	}
	return p.write(blocks...)
}

// OverAllocations renders the members allocated beyond availability.
func (p *Printer) OverAllocations(quarterID string, over []core.OverAllocation) error {
	if len(over) == 0 {
		return p.write(p.faint(fmt.Sprintf("No over-allocated members in %s.", quarterID)))
	}
	rows := make([][]string, 0, len(over))
	for _, o := range over {
		rows = append(rows, []string{o.MemberName, itoa(o.ExcessWeeks)})
	}
	return p.write(
		p.title("Over-allocated members in %s", quarterID),
		p.table([]string{"Member", "Excess weeks"}, rows, func(_, col int) lipgloss.Style {
			if col == 1 {
				return p.theme.Bad
			}
			return p.theme.Cell
		}))
}

// Conflicts renders the outcome of a week conflict check.
func (p *Printer) Conflicts(memberName string, r core.ConflictResult) error {
	if !r.HasConflict {
		return p.write(p.theme.Good.UnsetPadding().Render(fmt.Sprintf("No conflicts for %s.", memberName)))
	}
	rows := make([][]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		rows = append(rows, []string{c.InitiativeName, weeksList(c.Weeks)})
	}
	return p.write(
		p.title("%s is already booked in weeks %s", memberName, weeksList(r.ConflictingWeeks)),
		p.table([]string{"Initiative", "Weeks"}, rows, nil))
}

// CarryOverRow is one assignment checked against the quarter boundary.
type CarryOverRow struct {
	Initiative string         `json:"initiative"`
	Member     string         `json:"member"`
	Role       v1.Role        `json:"role"`
	StartWeek  int            `json:"startWeek"`
	Weeks      int            `json:"weeksAllocated"`
	Split      core.CarryOver `json:"split"`
}

// CarryOver renders assignments that run past the end of the quarter.
func (p *Printer) CarryOver(q v1.Quarter, rows []CarryOverRow) error {
	if len(rows) == 0 {
		return p.write(p.faint(fmt.Sprintf("Nothing carries over past week %d of %s.", q.TotalWeeks, q.ID)))
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Initiative, r.Member, string(r.Role),
			fmt.Sprintf("%d-%d", r.StartWeek, r.StartWeek+r.Weeks-1),
			itoa(r.Split.InQuarterWeeks), itoa(r.Split.CarriedWeeks),
		})
	}
	return p.write(
		p.title("Carry-over past %s (week %d)", q.ID, q.TotalWeeks),
		p.table([]string{"Initiative", "Member", "Role", "Weeks", "In quarter", "Carried"}, cells,
			func(_, col int) lipgloss.Style {
				if col == 5 {
					return p.theme.Warn
				}
				return p.theme.Cell
			}))
}

// Fulfillment renders per-requirement staffing progress for an initiative.
func (p *Printer) Fulfillment(ini v1.Initiative, fs []core.RoleFulfillment) error {
	if len(fs) == 0 {
		return p.write(p.title("%s", ini.Name), p.faint("No role requirements."))
	}
	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		assignees := make([]string, 0, len(f.Assignees))
		for _, a := range f.Assignees {
			name := a.MemberName
			if name == "" {
				name = a.MemberID
			}
			assignees = append(assignees, fmt.Sprintf("%s (%d)", name, a.WeeksAllocated))
		}
		rows = append(rows, []string{
			string(f.Role),
			fmt.Sprintf("%d/%d", f.Assigned, f.Required),
			fmt.Sprintf("%s %3d%%", bar(f.Percentage), f.Percentage),
			strings.Join(assignees, ", "),
		})
	}
	return p.write(
		p.title("%s", ini.Name),
		p.table([]string{"Role", "Weeks", "Progress", "Assignees"}, rows, func(row, col int) lipgloss.Style {
			if col != 2 {
				return p.theme.Cell
			}
			if fs[row].Percentage >= 100 {
				return p.theme.Good
			}
			return p.theme.Warn
		}))
}

// Warnings renders everything that needs attention on an initiative.
func (p *Printer) Warnings(ini v1.Initiative, w core.InitiativeWarnings) error {
	blocks := []string{p.title("%s", ini.Name)}
	if !w.HasWarnings {
		return p.write(append(blocks, p.theme.Good.UnsetPadding().Render("No warnings."))...)
	}
	if len(w.OverCapacityMembers) > 0 {
		blocks = append(blocks, p.theme.Bad.UnsetPadding().Render("Over capacity: "+strings.Join(w.OverCapacityMembers, ", ")))
	}
	if len(w.UnfilledRoles) > 0 {
		rows := make([][]string, 0, len(w.UnfilledRoles))
		for _, u := range w.UnfilledRoles {
			rows = append(rows, []string{string(u.Role), itoa(u.Assigned), itoa(u.Required)})
		}
		blocks = append(blocks, "Unfilled roles", p.table([]string{"Role", "Assigned", "Required"}, rows, nil))
	}
	if len(w.WeekConflicts) > 0 {
		rows := [][]string{}
		for _, mc := range w.WeekConflicts {
			for _, c := range mc.Conflicts {
				rows = append(rows, []string{mc.MemberName, c.InitiativeName, weeksList(c.Weeks)})
			}
		}
		blocks = append(blocks, "Week conflicts", p.table([]string{"Member", "Also on", "Weeks"}, rows, nil))
	}
	return p.write(blocks...)
}

// Candidates renders members able to take on role, most room first.
func (p *Printer) Candidates(role v1.Role, cs []core.Candidate) error {
	if len(cs) == 0 {
		return p.write(p.faint(fmt.Sprintf("No members can perform %s.", role)))
	}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.Member.Name, itoa(c.CurrentAllocation), itoa(c.RemainingCapacity)})
	}
	return p.write(
		p.title("Available for %s", role),
		p.table([]string{"Member", "Allocated", "Remaining"}, rows, func(row, col int) lipgloss.Style {
			if col == 2 && cs[row].RemainingCapacity <= 0 {
				return p.theme.Bad
			}
			return p.theme.Cell
		}))
}

// Week renders who works on what during one week. names maps member ids to
// display names; unknown ids are shown as-is.
func (p *Printer) Week(quarterID string, week int, was []core.WeekAssignment, names map[string]string) error {
	if len(was) == 0 {
		return p.write(p.faint(fmt.Sprintf("Nothing scheduled in week %d of %s.", week, quarterID)))
	}
	rows := make([][]string, 0, len(was))
	for _, wa := range was {
		name, ok := names[wa.Assignment.MemberID]
		if !ok {
			name = wa.Assignment.MemberID
		}
		a := wa.Assignment
		rows = append(rows, []string{wa.InitiativeName, itoa(wa.Index), name, string(a.Role),
			fmt.Sprintf("%d-%d", a.StartWeek, a.EndWeek())})
	}
	return p.write(
		p.title("Week %d of %s", week, quarterID),
		p.table([]string{"Initiative", "#", "Member", "Role", "Weeks"}, rows, nil))
}

// Members renders the roster.
func (p *Printer) Members(ms []v1.Member) error {
	if len(ms) == 0 {
		return p.write(p.faint("No members."))
	}
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{m.ID, m.Name, rolesList(m.Roles), itoa(m.Availability), itoa(len(m.AssignedInitiatives))})
	}
	return p.write(p.table([]string{"ID", "Name", "Roles", "Availability", "Initiatives"}, rows, nil))
}

// Initiatives renders initiatives with their requirement and staffing totals.
func (p *Printer) Initiatives(is []v1.Initiative) error {
	if len(is) == 0 {
		return p.write(p.faint("No initiatives."))
	}
	rows := make([][]string, 0, len(is))
	for _, ini := range is {
		reqs := make([]string, len(ini.RoleRequirements))
		for i, r := range ini.RoleRequirements {
			reqs[i] = fmt.Sprintf("%s %d", r.Role, r.Effort)
		}
		rows = append(rows, []string{ini.ID, ini.Name, ini.Quarter, strings.Join(reqs, ", "),
			itoa(len(ini.Assignments)), ini.CarriesOverTo})
	}
	return p.write(p.table([]string{"ID", "Name", "Quarter", "Requirements", "Assignments", "Carries to"}, rows, nil))
}

// Quarters renders the configured quarters, marking current.
func (p *Printer) Quarters(qs []v1.Quarter, current string) error {
	rows := make([][]string, 0, len(qs))
	for _, q := range qs {
		mark := ""
		if q.ID == current {
			mark = "*"
		}
		rows = append(rows, []string{mark, q.ID, q.Label, itoa(q.TotalWeeks),
			q.StartDate.Format("2006-01-02"), q.EndDate.Format("2006-01-02")})
	}
	return p.write(p.table([]string{"", "ID", "Label", "Weeks", "Start", "End"}, rows, nil))
}

// Roles renders the roles registry. Default roles are marked.
func (p *Printer) Roles(roles []v1.Role) error {
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		kind := "custom"
		if v1.IsDefaultRole(r) {
			kind = "default"
		}
		rows = append(rows, []string{string(r), kind})
	}
	return p.write(p.table([]string{"Role", "Kind"}, rows, func(row, col int) lipgloss.Style {
		if col == 1 && v1.IsDefaultRole(roles[row]) {
			return p.theme.Faint.Padding(0, 1)
		}
		return p.theme.Cell
	}))
}

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/planwing/internal/task"
)

// Meta is the provenance line shown under generated output.
type Meta struct {
	Provider string
	Model    string
	Locale   string
	Degraded bool
}

// RenderMeta formats provider details and flags degraded results.
func RenderMeta(m Meta) string {
	line := StyleSubtle.Render(fmt.Sprintf("%s/%s · locale %s", m.Provider, m.Model, m.Locale))
	if m.Degraded {
		line += "  " + StyleWarning.Render("degraded")
	}
	return line
}

// RenderDrafts lays out generated tasks with their placeholder references.
// width is the available terminal width.
func RenderDrafts(tasks []task.GeneratedTask, width int) string {
	if len(tasks) == 0 {
		return StyleSubtle.Render("No tasks generated.") + "\n"
	}
	t := &Table{
		Headers:  []string{"Ref", "Priority", "Title", "Description"},
		MaxWidth: columnBudget(width, 4),
	}
	for i, d := range tasks {
		prio := string(d.Priority)
		if prio == "" {
			prio = "-"
		}
		t.Rows = append(t.Rows, []string{task.Placeholder(i + 1), prio, d.Title, d.Description})
	}
	return t.Render()
}

// RenderPreviewRelationships lists proposed links using task titles.
func RenderPreviewRelationships(rels []task.TaskRelationshipPreview, tasks []task.GeneratedTask) string {
	var sb strings.Builder
	sb.WriteString(StyleSectionTitle.Render("Relationships") + "\n")
	if len(rels) == 0 {
		sb.WriteString(StyleSubtle.Render("  none proposed") + "\n")
		return sb.String()
	}
	label := func(ref string) string {
		if n, ok := task.ParsePlaceholder(ref); ok && n <= len(tasks) {
			return ref + " " + StyleText.Render(tasks[n-1].Title)
		}
		return ref
	}
	for _, r := range rels {
		fmt.Fprintf(&sb, "  %s %s %s\n", label(r.SourceTask), StyleRelationship.Render(string(r.Type)), label(r.TargetTask))
	}
	return sb.String()
}

// RenderConfirmation summarizes persisted tasks, created links and rejections.
// When blocking links exist the tasks are also listed in execution order.
func RenderConfirmation(created []task.Task, links []task.ResolvedRelationship, rejected []task.RejectedRelationship, width int) string {
	var sb strings.Builder
	titles := make(map[string]string, len(created))

	t := &Table{
		Headers:  []string{"ID", "Priority", "Status", "Title"},
		MaxWidth: columnBudget(width, 4),
	}
	for _, c := range created {
		titles[c.ID] = c.Title
		t.Rows = append(t.Rows, []string{ShortID(c.ID), string(c.Priority), string(c.Status), c.Title})
	}
	sb.WriteString(StyleSectionTitle.Render("Created tasks") + "\n")
	sb.WriteString(t.Render())

	name := func(id string) string {
		if title, ok := titles[id]; ok {
			return title
		}
		return id
	}

	sb.WriteString("\n" + StyleSectionTitle.Render("Links") + "\n")
	total := len(links) + len(rejected)
	fmt.Fprintf(&sb, "  %s created, %s rejected, %d total\n",
		StyleSuccess.Render(strconv.Itoa(len(links))),
		StyleError.Render(strconv.Itoa(len(rejected))),
		total)
	for _, l := range links {
		fmt.Fprintf(&sb, "  %s %s %s %s\n", Icon("✓", StyleSuccess), name(l.SourceTaskID), StyleRelationship.Render(string(l.Type)), name(l.TargetTaskID))
	}
	for _, r := range rejected {
		fmt.Fprintf(&sb, "  %s %s %s %s %s\n", Icon("✗", StyleError), name(r.SourceTaskID), string(r.Type), name(r.TargetTaskID),
			StyleSubtle.Render(fmt.Sprintf("[%s] %s", r.ReasonCode, r.ReasonMessage)))
	}

	if order := executionOrder(links); len(order) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("Execution order") + "\n")
		for i, id := range order {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, name(id))
		}
	}
	return sb.String()
}

// executionOrder returns the IDs touched by blocking links, blockers first.
func executionOrder(links []task.ResolvedRelationship) []string {
	nodes := task.BlockingGraph(links)
	if len(nodes) == 0 {
		return nil
	}
	sorted, err := task.TopologicalSort(nodes)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(sorted))
	for _, n := range sorted {
		ids = append(ids, n.ID)
	}
	return ids
}

// columnBudget splits width evenly across columns, leaving room for gutters.
func columnBudget(width, columns int) int {
	if width <= 0 || columns <= 0 {
		return 0
	}
	return max(8, (width-2*columns)/columns)
}

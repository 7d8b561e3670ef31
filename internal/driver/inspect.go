package driver

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pixil98/go-colony/internal/display"
	"github.com/pixil98/go-colony/internal/game"
)

// Inspect renders the turn order and task table followed by the stockpile.
func (d *Driver) Inspect() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Time t%d, %d actors, %d tasks\n\n", d.now, d.queue.Len(), d.tasks.Count())

	var roster [][]string
	for i, id := range d.queue.Actors() {
		slot, _ := d.queue.SlotOf(id)
		side, _ := d.queue.SideOf(id)
		task := "-"
		if t, ok := d.tasks.TaskOf(id); ok {
			task = fmt.Sprintf("%s %s", t.ID, t.Kind)
		}
		roster = append(roster, []string{
			fmt.Sprint(i + 1),
			d.actorName(id),
			side.String(),
			slot.String(),
			task,
		})
	}
	b.WriteString(display.Table([]string{"#", "NAME", "SIDE", "SLOT", "TASK"}, roster, display.DefaultMaxColumn))

	var tasks [][]string
	for _, id := range d.tasks.IDs() {
		t, _ := d.tasks.GetTask(id)
		pos := "-"
		if p, ok := d.tasks.PositionOf(id); ok {
			pos = p.String()
		}
		owner := "-"
		if o, ok := d.tasks.OwnerOf(id); ok {
			owner = d.actorName(o)
		}

		var flags []string
		if d.tasks.IsPriority(id) {
			flags = append(flags, "priority")
		}
		if !d.tasks.IsAssignable(id) {
			flags = append(flags, "unreachable")
		}
		if d.tasks.IsDelayed(id, d.now) {
			flags = append(flags, "delayed")
		}
		if t.Done {
			flags = append(flags, "done")
		}

		tasks = append(tasks, []string{
			id.String(),
			t.Kind.String(),
			t.Activity.String(),
			pos,
			fmt.Sprint(t.Work),
			owner,
			strings.Join(flags, ","),
		})
	}
	b.WriteString("\n")
	b.WriteString(display.Table([]string{"ID", "KIND", "ACTIVITY", "POS", "WORK", "OWNER", "FLAGS"}, tasks, display.DefaultMaxColumn))

	stock := d.world.Stockpile()
	if len(stock) > 0 {
		var parts []string
		for _, k := range slices.Sorted(maps.Keys(stock)) {
			parts = append(parts, fmt.Sprintf("%s %d", k, stock[k]))
		}
		b.WriteString("\n")
		b.WriteString(display.List("Stockpile", parts, display.DefaultWidth))
		b.WriteString("\n")
	}

	return b.String()
}

func (d *Driver) actorName(id game.ActorID) string {
	if a := d.world.GetActor(id); a != nil && a.Name != "" {
		return a.Name
	}
	return id.String()
}

package taskmap

import (
	"slices"

	"github.com/pixil98/go-colony/internal/activity"
)

// bucket holds the tasks of one activity. Priority tasks are listed in both
// all and priority.
type bucket struct {
	all      []TaskID
	priority []TaskID
}

func (b *bucket) add(id TaskID, prio bool) {
	b.all = append(b.all, id)
	if prio {
		b.priority = append(b.priority, id)
	}
}

func (b *bucket) remove(id TaskID) {
	b.all = deleteID(b.all, id)
	b.priority = deleteID(b.priority, id)
}

func (b *bucket) setPriority(id TaskID, on bool) {
	if on {
		if !slices.Contains(b.priority, id) {
			b.priority = append(b.priority, id)
		}
		return
	}
	b.priority = deleteID(b.priority, id)
}

func (b *bucket) empty() bool {
	return len(b.all) == 0
}

type index map[activity.Activity]*bucket

func (ix index) get(a activity.Activity) *bucket {
	b, ok := ix[a]
	if !ok {
		b = &bucket{}
		ix[a] = b
	}
	return b
}

// remove drops the task from its activity's bucket, deleting the bucket
// once it is empty.
func (ix index) remove(a activity.Activity, id TaskID) {
	b, ok := ix[a]
	if !ok {
		return
	}
	b.remove(id)
	if b.empty() {
		delete(ix, a)
	}
}

// move transfers a task and its priority entry from one index to another.
func (ix index) move(to index, a activity.Activity, id TaskID, prio bool) {
	ix.remove(a, id)
	to.get(a).add(id, prio)
}

func deleteID(ids []TaskID, id TaskID) []TaskID {
	return slices.DeleteFunc(ids, func(other TaskID) bool { return other == id })
}

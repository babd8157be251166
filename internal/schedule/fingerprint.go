package schedule

import (
	"encoding/binary"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a stable content hash of the snapshot, useful
// for cache keys and for detecting whether a previously computed
// Outcome is still valid for an unchanged input. Field order in the
// source slices does not affect the result; everything is sorted
// before hashing.
func (s Snapshot) Fingerprint() [32]byte {
	h, _ := blake2b.New256(nil)

	persons := append([]Person(nil), s.Persons...)
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })
	for _, p := range persons {
		writeString(h, string(p.ID))
		writeString(h, string(p.GroupID))
	}

	groups := append([]Group(nil), s.Groups...)
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	for _, g := range groups {
		writeString(h, string(g.ID))
	}

	templates := append([]ShiftTemplate(nil), s.Templates...)
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	for _, t := range templates {
		writeString(h, string(t.ID))
		writeInt(h, t.StartOfDaySeconds)
		writeInt(h, t.DurationSeconds)
		writeInt(h, t.RequiredCount)
		days := make([]int, 0, len(t.Weekdays))
		for w := range t.Weekdays {
			days = append(days, int(w))
		}
		sort.Ints(days)
		for _, d := range days {
			writeInt(h, d)
		}
	}

	links := append([]GroupShiftLink(nil), s.GroupShiftLinks...)
	sort.Slice(links, func(i, j int) bool {
		if links[i].Group != links[j].Group {
			return links[i].Group < links[j].Group
		}
		return links[i].Template < links[j].Template
	})
	for _, l := range links {
		writeString(h, string(l.Group))
		writeString(h, string(l.Template))
	}

	reqs := append([]TimeOffRequest(nil), s.Requests...)
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Person != reqs[j].Person {
			return reqs[i].Person < reqs[j].Person
		}
		if reqs[i].Start != reqs[j].Start {
			return reqs[i].Start < reqs[j].Start
		}
		return reqs[i].End < reqs[j].End
	})
	for _, r := range reqs {
		writeString(h, string(r.Person))
		writeInt(h, int(r.Start))
		writeInt(h, int(r.End))
	}

	cs := append([]PairwiseConstraint(nil), s.PairwiseConstraints...)
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].From != cs[j].From {
			return cs[i].From < cs[j].From
		}
		if cs[i].To != cs[j].To {
			return cs[i].To < cs[j].To
		}
		return cs[i].K < cs[j].K
	})
	for _, c := range cs {
		writeString(h, string(c.From))
		writeString(h, string(c.To))
		writeInt(h, c.K)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(s)))
	h.Write(length[:])
	h.Write([]byte(s))
}

func writeInt(h interface{ Write([]byte) (int, error) }, v int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(int64(v)))
	h.Write(b[:])
}

package app

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// describe prints the class tree, the unions, and the method table of every
// generic.
func (a *App) describe() error {
	var b strings.Builder
	s := a.session

	b.WriteString("Classes:\n")
	for _, name := range s.Classes.Classes() {
		def, _ := s.Classes.Class(name)
		if def.Parent != "" {
			continue
		}
		a.describeClass(&b, name, 1)
	}

	unions := s.Classes.Unions()
	if len(unions) > 0 {
		b.WriteString("Unions:\n")
		for _, name := range unions {
			u, _ := s.Classes.Union(name)
			fmt.Fprintf(&b, "  %s = %s\n", name, strings.Join(u.Members, " | "))
		}
	}

	generics := s.Generics.Generics()
	if len(generics) > 0 {
		b.WriteString("Generics:\n")
		for _, name := range generics {
			g, _ := s.Generics.Generic(name)
			params := g.Params
			if g.OpenTail {
				params = append(params, "...")
			}
			fmt.Fprintf(&b, "  %s(%s)\n", name, strings.Join(params, ", "))
			keys, _ := s.Generics.Methods(name)
			for _, key := range keys {
				fmt.Fprintf(&b, "    %s\n", key)
			}
		}
	}

	_, err := io.WriteString(a.outW, b.String())
	return err
}

func (a *App) describeClass(b *strings.Builder, name string, depth int) {
	def, _ := a.session.Classes.Class(name)
	indent := strings.Repeat("  ", depth)

	fmt.Fprintf(b, "%s%s\n", indent, name)
	slots := make([]string, 0, len(def.Slots))
	for slot := range def.Slots {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		fmt.Fprintf(b, "%s  @%s: %s\n", indent, slot, def.Slots[slot])
	}

	for _, child := range a.session.Classes.Subclasses(name) {
		a.describeClass(b, child, depth+1)
	}
}

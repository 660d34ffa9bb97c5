package seed

import (
	"fmt"
	"slices"
	"strings"

	"quiz-seed/internal/domain"
)

// Plan validates the dependency graph and returns the batches in run order.
// Among batches whose dependencies are satisfied, the one declared first runs
// first. When groups are given only the batches tagged with one of them, plus
// everything they transitively depend on, are returned.
func Plan(batches []Batch, groups []string) ([]Batch, error) {
	index := make(map[string]int, len(batches))
	for i, b := range batches {
		if strings.TrimSpace(b.Name) == "" {
			return nil, domain.NewConfigurationError(fmt.Sprintf("batch #%d has no name", i+1))
		}
		if _, dup := index[b.Name]; dup {
			return nil, domain.NewConfigurationError(fmt.Sprintf("batch %q is declared twice", b.Name))
		}
		index[b.Name] = i
	}
	for _, b := range batches {
		for _, dep := range b.DependsOn {
			if _, ok := index[dep]; !ok {
				return nil, domain.NewConfigurationError(fmt.Sprintf("batch %q depends on unknown batch %q", b.Name, dep))
			}
		}
	}

	order, err := topologicalOrder(batches, index)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return order, nil
	}

	selected, err := selectGroups(batches, index, groups)
	if err != nil {
		return nil, err
	}
	planned := make([]Batch, 0, len(selected))
	for _, b := range order {
		if selected[index[b.Name]] {
			planned = append(planned, b)
		}
	}
	return planned, nil
}

func topologicalOrder(batches []Batch, index map[string]int) ([]Batch, error) {
	done := make([]bool, len(batches))
	order := make([]Batch, 0, len(batches))
	for len(order) < len(batches) {
		next := -1
		for i, b := range batches {
			if done[i] {
				continue
			}
			ready := true
			for _, dep := range b.DependsOn {
				if !done[index[dep]] {
					ready = false
					break
				}
			}
			if ready {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, b := range batches {
				if !done[i] {
					stuck = append(stuck, b.Name)
				}
			}
			return nil, domain.NewConfigurationError(fmt.Sprintf("dependency cycle among batches: %s", strings.Join(stuck, ", ")))
		}
		done[next] = true
		order = append(order, batches[next])
	}
	return order, nil
}

func selectGroups(batches []Batch, index map[string]int, groups []string) ([]bool, error) {
	selected := make([]bool, len(batches))
	var visit func(i int)
	visit = func(i int) {
		if selected[i] {
			return
		}
		selected[i] = true
		for _, dep := range batches[i].DependsOn {
			visit(index[dep])
		}
	}
	for _, g := range groups {
		found := false
		for i, b := range batches {
			if slices.Contains(b.Groups, g) {
				found = true
				visit(i)
			}
		}
		if !found {
			return nil, domain.NewConfigurationError(fmt.Sprintf("no batch is tagged with group %q", g))
		}
	}
	return selected, nil
}

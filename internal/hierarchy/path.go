package hierarchy

// PathTo returns the first root-to-target path found by a depth-first search
// from each root in root order. It returns nil when target is not in m.
// Alternate paths are never considered. Validate rejects maps where a
// component has two parents, so for loaded maps the path is unique and the
// first-found rule only matters for maps built without validation.
func PathTo(m *AdjacencyMap, target ComponentID) []ComponentID {
	if target == "" || !m.Contains(target) {
		return nil
	}
	visited := make(map[ComponentID]bool)
	for _, r := range m.Roots() {
		if path := search(m, r, target, nil, visited); path != nil {
			return path
		}
	}
	return nil
}

func search(m *AdjacencyMap, current, target ComponentID, path []ComponentID, visited map[ComponentID]bool) []ComponentID {
	if visited[current] {
		return nil
	}
	visited[current] = true

	path = append(path, current)
	if current == target {
		out := make([]ComponentID, len(path))
		copy(out, path)
		return out
	}
	kids, _ := m.Children(current)
	for _, c := range kids {
		if found := search(m, c, target, path, visited); found != nil {
			return found
		}
	}
	return nil
}

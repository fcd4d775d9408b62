package task

import (
	"errors"
	"fmt"
)

// Node is a vertex of a dependency graph. Dependencies lists the IDs this node
// waits on (for a BLOCKS link A->B, B depends on A).
type Node struct {
	ID           string
	Dependencies []string
}

// VerifyDAG checks that the given nodes form a Directed Acyclic Graph.
// Dependencies on IDs outside the set are treated as leaves.
func VerifyDAG(nodes []Node) error {
	nodeMap := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return errors.New("node ID cannot be empty")
		}
		nodeMap[n.ID] = n
	}

	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	var checkCycle func(id string) error
	checkCycle = func(id string) error {
		visited[id] = true
		recursionStack[id] = true

		n, exists := nodeMap[id]
		if !exists {
			recursionStack[id] = false
			return nil
		}

		for _, depID := range n.Dependencies {
			if !visited[depID] {
				if err := checkCycle(depID); err != nil {
					return err
				}
			} else if recursionStack[depID] {
				return fmt.Errorf("cycle detected involving %s -> %s", id, depID)
			}
		}

		recursionStack[id] = false
		return nil
	}

	for _, n := range nodes {
		if !visited[n.ID] {
			if err := checkCycle(n.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// BlockingGraph builds dependency nodes from BLOCKS / IS_BLOCKED_BY edges.
// Other relationship types carry no ordering and are ignored.
func BlockingGraph(links []ResolvedRelationship) []Node {
	deps := make(map[string][]string)
	order := make([]string, 0, len(links)*2)
	add := func(id string) {
		if _, ok := deps[id]; !ok {
			deps[id] = nil
			order = append(order, id)
		}
	}
	for _, l := range links {
		var blocker, blocked string
		switch l.Type {
		case RelBlocks:
			blocker, blocked = l.SourceTaskID, l.TargetTaskID
		case RelIsBlockedBy:
			blocker, blocked = l.TargetTaskID, l.SourceTaskID
		default:
			continue
		}
		add(blocker)
		add(blocked)
		deps[blocked] = append(deps[blocked], blocker)
	}

	nodes := make([]Node, 0, len(order))
	for _, id := range order {
		nodes = append(nodes, Node{ID: id, Dependencies: deps[id]})
	}
	return nodes
}

// TopologicalSort returns nodes in dependency order (dependencies first).
// Returns error if cycle detected.
func TopologicalSort(nodes []Node) ([]Node, error) {
	if err := VerifyDAG(nodes); err != nil {
		return nil, err
	}

	nodeMap := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}

	var sorted []Node
	visited := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		n, exists := nodeMap[id]
		if !exists {
			return
		}
		for _, depID := range n.Dependencies {
			visit(depID)
		}
		sorted = append(sorted, n)
	}

	for _, n := range nodes {
		visit(n.ID)
	}

	return sorted, nil
}

package seeder

import "fmt"

// DependencyGraph orders steps so every table runs after the tables it reads
// from. Traversal follows registration order, so a correctly registered
// pipeline comes back unchanged.
type DependencyGraph struct {
	steps      map[string]*Step
	registered []string
	order      []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		steps: make(map[string]*Step),
	}
}

func (g *DependencyGraph) AddStep(step *Step) error {
	if _, exists := g.steps[step.Table]; exists {
		return fmt.Errorf("step %s registered twice", step.Table)
	}
	g.steps[step.Table] = step
	g.registered = append(g.registered, step.Table)
	return nil
}

func (g *DependencyGraph) BuildOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(table string) error {
		if temp[table] {
			return fmt.Errorf("circular dependency detected involving table: %s", table)
		}
		if visited[table] {
			return nil
		}

		temp[table] = true
		for _, dep := range g.steps[table].DependsOn {
			if _, ok := g.steps[dep]; !ok {
				return fmt.Errorf("table %s depends on unregistered table %s", table, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		temp[table] = false
		visited[table] = true
		order = append(order, table)
		return nil
	}

	for _, table := range g.registered {
		if !visited[table] {
			if err := visit(table); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) Order() []string {
	return g.order
}

func (g *DependencyGraph) Step(table string) *Step {
	return g.steps[table]
}

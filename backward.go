package autograd

// Backward computes the gradients for the graph rooted at v.
func (v *Value) Backward() {
	Backward(v)
}

// Backward seeds output.grad with 1 and propagates gradients to every Value
// reachable from output.
//
// Nodes are stepped in reverse topological order, so a node's rule runs only
// after every consumer of that node has added its contribution. Gradients are
// accumulated, not overwritten: call ZeroGrad on parameters between passes.
func Backward(output *Value) {
	topo := TopologicalOrder(output)

	output.grad = 1.0
	// Go in reverse order of topological sort
	for i := len(topo) - 1; i >= 0; i-- {
		topo[i].step()
	}
}

// TopologicalOrder returns every Value reachable from output, dependencies
// before the values that consume them. output is always last.
func TopologicalOrder(output *Value) []*Value {
	type frame struct {
		node *Value
		next int
	}

	var topo []*Value
	visited := map[*Value]struct{}{output: {}}
	stack := []frame{{node: output}}

	// Iterative post-order DFS; deep chains (e.g. long Sum folds) would
	// otherwise exhaust the goroutine stack.
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.prev) {
			child := top.node.prev[top.next]
			top.next++
			if _, seen := visited[child]; !seen {
				visited[child] = struct{}{}
				stack = append(stack, frame{node: child})
			}
			continue
		}
		topo = append(topo, top.node)
		stack = stack[:len(stack)-1]
	}
	return topo
}

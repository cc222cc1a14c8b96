package main

import (
	"github.com/spf13/cobra"

	autograd "github.com/tektwister/ai_engineering/micrograd"
)

func newBackpropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backprop",
		Short: "Back-propagate through a single two-input neuron and print every node",
		Run:   runBackprop,
	}
}

// twoInputNeuron builds o = tanh(x1*w1 + x2*w2 + b), returning o and every
// labeled node in forward order.
func twoInputNeuron() (*autograd.Value, []*autograd.Value) {
	x1 := autograd.NewValue(2.0).WithLabel("x1")
	x2 := autograd.NewValue(0.0).WithLabel("x2")

	w1 := autograd.NewValue(-3.0).WithLabel("w1")
	w2 := autograd.NewValue(1.0).WithLabel("w2")

	b := autograd.NewValue(6.8813735870195432).WithLabel("b")

	x1w1 := x1.Mul(w1).WithLabel("x1w1")
	x2w2 := x2.Mul(w2).WithLabel("x2w2")

	x1w1x2w2 := x1w1.Add(x2w2).WithLabel("x1w1x2w2")

	n := x1w1x2w2.Add(b).WithLabel("n")
	o := n.Tanh().WithLabel("o")

	return o, []*autograd.Value{x1, x2, w1, w2, b, x1w1, x2w2, x1w1x2w2, n, o}
}

func runBackprop(cmd *cobra.Command, args []string) {
	o, nodes := twoInputNeuron()
	o.Backward()

	lines := []string{row(
		styles.Label.Render("node"),
		styles.Label.Render("op"),
		styles.Label.Render("data"),
		styles.Label.Render("grad"),
	)}
	for _, v := range nodes {
		op := v.Op().String()
		if op == "" {
			op = styles.Muted.Render("leaf")
		}
		lines = append(lines, row(v.Label(), op, formatFloat(v.Data()), formatFloat(v.Grad())))
	}
	printBox(cmd.OutOrStdout(), "o = tanh(x1*w1 + x2*w2 + b)", lines)
}

package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Each node
// exclusively owns its children.
type node struct {
	kind nodeKind

	// name is the variable name of a nodeName or the literal text of a
	// nodeNum.
	name string
	// val is the value of a nodeNum.
	val float64

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // val
	nodeName // lookup(name)

	nodeNeg  // -left
	nodePlus // left
	nodeAbs  // |left|
	nodeFact // left!

	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right

	nodeSin
	nodeCos
	nodeTan
	nodeAsin
	nodeAcos
	nodeAtan
	nodeExp
	nodeLn
	nodeLog10
	nodeLogBase // log of left in base right
	nodeSqrt
)

var nodeKindNames = [...]string{
	nodeNone:    "None",
	nodeNum:     "Num",
	nodeName:    "Name",
	nodeNeg:     "Neg",
	nodePlus:    "Plus",
	nodeAbs:     "Abs",
	nodeFact:    "Fact",
	nodeAdd:     "Add",
	nodeSub:     "Sub",
	nodeMul:     "Mul",
	nodeDiv:     "Div",
	nodePow:     "Pow",
	nodeSin:     "Sin",
	nodeCos:     "Cos",
	nodeTan:     "Tan",
	nodeAsin:    "Asin",
	nodeAcos:    "Acos",
	nodeAtan:    "Atan",
	nodeExp:     "Exp",
	nodeLn:      "Ln",
	nodeLog10:   "Log10",
	nodeLogBase: "LogBase",
	nodeSqrt:    "Sqrt",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// arity returns the number of children a node of kind k has.
func (k nodeKind) arity() int {
	switch k {
	case nodeNum, nodeName:
		return 0
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeLogBase:
		return 2
	case nodeNone:
		panic("calc: arity of invalid node")
	default:
		return 1
	}
}

// clone creates a deep copy of the tree rooted at n.
func (n *node) clone() *node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case nodeNum, nodeName:
		return &node{kind: n.kind, name: n.name, val: n.val}
	case nodeNeg, nodePlus, nodeAbs, nodeFact,
		nodeSin, nodeCos, nodeTan, nodeAsin, nodeAcos, nodeAtan,
		nodeExp, nodeLn, nodeLog10, nodeSqrt:
		return &node{kind: n.kind, left: n.left.clone()}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeLogBase:
		return &node{kind: n.kind, left: n.left.clone(), right: n.right.clone()}
	default:
		panic("calc: clone of invalid node kind " + n.kind.String())
	}
}

// names adds the variable names used in the tree rooted at n to m.
func (n *node) names(m map[string]bool) {
	if n == nil {
		return
	}
	if n.kind == nodeName {
		m[n.name] = true
		return
	}
	n.left.names(m)
	n.right.names(m)
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

// fmt writes n with alternating round and square brackets around each term.
func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
		return
	case nodeAbs:
		b.WriteByte('|')
		n.left.fmt(b, !square)
		b.WriteByte('|')
		return
	}
	if fn := funcName(n.kind); fn != "" {
		b.WriteString(fn)
		b.WriteByte(l)
		n.left.fmt(b, !square)
		if n.right != nil {
			b.WriteString(", ")
			n.right.fmt(b, !square)
		}
		b.WriteByte(r)
		return
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodePlus:
		b.WriteByte('+')
		n.left.fmt(b, !square)
	case nodeFact:
		n.left.fmt(b, !square)
		b.WriteByte('!')
	case nodeAdd:
		n.binfmt(b, " + ", square)
	case nodeSub:
		n.binfmt(b, " - ", square)
	case nodeMul:
		n.binfmt(b, " * ", square)
	case nodeDiv:
		n.binfmt(b, " / ", square)
	case nodePow:
		n.binfmt(b, " ^ ", square)
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) binfmt(b *strings.Builder, op string, square bool) {
	n.left.fmt(b, !square)
	b.WriteString(op)
	n.right.fmt(b, !square)
}

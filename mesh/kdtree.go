package mesh

import "github.com/blackjack3d/blackjack/vmath"

// kdNode is one node of a simple, static 3D k-d tree used to accelerate
// nearest-position lookups for vertex_attribute_transfer (spec §4.B.3).
type kdNode struct {
	point       vmath.Vec3
	payload     int // index into the original points/handles slices
	axis        int
	left, right *kdNode
}

// kdTree is a read-only spatial index built once per nearest-neighbor
// query session.
type kdTree struct {
	root *kdNode
}

func buildKDTree(points []vmath.Vec3) *kdTree {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	return &kdTree{root: buildKDNode(points, idx, 0)}
}

func buildKDNode(points []vmath.Vec3, idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % 3
	sortByAxis(points, idx, axis)
	mid := len(idx) / 2
	node := &kdNode{point: points[idx[mid]], payload: idx[mid], axis: axis}
	node.left = buildKDNode(points, idx[:mid], depth+1)
	node.right = buildKDNode(points, idx[mid+1:], depth+1)
	return node
}

func axisValue(p vmath.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// sortByAxis insertion-sorts idx by the given position axis. The trees
// built here are small enough (per-call vertex counts, not whole-scene) that
// an O(n^2) sort is not a practical bottleneck, and it keeps this file free
// of an extra sort.Slice closure allocation per node.
func sortByAxis(points []vmath.Vec3, idx []int, axis int) {
	for i := 1; i < len(idx); i++ {
		j := i
		for j > 0 && axisValue(points[idx[j-1]], axis) > axisValue(points[idx[j]], axis) {
			idx[j-1], idx[j] = idx[j], idx[j-1]
			j--
		}
	}
}

// Nearest returns the payload index of the point in the tree closest to q.
func (t *kdTree) Nearest(q vmath.Vec3) (int, bool) {
	if t.root == nil {
		return 0, false
	}
	best := t.root
	bestDist := q.DistanceSquared(t.root.point)
	t.search(t.root, q, &best, &bestDist)
	return best.payload, true
}

func (t *kdTree) search(n *kdNode, q vmath.Vec3, best **kdNode, bestDist *float32) {
	if n == nil {
		return
	}
	d := q.DistanceSquared(n.point)
	if d < *bestDist {
		*bestDist = d
		*best = n
	}
	diff := axisValue(q, n.axis) - axisValue(n.point, n.axis)
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}
	t.search(near, q, best, bestDist)
	if diff*diff < *bestDist {
		t.search(far, q, best, bestDist)
	}
}

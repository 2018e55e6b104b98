package scene

import "github.com/Faultbox/spriteforge/internal/engine/geom"

// WorldBounds computes the world-space bounding box of the subtree
// rooted at n. Returns an empty box for a nil node or a subtree with
// no mesh vertices.
func WorldBounds(n *Node) geom.Box3 {
	box := geom.EmptyBox()
	if n == nil {
		return box
	}
	return accumulateBounds(n, geom.Identity(), box)
}

func accumulateBounds(n *Node, parent geom.Mat4, box geom.Box3) geom.Box3 {
	world := parent.Mul(n.LocalMatrix())

	if n.Mesh != nil {
		pos := n.Mesh.Positions
		for i := 0; i+2 < len(pos); i += 3 {
			p := world.TransformPoint(geom.Vec3{X: pos[i], Y: pos[i+1], Z: pos[i+2]})
			box = box.ExpandByPoint(p)
		}
	}

	for _, child := range n.Children {
		box = accumulateBounds(child, world, box)
	}
	return box
}

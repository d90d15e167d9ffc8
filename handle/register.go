package handle

import "github.com/blackjack3d/blackjack/channel"

func init() {
	channel.RegisterElementKind[Vertex](channel.KindVertex)
	channel.RegisterElementKind[Face](channel.KindFace)
	channel.RegisterElementKind[HalfEdge](channel.KindHalfEdge)
}

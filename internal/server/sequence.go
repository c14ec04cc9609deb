package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/karatledger/internal/sequence"
)

type nextSequenceResponse struct {
	Kind string `json:"kind"`
	Next string `json:"next"`
}

// NextSequence previews the number the next document of a kind will get
// without consuming it.
func (s *Server) NextSequence(c *gin.Context) {
	kind, ok := sequence.Lookup(c.Param("kind"))
	if !ok {
		AbortWithError(c, sequence.ErrUnknownKind)
		return
	}

	next, err := s.sequences.Peek(c.Request.Context(), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, nextSequenceResponse{Kind: kind.Name, Next: next})
}

package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/chimerakang/authgate"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// characterRequest is the validated body shape for character creation.
type characterRequest struct {
	Name     string `json:"name" binding:"required,min=6"`
	Lastname string `json:"lastname" binding:"required,min=6"`
}

// characterPatch is the unvalidated body shape for updates; the update
// replaces the stored fields wholesale.
type characterPatch struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

func (s *Server) handleListCharacters(c *gin.Context) {
	c.JSON(http.StatusOK, s.gw.Characters().List(c.Request.Context()))
}

func (s *Server) handleGetCharacter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character not found"})
		return
	}

	ch, found := s.gw.Characters().Get(c.Request.Context(), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character not found"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (s *Server) handleCreateCharacter(c *gin.Context) {
	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validationIssues(err)})
		return
	}

	added := s.gw.Characters().Add(c.Request.Context(), authgate.Character{
		Name:     req.Name,
		Lastname: req.Lastname,
	})
	c.JSON(http.StatusCreated, added)
}

func (s *Server) handleUpdateCharacter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character Not Found!"})
		return
	}

	var patch characterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	updated, found := s.gw.Characters().Update(c.Request.Context(), id, authgate.Character{
		Name:     patch.Name,
		Lastname: patch.Lastname,
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character Not Found!"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteCharacter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character Not Found!"})
		return
	}

	if !s.gw.Characters().Delete(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character Not Found!"})
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the trailing id segment. A non-integer id is treated as a
// not-found id, not a protocol error.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// validationIssues turns binding failures into a field-level issue list for
// the 400 body. Non-validation failures (unparseable JSON) collapse to a
// plain message.
func validationIssues(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Bad Request"
	}

	issues := make([]gin.H, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, gin.H{
			"field": strings.ToLower(fe.Field()),
			"rule":  fe.Tag(),
			"param": fe.Param(),
		})
	}
	return issues
}

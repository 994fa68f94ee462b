package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/graph"
)

// CreateNodeRequest represents a node creation request
type CreateNodeRequest struct {
	Block    graph.Block    `json:"block" binding:"required"`
	Position graph.Position `json:"position"`
}

// PatchNodeRequest represents a node patch request. Nil fields are left
// unchanged.
type PatchNodeRequest struct {
	Position *graph.Position `json:"position"`
	Block    *graph.Block    `json:"block"`
	Selected *bool           `json:"selected"`
}

// CreateEdgeRequest represents an edge creation request
type CreateEdgeRequest struct {
	Source       string `json:"source" binding:"required"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target" binding:"required"`
}

// WorkflowResponse represents the local graph snapshot
type WorkflowResponse struct {
	WorkflowID string        `json:"workflowId,omitempty"`
	Nodes      []*graph.Node `json:"nodes"`
	Edges      []*graph.Edge `json:"edges"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"checks": gin.H{
			"workflow_bound": s.bridge.Bound(),
		},
	})
}

// handleGetWorkflow returns the current graph snapshot, statuses included
func (s *Server) handleGetWorkflow(c *gin.Context) {
	nodes, edges := s.store.Snapshot()

	c.JSON(http.StatusOK, WorkflowResponse{
		WorkflowID: s.bridge.WorkflowID(),
		Nodes:      nodes,
		Edges:      edges,
	})
}

// handleGetSelection returns the derived selection
func (s *Server) handleGetSelection(c *gin.Context) {
	node, ok := s.store.Selected()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"selected": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": node})
}

// handleCreateNode handles node creation
func (s *Server) handleCreateNode(c *gin.Context) {
	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	node := s.store.CreateNode(req.Block, req.Position)
	c.JSON(http.StatusCreated, node)
}

// handlePatchNode handles structural node edits keyed by ref
func (s *Server) handlePatchNode(c *gin.Context) {
	ref := c.Param("ref")

	var req PatchNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	if req.Selected != nil {
		if *req.Selected {
			s.store.SelectNode(ref)
		} else {
			s.store.SelectNode("")
		}
	}

	s.store.UpdateNode(ref, func(n graph.Node) graph.Node {
		if req.Position != nil {
			n.Position = *req.Position
		}
		if req.Block != nil {
			n.Block = *req.Block
		}
		return n
	})

	c.Status(http.StatusNoContent)
}

// handleDeleteNode removes a node and its incident edges
func (s *Server) handleDeleteNode(c *gin.Context) {
	s.store.DeleteNode(c.Param("ref"))
	c.Status(http.StatusNoContent)
}

// handleCreateEdge handles edge creation between existing nodes
func (s *Server) handleCreateEdge(c *gin.Context) {
	var req CreateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	edge, err := s.store.CreateEdge(req.Source, req.SourceHandle, req.Target)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_EDGE",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, edge)
}

// handleSave pushes the current snapshot to the persistence API
func (s *Server) handleSave(c *gin.Context) {
	if err := s.bridge.Save(c.Request.Context()); err != nil {
		s.logger.Error("failed to save workflow", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: ErrorDetail{
				Code:    "SAVE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// handleExecute triggers a remote workflow run
func (s *Server) handleExecute(c *gin.Context) {
	if err := s.bridge.Execute(c.Request.Context()); err != nil {
		s.logger.Error("failed to trigger execution", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: ErrorDetail{
				Code:    "EXECUTE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "executing"})
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/karajelley/lab-toy-factory/internal/toy"
	"github.com/karajelley/lab-toy-factory/internal/toy/service"
	"github.com/karajelley/lab-toy-factory/pkg/logger"
)

// RegisterToyRoutes mounts the toy API on r.
func RegisterToyRoutes(r gin.IRouter, svc service.Service) {
	h := &toyHandler{svc: svc}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "All good here!")
	})

	r.POST("/toys", h.create)
	r.GET("/toys", h.list)
	r.GET("/toys/search", h.search)
	r.PUT("/toys/:toyId", h.update)
}

type toyHandler struct {
	svc service.Service
}

func (h *toyHandler) create(c *gin.Context) {
	var req toy.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err, "Error creating toy")
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Error creating toy")
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *toyHandler) list(c *gin.Context) {
	toys, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err, "Error fetching toys")
		return
	}
	c.JSON(http.StatusOK, toys)
}

// search without a name behaves like list. A non-blank name is matched as sent.
func (h *toyHandler) search(c *gin.Context) {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		h.list(c)
		return
	}
	toys, err := h.svc.Search(c.Request.Context(), name)
	if err != nil {
		fail(c, err, "Error searching toys")
		return
	}
	c.JSON(http.StatusOK, toys)
}

func (h *toyHandler) update(c *gin.Context) {
	id := c.Param("toyId")
	var req toy.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err, "Error updating toy")
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err, "Error updating toy")
		return
	}
	c.JSON(http.StatusOK, t)
}

// fail logs the cause and answers 500 with a static message. Store and
// schema failures are not distinguished on the wire.
func fail(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	logger.Errorf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// badBody answers 400 only when the body is not JSON at all. A parseable body
// with mistyped fields fails like any other write, with msg and 500.
func badBody(c *gin.Context, err error, msg string) {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		_ = c.Error(err)
		logger.Warnf("%s %s: malformed body: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON body"})
		return
	}
	fail(c, err, msg)
}

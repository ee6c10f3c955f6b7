package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubsuite/matchsheet/internal/mapping"
	"github.com/clubsuite/matchsheet/internal/sheet"
)

func (h *Handler) uploadTemplate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	if file.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
	if err != nil {
		h.fail(c, err)
		return
	}

	var categoryIDs []int64
	if raw := c.PostForm("ageCategoryIds"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &categoryIDs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ageCategoryIds must be a JSON array of ids"})
			return
		}
	}

	res, err := h.service.UploadTemplate(c.Request.Context(), sheet.UploadTemplateRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		CategoryIDs: categoryIDs,
		Filename:    file.Filename,
		Data:        data,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) listTemplates(c *gin.Context) {
	templates, err := h.templates.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *Handler) getTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tpl, err := h.templates.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) analyzeTemplate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	force := c.Query("force") == "true"
	res, err := h.service.AnalyzeTemplate(c.Request.Context(), sheet.AnalyzeTemplateRequest{
		TemplateID: id,
		Force:      force,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) getMapping(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entries, found, err := h.service.GetMapping(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": entries, "committed": found})
}

func (h *Handler) commitMapping(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body struct {
		Entries []mapping.FieldMapping `json:"mappings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CommitMapping(c.Request.Context(), sheet.CommitMappingRequest{
		TemplateID: id,
		Entries:    body.Entries,
	}); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) generateSheet(c *gin.Context) {
	var req sheet.GenerateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.service.GenerateSheet(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) listSheets(c *gin.Context) {
	sheets, err := h.sheets.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matchSheets": sheets})
}

func (h *Handler) getSheet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := h.sheets.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// download serves a stored blob under the given prefix.
func (h *Handler) download(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := prefix + "/" + c.Param("filename")
		data, found, err := h.blobs.Get(name)
		if err != nil {
			h.fail(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such document"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+c.Param("filename")+`"`)
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

// pathID parses the :id path parameter, answering 400 itself on garbage.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

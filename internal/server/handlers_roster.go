package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubsuite/matchsheet/internal/records"
)

// registerRosterRoutes wires the thin CRUD endpoints over the record store:
// players, coaches, tournaments, and age categories.
func (h *Handler) registerRosterRoutes(api *gin.RouterGroup) {
	players := api.Group("/players")
	{
		players.POST("", h.createPlayer)
		players.GET("", h.listPlayers)
		players.GET("/:id", h.getPlayer)
		players.PUT("/:id", h.updatePlayer)
		players.DELETE("/:id", h.deletePlayer)
	}
	coaches := api.Group("/coaches")
	{
		coaches.POST("", h.createCoach)
		coaches.GET("", h.listCoaches)
		coaches.GET("/:id", h.getCoach)
		coaches.PUT("/:id", h.updateCoach)
		coaches.DELETE("/:id", h.deleteCoach)
	}
	tournaments := api.Group("/tournaments")
	{
		tournaments.POST("", h.createTournament)
		tournaments.GET("", h.listTournaments)
		tournaments.GET("/:id", h.getTournament)
		tournaments.PUT("/:id", h.updateTournament)
		tournaments.DELETE("/:id", h.deleteTournament)
	}
	categories := api.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.DELETE("/:id", h.deleteCategory)
	}
}

func (h *Handler) createPlayer(c *gin.Context) {
	var p records.Player
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.players.Create(c.Request.Context(), &p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listPlayers(c *gin.Context) {
	players, err := h.players.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

func (h *Handler) getPlayer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.players.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updatePlayer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p records.Player
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = id
	if err := h.players.Update(c.Request.Context(), &p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePlayer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.players.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createCoach(c *gin.Context) {
	var co records.Coach
	if err := c.ShouldBindJSON(&co); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.coaches.Create(c.Request.Context(), &co)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listCoaches(c *gin.Context) {
	coaches, err := h.coaches.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coaches": coaches})
}

func (h *Handler) getCoach(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	co, err := h.coaches.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, co)
}

func (h *Handler) updateCoach(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var co records.Coach
	if err := c.ShouldBindJSON(&co); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	co.ID = id
	if err := h.coaches.Update(c.Request.Context(), &co); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, co)
}

func (h *Handler) deleteCoach(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.coaches.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createTournament(c *gin.Context) {
	var t records.Tournament
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.tournaments.Create(c.Request.Context(), &t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listTournaments(c *gin.Context) {
	tournaments, err := h.tournaments.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tournaments": tournaments})
}

func (h *Handler) getTournament(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.tournaments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) updateTournament(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var t records.Tournament
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t.ID = id
	if err := h.tournaments.Update(c.Request.Context(), &t); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) deleteTournament(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.tournaments.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createCategory(c *gin.Context) {
	var cat records.AgeCategory
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.categories.Create(c.Request.Context(), &cat)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

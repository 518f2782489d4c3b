package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/contenthub/content-service/internal/middleware"
	"github.com/contenthub/content-service/internal/repository"
	"github.com/contenthub/content-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BlogHandler handles blog post, tag and category endpoints.
type BlogHandler struct {
	blogService service.BlogService
	logger      *zap.Logger
}

// NewBlogHandler creates a new BlogHandler instance.
func NewBlogHandler(blogService service.BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		logger:      logger,
	}
}

// CreatePostRequest represents the post creation payload. There is no
// author field: the author is always the authenticated caller.
type CreatePostRequest struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	Slug     string  `json:"slug"`
	Tags     []int64 `json:"tags"`
	Category *int64  `json:"category"`
}

// CreatePost godoc
// @Summary Create blog post
// @Description Create a post authored by the caller
// @Tags blog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post fields"
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /blog/ [post]
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.blogService.CreatePost(c.Request.Context(), middleware.UserID(c), service.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		Slug:       req.Slug,
		TagIDs:     req.Tags,
		CategoryID: req.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			RespondError(c, http.StatusBadRequest, "invalid tag or category reference")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Get blog post
// @Tags blog
// @Security BearerAuth
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /blog/{id} [get]
func (h *BlogHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not found")
		return
	}

	post, err := h.blogService.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not found")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePostRequest represents a partial post update. A tags list fully
// replaces the prior tag set.
type UpdatePostRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Slug     *string  `json:"slug"`
	Tags     *[]int64 `json:"tags"`
	Category *int64   `json:"category"`
}

// UpdatePost godoc
// @Summary Update blog post
// @Description Partially update the caller's own post
// @Tags blog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body UpdatePostRequest true "Fields to update"
// @Success 200 {object} models.Post
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /blog/{id} [patch]
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not found")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), id, middleware.UserID(c), service.UpdatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		Slug:       req.Slug,
		TagIDs:     req.Tags,
		CategoryID: req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			RespondError(c, http.StatusNotFound, "not found")
		case errors.Is(err, service.ErrInvalidInput):
			RespondError(c, http.StatusBadRequest, "invalid tag or category reference")
		default:
			LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to update post")
		}
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary List blog posts
// @Description List posts newest first; author, tags and category filters combine conjunctively
// @Tags blog
// @Security BearerAuth
// @Produce json
// @Param author query int false "Author user ID"
// @Param tags query string false "Comma-separated tag names"
// @Param category query string false "Category name"
// @Success 200 {array} models.Post
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /blog/posts/ [get]
func (h *BlogHandler) ListPosts(c *gin.Context) {
	var filters repository.PostFilters

	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "author must be a user id")
			return
		}
		filters.AuthorID = &authorID
	}
	if tags := c.Query("tags"); tags != "" {
		for _, name := range strings.Split(tags, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				filters.TagNames = append(filters.TagNames, trimmed)
			}
		}
	}
	filters.CategoryName = c.Query("category")

	posts, err := h.blogService.ListPosts(c.Request.Context(), filters)
	if err != nil {
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to list posts")
		return
	}

	c.JSON(http.StatusOK, posts)
}

// CreateTagRequest represents the tag creation payload.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTag godoc
// @Summary Create tag
// @Tags blog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateTagRequest true "Tag fields"
// @Success 201 {object} models.Tag
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /blog/tags/ [post]
func (h *BlogHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tag, err := h.blogService.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to create tag")
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// ListTags godoc
// @Summary List tags
// @Description List all tags ordered by name
// @Tags blog
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Tag
// @Failure 401 {object} map[string]string
// @Router /blog/tags/list/ [get]
func (h *BlogHandler) ListTags(c *gin.Context) {
	tags, err := h.blogService.ListTags(c.Request.Context())
	if err != nil {
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// CreateCategoryRequest represents the category creation payload.
type CreateCategoryRequest struct {
	Name   string `json:"name" binding:"required"`
	Slug   string `json:"slug" binding:"required"`
	Parent *int64 `json:"parent"`
}

// CreateCategory godoc
// @Summary Create category
// @Tags blog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category fields"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /blog/categories [post]
func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.blogService.CreateCategory(c.Request.Context(), req.Name, req.Slug, req.Parent)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			RespondError(c, http.StatusBadRequest, "invalid parent category reference")
			return
		}
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories godoc
// @Summary List categories
// @Description List all categories ordered by name
// @Tags blog
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Category
// @Failure 401 {object} map[string]string
// @Router /blog/categories/list/ [get]
func (h *BlogHandler) ListCategories(c *gin.Context) {
	categories, err := h.blogService.ListCategories(c.Request.Context())
	if err != nil {
		LogAndRespondError(h.logger, c, http.StatusInternalServerError, err, "failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

package repository

import (
	"context"
	"fmt"

	"github.com/contenthub/content-service/internal/models"
	"gorm.io/gorm"
)

// PostFilters narrows a post listing. Filters combine conjunctively.
type PostFilters struct {
	AuthorID     *int64
	TagNames     []string
	CategoryName string
}

// PostRepository defines the interface for blog post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	FindByIDForAuthor(ctx context.Context, id, authorID int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
	List(ctx context.Context, filters PostFilters) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository instance.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Tags").First(&post, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find post by id %d: %w", id, err)
	}
	return &post, nil
}

// FindByIDForAuthor scopes the lookup to the given author, so a caller
// editing someone else's post sees the same result as a missing post.
func (r *postRepository) FindByIDForAuthor(ctx context.Context, id, authorID int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id = ? AND author_id = ?", id, authorID).
		First(&post).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find post %d for author %d: %w", id, authorID, err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	// Save only column values here; tag attachments go through ReplaceTags.
	err := r.db.WithContext(ctx).Omit("Tags").Save(post).Error
	if err != nil {
		return fmt.Errorf("failed to update post id %d: %w", post.ID, err)
	}
	return nil
}

// ReplaceTags swaps the post's tag set wholesale: previous attachments are
// cleared and the given tags attached.
func (r *postRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
	if err != nil {
		return fmt.Errorf("failed to replace tags on post id %d: %w", post.ID, err)
	}
	return nil
}

func (r *postRepository) List(ctx context.Context, filters PostFilters) ([]models.Post, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Preload("Tags").
		Order("posts.created_at DESC")

	if filters.AuthorID != nil {
		q = q.Where("posts.author_id = ?", *filters.AuthorID)
	}
	if len(filters.TagNames) > 0 {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.name IN ?", filters.TagNames).
			Distinct("posts.*")
	}
	if filters.CategoryName != "" {
		q = q.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.name = ?", filters.CategoryName)
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// TagRepository defines the interface for tag data operations.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	FindByIDs(ctx context.Context, ids []int64) ([]models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository instance.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to find tags by ids: %w", err)
	}
	return tags, nil
}

// List returns all tags ordered by name ascending.
func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository instance.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find category by id %d: %w", id, err)
	}
	return &category, nil
}

// List returns all categories ordered by name ascending.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Delete removes a category and detaches dependent posts instead of
// cascading: their category reference is nulled out. Child categories keep
// their parent pointer cleared the same way.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete category id %d: %w", id, err)
	}
	return nil
}

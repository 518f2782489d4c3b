package service

import (
	"context"
	"errors"

	"github.com/contenthub/content-service/internal/models"
	"github.com/contenthub/content-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// CreatePostInput carries the fields for a new post. The author is never
// part of the input; it is injected from the authenticated identity.
type CreatePostInput struct {
	Title      string
	Content    string
	Slug       string
	TagIDs     []int64
	CategoryID *int64
}

// UpdatePostInput is a partial post update. Nil fields are untouched; a
// non-nil TagIDs replaces the whole tag set.
type UpdatePostInput struct {
	Title      *string
	Content    *string
	Slug       *string
	TagIDs     *[]int64
	CategoryID *int64
}

// BlogService implements the post/tag/category operations.
type BlogService interface {
	CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, id, authorID int64, input UpdatePostInput) (*models.Post, error)
	ListPosts(ctx context.Context, filters repository.PostFilters) ([]models.Post, error)
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateCategory(ctx context.Context, name, slug string, parentID *int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type blogService struct {
	postRepo     repository.PostRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
}

// NewBlogService creates a new BlogService instance.
func NewBlogService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
) BlogService {
	return &blogService{
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *blogService) CreatePost(ctx context.Context, authorID int64, input CreatePostInput) (*models.Post, error) {
	tags, err := s.resolveTags(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, ErrInvalidInput
		}
	}

	post := &models.Post{
		Title:      input.Title,
		Content:    input.Content,
		Slug:       input.Slug,
		AuthorID:   authorID,
		CategoryID: input.CategoryID,
		Tags:       tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *blogService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost applies a partial update to the caller's own post. The lookup
// is scoped to the author, so edits to another user's post report NotFound.
func (s *blogService) UpdatePost(ctx context.Context, id, authorID int64, input UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.FindByIDForAuthor(ctx, id, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Slug != nil {
		post.Slug = *input.Slug
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, ErrInvalidInput
		}
		post.CategoryID = input.CategoryID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if input.TagIDs != nil {
		tags, err := s.resolveTags(ctx, *input.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	return s.GetPost(ctx, id)
}

func (s *blogService) ListPosts(ctx context.Context, filters repository.PostFilters) ([]models.Post, error) {
	return s.postRepo.List(ctx, filters)
}

func (s *blogService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{Name: name}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *blogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *blogService) CreateCategory(ctx context.Context, name, slug string, parentID *int64) (*models.Category, error) {
	if parentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *parentID); err != nil {
			return nil, ErrInvalidInput
		}
	}
	category := &models.Category{Name: name, Slug: slug, ParentID: parentID}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *blogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// DeleteCategory removes the category; dependent posts are left in place
// with their category cleared.
func (s *blogService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// resolveTags loads the referenced tags; unknown IDs fail the request
// rather than silently shrinking the set.
func (s *blogService) resolveTags(ctx context.Context, ids []int64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrInvalidInput
	}
	return tags, nil
}

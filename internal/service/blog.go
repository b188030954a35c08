package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"DemoPilot/internal/model"
	"DemoPilot/internal/model/dto"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/storage/database"
	"DemoPilot/utils"
)

var (
	blogService *BlogService
	blogOnce    sync.Once
)

func Blog() *BlogService {
	blogOnce.Do(func() {
		blogService = &BlogService{}
	})
	return blogService
}

type BlogService struct{}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// ListPublished 公共端文章列表，只见已发布，按发布时间倒序。
func (s *BlogService) ListPublished(ctx context.Context, q dto.BlogListQuery) ([]dto.BlogPostItem, int64, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)

	db := database.DB().WithContext(ctx).
		Model(&model.BlogPost{}).
		Where("published = ?", true)

	if q.Category != "" {
		db = db.Joins("JOIN blog_categories ON blog_categories.id = blog_posts.category_id").
			Where("blog_categories.slug = ?", q.Category)
	}
	if q.Tag != "" {
		db = db.Where("tags @> ?", fmt.Sprintf(`["%s"]`, q.Tag))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.BlogPost
	err := db.Preload("Category").
		Order("published_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.BlogPostItem, 0, len(posts))
	for i := range posts {
		items = append(items, toBlogItem(&posts[i]))
	}

	return items, total, nil
}

// GetBySlug 公共端详情。
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*dto.BlogPostDetail, error) {
	var post model.BlogPost

	err := database.DB().WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.BlogPostNotFound
	}
	if err != nil {
		return nil, err
	}

	detail := dto.BlogPostDetail{BlogPostItem: toBlogItem(&post), Content: post.Content}
	return &detail, nil
}

// ListAll 管理端列表，含未发布。
func (s *BlogService) ListAll(ctx context.Context, q dto.BlogListQuery) ([]dto.BlogPostItem, int64, error) {
	page, pageSize := normalizePage(q.Page, q.PageSize)

	db := database.DB().WithContext(ctx).Model(&model.BlogPost{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.BlogPost
	err := db.Preload("Category").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.BlogPostItem, 0, len(posts))
	for i := range posts {
		items = append(items, toBlogItem(&posts[i]))
	}

	return items, total, nil
}

// Create 新建文章：slug 由标题派生，冲突时追加序号；阅读时长按正文字数估算。
func (s *BlogService) Create(ctx context.Context, req *dto.CreateBlogPostRequest) (*dto.BlogPostDetail, error) {
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(ctx, utils.Slugify(req.Title), 0)
	if err != nil {
		return nil, err
	}

	tags, err := json.Marshal(nonNilTags(req.Tags))
	if err != nil {
		return nil, err
	}

	post := model.BlogPost{
		Title:           req.Title,
		Slug:            slug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		CoverImage:      req.CoverImage,
		Tags:            tags,
		CategoryID:      req.CategoryID,
		ReadTimeMinutes: utils.EstimateReadMinutes(req.Content),
		AuthorName:      req.AuthorName,
		Published:       req.Published,
	}
	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := database.DB().WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}

	detail := dto.BlogPostDetail{BlogPostItem: toBlogItem(&post), Content: post.Content}
	return &detail, nil
}

// Update 更新文章。标题变了 slug 跟着变，已发布状态首次置真时盖发布时间戳。
func (s *BlogService) Update(ctx context.Context, id int64, req *dto.UpdateBlogPostRequest) (*dto.BlogPostDetail, error) {
	var post model.BlogPost

	err := database.DB().WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.BlogPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	if req.Title != post.Title {
		slug, err := s.uniqueSlug(ctx, utils.Slugify(req.Title), post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	tags, err := json.Marshal(nonNilTags(req.Tags))
	if err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Excerpt = req.Excerpt
	post.Content = req.Content
	post.CoverImage = req.CoverImage
	post.Tags = tags
	post.CategoryID = req.CategoryID
	post.ReadTimeMinutes = utils.EstimateReadMinutes(req.Content)
	post.AuthorName = req.AuthorName

	if req.Published && !post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.Published = req.Published

	if err := database.DB().WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}

	detail := dto.BlogPostDetail{BlogPostItem: toBlogItem(&post), Content: post.Content}
	return &detail, nil
}

// SetPublished 发布/撤稿开关。首次发布盖时间戳，撤稿保留原时间。
func (s *BlogService) SetPublished(ctx context.Context, id int64, published bool) (*dto.BlogPostDetail, error) {
	var post model.BlogPost

	err := database.DB().WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.BlogPostNotFound
	}
	if err != nil {
		return nil, err
	}

	if published && !post.Published {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.Published = published

	if err := database.DB().WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}

	detail := dto.BlogPostDetail{BlogPostItem: toBlogItem(&post), Content: post.Content}
	return &detail, nil
}

// Delete 软删除。
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	result := database.DB().WithContext(ctx).Delete(&model.BlogPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.BlogPostNotFound
	}
	return nil
}

// ListCategories 分类全量。
func (s *BlogService) ListCategories(ctx context.Context) ([]dto.BlogCategoryItem, error) {
	var categories []model.BlogCategory

	err := database.DB().WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	items := make([]dto.BlogCategoryItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, dto.BlogCategoryItem{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	return items, nil
}

// CreateCategory 新建分类。
func (s *BlogService) CreateCategory(ctx context.Context, name string) (*dto.BlogCategoryItem, error) {
	category := model.BlogCategory{
		Name: name,
		Slug: utils.Slugify(name),
	}

	if err := database.DB().WithContext(ctx).Create(&category).Error; err != nil {
		return nil, pkgerrors.BlogSlugConflict
	}

	return &dto.BlogCategoryItem{ID: category.ID, Name: category.Name, Slug: category.Slug}, nil
}

func (s *BlogService) ensureCategory(ctx context.Context, id int64) error {
	var count int64
	if err := database.DB().WithContext(ctx).
		Model(&model.BlogCategory{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return pkgerrors.BlogCategoryNotFound
	}
	return nil
}

// uniqueSlug 冲突时追加 -2、-3 … 直到可用；excludeID 排除自身。
func (s *BlogService) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var count int64
		db := database.DB().WithContext(ctx).
			Model(&model.BlogPost{}).
			Where("slug = ?", slug)
		if excludeID > 0 {
			db = db.Where("id <> ?", excludeID)
		}
		if err := db.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}

		slug = fmt.Sprintf("%s-%d", base, i)
		if i > 50 {
			return "", pkgerrors.BlogSlugConflict
		}
	}
}

func toBlogItem(post *model.BlogPost) dto.BlogPostItem {
	var tags []string
	if len(post.Tags) > 0 {
		_ = json.Unmarshal(post.Tags, &tags)
	}
	if tags == nil {
		tags = []string{}
	}

	item := dto.BlogPostItem{
		ID:              post.ID,
		Title:           post.Title,
		Slug:            post.Slug,
		Excerpt:         post.Excerpt,
		CoverImage:      post.CoverImage,
		Tags:            tags,
		ReadTimeMinutes: post.ReadTimeMinutes,
		Published:       post.Published,
		PublishedAt:     post.PublishedAt,
		AuthorName:      post.AuthorName,
	}
	if post.Category != nil {
		item.CategoryName = post.Category.Name
	}

	return item
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

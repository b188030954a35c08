package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"DemoPilot/internal/model/dto"
	"DemoPilot/internal/service"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/response"
)

// ListBlogPosts 公共端文章列表
// GET /v1/blog/posts
func ListBlogPosts(ctx context.Context, c *app.RequestContext) {
	var q dto.BlogListQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, total, err := service.Blog().ListPublished(ctx, q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{"total": total})
}

// GetBlogPost 公共端文章详情
// GET /v1/blog/posts/:slug
func GetBlogPost(ctx context.Context, c *app.RequestContext) {
	detail, err := service.Blog().GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// ListBlogCategories 分类列表
// GET /v1/blog/categories
func ListBlogCategories(ctx context.Context, c *app.RequestContext) {
	items, err := service.Blog().ListCategories(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}

// AdminListBlogPosts 管理端列表（含未发布）
// GET /v1/admin/blog/posts
func AdminListBlogPosts(ctx context.Context, c *app.RequestContext) {
	var q dto.BlogListQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, total, err := service.Blog().ListAll(ctx, q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{"total": total})
}

// AdminCreateBlogPost 新建文章
// POST /v1/admin/blog/posts
func AdminCreateBlogPost(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateBlogPostRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if req.Title == "" || req.Content == "" {
		response.Error(ctx, c, pkgerrors.WizardValidationFailed.WithMessage("Title and content are required"))
		return
	}

	detail, err := service.Blog().Create(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// AdminUpdateBlogPost 更新文章
// PUT /v1/admin/blog/posts/:id
func AdminUpdateBlogPost(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.BlogPostNotFound)
		return
	}

	var req dto.UpdateBlogPostRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	detail, err := service.Blog().Update(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// AdminPublishBlogPost 发布/撤稿
// POST /v1/admin/blog/posts/:id/publish
func AdminPublishBlogPost(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.BlogPostNotFound)
		return
	}

	var req dto.PublishBlogPostRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	detail, err := service.Blog().SetPublished(ctx, id, req.Published)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// AdminDeleteBlogPost 删除文章
// DELETE /v1/admin/blog/posts/:id
func AdminDeleteBlogPost(ctx context.Context, c *app.RequestContext) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.BlogPostNotFound)
		return
	}

	if err := service.Blog().Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// AdminCreateBlogCategory 新建分类
// POST /v1/admin/blog/categories
func AdminCreateBlogCategory(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateBlogCategoryRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if req.Name == "" {
		response.Error(ctx, c, pkgerrors.WizardValidationFailed.WithMessage("Category name is required"))
		return
	}

	item, err := service.Blog().CreateCategory(ctx, req.Name)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, item)
}

package handler

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"DemoPilot/config"
	pkgerrors "DemoPilot/pkg/errors"
	"DemoPilot/pkg/logger"
	"DemoPilot/pkg/response"
)

// 博客封面和富文本插图用，白名单之外一律拒
var allowedUploadExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UploadFile 管理端文件上传
// POST /v1/admin/uploads
func UploadFile(ctx context.Context, c *app.RequestContext) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BindError(ctx, c, err)
		return
	}

	maxSize := int64(config.Cfg.UploadMaxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		response.Error(ctx, c, pkgerrors.UploadTooLarge)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExt[ext] {
		response.Error(ctx, c, pkgerrors.UploadTypeInvalid)
		return
	}

	if err := os.MkdirAll(config.Cfg.UploadDir, 0o755); err != nil {
		response.Error(ctx, c, err)
		return
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(config.Cfg.UploadDir, name)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.Logger.Error("Failed to save uploaded file", zap.Error(err))
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"filename": name,
		"url":      "/uploads/" + name,
		"size":     file.Size,
	})
}

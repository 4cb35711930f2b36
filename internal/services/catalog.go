package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/fapdigital/editais-backend/internal/cache"
	"github.com/fapdigital/editais-backend/internal/data/repos"
	types "github.com/fapdigital/editais-backend/internal/domain"
	"github.com/fapdigital/editais-backend/internal/pkg/dbctx"
	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

type ListRequest struct {
	Status   types.Status
	Category string
	Page     int
	PerPage  int
}

type ListPage struct {
	Items   []*types.Edital `json:"items"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// PublicCatalogService serves the read path through the versioned cache.
// Every key embeds the namespace's current version, so a write-side bump
// makes the whole namespace go cold at once.
type PublicCatalogService interface {
	List(ctx context.Context, req ListRequest) (*ListPage, error)
	GetBySlug(ctx context.Context, slugValue string) (*types.Edital, error)
	Search(ctx context.Context, query string, limit int) ([]*types.Edital, error)
}

type publicCatalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.EditalRepo
	versions cache.VersionStore
	pages    cache.PageCache
	ttl      time.Duration
	flight   singleflight.Group
}

func NewPublicCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	repo repos.EditalRepo,
	versions cache.VersionStore,
	pages cache.PageCache,
	ttl time.Duration,
) PublicCatalogService {
	serviceLog := baseLog.With("service", "PublicCatalogService")
	return &publicCatalogService{
		db:       db,
		log:      serviceLog,
		repo:     repo,
		versions: versions,
		pages:    pages,
		ttl:      ttl,
	}
}

func (s *publicCatalogService) List(ctx context.Context, req ListRequest) (*ListPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 20
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	version := s.versions.CurrentVersion(ctx, cache.NamespaceListing)
	key := cache.Key(cache.NamespaceListing, version,
		fmt.Sprintf("page=%d", req.Page),
		fmt.Sprintf("per=%d", req.PerPage),
		"status="+string(req.Status),
		"cat="+cache.HashPart(req.Category),
	)

	var cached ListPage
	if s.pages.Get(ctx, key, &cached) {
		return &cached, nil
	}

	// Concurrent misses on the same key collapse into one store query.
	out, err, _ := s.flight.Do(key, func() (interface{}, error) {
		items, total, err := s.repo.ListPublic(dbctx.New(ctx), repos.ListFilter{
			Status:   req.Status,
			Category: req.Category,
			Page:     req.Page,
			PerPage:  req.PerPage,
		})
		if err != nil {
			return nil, err
		}
		page := &ListPage{Items: items, Total: total, Page: req.Page, PerPage: req.PerPage}
		s.pages.Set(ctx, key, page, s.ttl)
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*ListPage), nil
}

func (s *publicCatalogService) GetBySlug(ctx context.Context, slugValue string) (*types.Edital, error) {
	version := s.versions.CurrentVersion(ctx, cache.NamespaceDetail)
	key := cache.Key(cache.NamespaceDetail, version, slugValue)

	var cached types.Edital
	if s.pages.Get(ctx, key, &cached) {
		return &cached, nil
	}

	out, err, _ := s.flight.Do(key, func() (interface{}, error) {
		rec, err := s.repo.GetBySlug(dbctx.New(ctx), slugValue)
		if err != nil {
			return nil, err
		}
		s.pages.Set(ctx, key, rec, s.ttl)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*types.Edital), nil
}

func (s *publicCatalogService) Search(ctx context.Context, query string, limit int) ([]*types.Edital, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	version := s.versions.CurrentVersion(ctx, cache.NamespaceSearch)
	key := cache.Key(cache.NamespaceSearch, version,
		"q="+cache.HashPart(query),
		fmt.Sprintf("n=%d", limit),
	)

	var cached []*types.Edital
	if s.pages.Get(ctx, key, &cached) {
		return cached, nil
	}

	out, err, _ := s.flight.Do(key, func() (interface{}, error) {
		items, err := s.repo.Search(dbctx.New(ctx), query, limit)
		if err != nil {
			return nil, err
		}
		s.pages.Set(ctx, key, items, s.ttl)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]*types.Edital), nil
}

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/pageza/foodgram/backend/internal/cache"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

const (
	shortLinkCharset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortLinkMaxAttempts = 10
	shortLinkCacheTTL    = 24 * time.Hour
)

// ErrShortLinkExhausted is returned when no free code was found
var ErrShortLinkExhausted = errors.New("could not generate a unique short link")

// CodeGenerator produces candidate short codes
type CodeGenerator func() (string, error)

// GenerateShortCode returns a random code of models.ShortLinkLength characters
func GenerateShortCode() (string, error) {
	upper := big.NewInt(int64(len(shortLinkCharset)))
	b := make([]byte, models.ShortLinkLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, upper)
		if err != nil {
			return "", err
		}
		b[i] = shortLinkCharset[n.Int64()]
	}
	return string(b), nil
}

// ShortLinkService assigns and resolves recipe short codes
type ShortLinkService struct {
	recipes  repository.RecipeRepository
	cache    cache.Store
	generate CodeGenerator
}

// NewShortLinkService creates the service. store may be nil.
func NewShortLinkService(recipes repository.RecipeRepository, store cache.Store) *ShortLinkService {
	return &ShortLinkService{
		recipes:  recipes,
		cache:    store,
		generate: GenerateShortCode,
	}
}

// WithGenerator replaces the code generator
func (s *ShortLinkService) WithGenerator(gen CodeGenerator) *ShortLinkService {
	s.generate = gen
	return s
}

// Assign gives recipe a code unless it already has one. repo should be
// bound to the transaction that owns recipe.
func (s *ShortLinkService) Assign(ctx context.Context, repo repository.RecipeRepository, recipe *models.Recipe) error {
	if recipe.ShortLink != "" {
		return nil
	}

	for attempt := 0; attempt < shortLinkMaxAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return fmt.Errorf("failed to generate short link: %w", err)
		}

		taken, err := repo.ShortLinkTaken(ctx, code)
		if err != nil {
			return err
		}
		if taken {
			metrics.ShortLinkCollisions.Inc()
			continue
		}

		err = repo.SetShortLink(ctx, recipe.ID, code)
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.ShortLinkCollisions.Inc()
			continue
		}
		if err != nil {
			return err
		}

		recipe.ShortLink = code
		return nil
	}

	logging.Ctx(ctx).Error().Uint("recipe_id", recipe.ID).Msg("short link attempts exhausted")
	return ErrShortLinkExhausted
}

// Resolve returns the recipe id for code
func (s *ShortLinkService) Resolve(ctx context.Context, code string) (uint, error) {
	if len(code) != models.ShortLinkLength {
		return 0, ErrNotFound
	}

	if s.cache != nil {
		val, err := s.cache.Get(ctx, cacheKey(code))
		if err == nil {
			if id, perr := strconv.ParseUint(val, 10, 64); perr == nil {
				metrics.ShortLinkCacheHits.Inc()
				return uint(id), nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			logging.Ctx(ctx).Warn().Err(err).Msg("short link cache read failed")
		}
		metrics.ShortLinkCacheMisses.Inc()
	}

	id, err := s.recipes.IDByShortLink(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(code), strconv.FormatUint(uint64(id), 10), shortLinkCacheTTL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("short link cache write failed")
		}
	}
	return id, nil
}

// Code returns the code of a recipe, assigning one if it is missing
func (s *ShortLinkService) Code(ctx context.Context, recipeID uint) (string, error) {
	var code string
	err := s.recipes.Transaction(ctx, func(repo repository.RecipeRepository) error {
		recipe, err := repo.Find(ctx, recipeID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := s.Assign(ctx, repo, recipe); err != nil {
			return err
		}
		code = recipe.ShortLink
		return nil
	})
	return code, err
}

// Invalidate drops the cached resolution of code
func (s *ShortLinkService) Invalidate(ctx context.Context, code string) {
	if s.cache == nil || code == "" {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(code)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("short link cache delete failed")
	}
}

func cacheKey(code string) string {
	return "shortlink:" + code
}

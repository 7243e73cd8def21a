package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"meddir/internal/adapters/observability"
	"meddir/internal/domain"
)

// RatingPolicy decides what happens to institution ratings outside [0, 5].
type RatingPolicy string

const (
	RatingAccept RatingPolicy = "accept"
	RatingClamp  RatingPolicy = "clamp"
	RatingReject RatingPolicy = "reject"
)

func ParseRatingPolicy(s string) RatingPolicy {
	switch p := RatingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RatingClamp, RatingReject:
		return p
	}
	return RatingAccept
}

// apply returns the rating to store under p.
func (p RatingPolicy) apply(r float64) (float64, error) {
	if r >= 0 && r <= 5 {
		return r, nil
	}
	switch p {
	case RatingClamp:
		return math.Min(5, math.Max(0, r)), nil
	case RatingReject:
		return 0, domain.Validation("rating %.2f outside [0, 5]", r)
	}
	return r, nil
}

var validate = validator.New()

// validationError flattens validator output into a single VALIDATION AppError.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return domain.Validation("%v", err)
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return domain.Validation("invalid fields: %s", strings.Join(fields, ", "))
}

// CommandService routes visitor and admin writes into the store and evicts the
// cache entries they make stale.
type CommandService struct {
	dir    domain.Directory
	cache  domain.Cache
	rating RatingPolicy
}

func NewCommandService(d domain.Directory, c domain.Cache, p RatingPolicy) *CommandService {
	return &CommandService{dir: d, cache: c, rating: p}
}

func (s *CommandService) AddInstitution(ctx context.Context, data domain.Institution) (domain.Institution, error) {
	if err := checkInstitution(data); err != nil {
		return domain.Institution{}, err
	}
	r, err := s.rating.apply(data.Rating)
	if err != nil {
		return domain.Institution{}, err
	}
	data.Rating = r

	inst := s.dir.AddInstitution(data)
	observability.ObserveMutation("institution", "add")
	log.Info().Str("id", inst.ID).Str("name", inst.Name).Msg("institution added")
	return inst, nil
}

func (s *CommandService) UpdateInstitution(ctx context.Context, id string, patch domain.InstitutionPatch) (domain.Institution, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.Institution{}, domain.Validation("name must not be empty")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return domain.Institution{}, domain.Validation("unknown institution type %q", *patch.Type)
	}
	if patch.Rating != nil {
		r, err := s.rating.apply(*patch.Rating)
		if err != nil {
			return domain.Institution{}, err
		}
		patch.Rating = &r
	}

	current, err := s.dir.Institution(id)
	if err != nil {
		return domain.Institution{}, err
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if err := checkInstitution(merged); err != nil {
		return domain.Institution{}, err
	}

	inst, err := s.dir.UpdateInstitution(id, patch)
	if err != nil {
		return domain.Institution{}, err
	}
	s.evict(ctx, institutionKey(s.dir.Epoch(), id))
	observability.ObserveMutation("institution", "update")
	log.Info().Str("id", id).Msg("institution updated")
	return inst, nil
}

func (s *CommandService) DeleteInstitution(ctx context.Context, id string) error {
	if err := s.dir.DeleteInstitution(id); err != nil {
		return err
	}
	s.evict(ctx, institutionKey(s.dir.Epoch(), id), reviewsKey(s.dir.Epoch(), id))
	observability.ObserveMutation("institution", "delete")
	log.Info().Str("id", id).Msg("institution deleted")
	return nil
}

// SubmitReview records a visitor review. It stays hidden until approved.
func (s *CommandService) SubmitReview(ctx context.Context, data domain.NewReview) (domain.Review, error) {
	data.AuthorName = strings.TrimSpace(data.AuthorName)
	data.Comment = strings.TrimSpace(data.Comment)
	if err := validate.Struct(data); err != nil {
		return domain.Review{}, validationError(err)
	}
	r := s.dir.AddReview(data)
	observability.ObserveMutation("review", "add")
	log.Info().Str("id", r.ID).Str("institution", r.InstitutionID).Msg("review submitted for moderation")
	return r, nil
}

func (s *CommandService) ApproveReview(ctx context.Context, id string) (domain.Review, error) {
	r, err := s.dir.ApproveReview(id)
	if err != nil {
		return domain.Review{}, err
	}
	s.evict(ctx, reviewsKey(s.dir.Epoch(), r.InstitutionID))
	observability.ObserveMutation("review", "approve")
	log.Info().Str("id", id).Msg("review approved")
	return r, nil
}

func (s *CommandService) DeleteReview(ctx context.Context, id string) error {
	r, err := s.dir.DeleteReview(id)
	if err != nil {
		return err
	}
	s.evict(ctx, reviewsKey(s.dir.Epoch(), r.InstitutionID))
	observability.ObserveMutation("review", "delete")
	log.Info().Str("id", id).Msg("review deleted")
	return nil
}

func (s *CommandService) AddNews(ctx context.Context, data domain.News) (domain.News, error) {
	if err := checkNews(data); err != nil {
		return domain.News{}, err
	}
	n := s.dir.AddNews(data)
	observability.ObserveMutation("news", "add")
	log.Info().Str("id", n.ID).Msg("news added")
	return n, nil
}

func (s *CommandService) DeleteNews(ctx context.Context, id string) error {
	if err := s.dir.DeleteNews(id); err != nil {
		return err
	}
	observability.ObserveMutation("news", "delete")
	log.Info().Str("id", id).Msg("news deleted")
	return nil
}

func (s *CommandService) evict(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		_ = s.cache.Del(ctx, k)
	}
}

func checkInstitution(data domain.Institution) error {
	if err := validate.Struct(data); err != nil {
		return validationError(err)
	}
	if !data.Type.Valid() {
		return domain.Validation("unknown institution type %q", data.Type)
	}
	return nil
}

func checkNews(data domain.News) error {
	if err := validate.Struct(data); err != nil {
		return validationError(err)
	}
	if !data.Category.Valid() {
		return domain.Validation("unknown news category %q", data.Category)
	}
	return nil
}

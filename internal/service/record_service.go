package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/codec"
	"github.com/noah-isme/student-records-api/internal/repository"
	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

type recordStore[T repository.Record] interface {
	Get(ctx context.Context, id uint64) (*T, error)
	Insert(ctx context.Context, id uint64, rec T) (*T, error)
	Replace(ctx context.Context, id uint64, rec T) (*T, error)
	Remove(ctx context.Context, id uint64) (*T, error)
	List(ctx context.Context) ([]T, error)
}

type idAllocator interface {
	Next(ctx context.Context) (uint64, error)
}

// NewValidator returns a validator reporting fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		message := fmt.Sprintf("%s is invalid", fe.Field())
		if fe.Tag() == "required" {
			message = fmt.Sprintf("%s cannot be empty", fe.Field())
		}
		return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid payload")
}

func storageError(err error, message string) error {
	if errors.Is(err, codec.ErrRecordTooLarge) {
		return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status,
			fmt.Sprintf("record exceeds %d encoded bytes", codec.MaxRecordSize))
	}
	return appErrors.Internal(err, message)
}

// recordSet implements the id-keyed CRUD shared by every record service:
// error mapping, list caching with invalidation on mutation, and logging.
type recordSet[T repository.Record] struct {
	collection string
	entity     string
	store      recordStore[T]
	ids        idAllocator
	cache      *CacheService
	logger     *zap.Logger
}

func newRecordSet[T repository.Record](collection, entity string, store recordStore[T], ids idAllocator, cache *CacheService, logger *zap.Logger) recordSet[T] {
	return recordSet[T]{
		collection: collection,
		entity:     entity,
		store:      store,
		ids:        ids,
		cache:      cache,
		logger:     logger.With(zap.String("collection", collection)),
	}
}

func (r recordSet[T]) get(ctx context.Context, id uint64) (*T, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		r.logger.Error("load failed", zap.Uint64("id", id), zap.Error(err))
		return nil, storageError(err, "failed to load "+strings.ToLower(r.entity))
	}
	if rec == nil {
		return nil, appErrors.NotFoundf(r.entity, id)
	}
	return rec, nil
}

// create allocates the next id, builds the record around it and stores it.
func (r recordSet[T]) create(ctx context.Context, build func(id uint64) T) (*T, error) {
	id, err := r.ids.Next(ctx)
	if err != nil {
		r.logger.Error("id allocation failed", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to allocate id")
	}
	rec := build(id)
	if _, err := r.store.Insert(ctx, id, rec); err != nil {
		r.logger.Error("insert failed", zap.Uint64("id", id), zap.Error(err))
		return nil, storageError(err, "failed to create "+strings.ToLower(r.entity))
	}
	r.invalidate(ctx)
	r.logger.Debug("record created", zap.Uint64("id", id))
	return &rec, nil
}

// replace overwrites the record at id, failing with NotFound and leaving the
// store untouched when id is absent.
func (r recordSet[T]) replace(ctx context.Context, id uint64, rec T) (*T, error) {
	prev, err := r.store.Replace(ctx, id, rec)
	if err != nil {
		r.logger.Error("replace failed", zap.Uint64("id", id), zap.Error(err))
		return nil, storageError(err, "failed to update "+strings.ToLower(r.entity))
	}
	if prev == nil {
		return nil, appErrors.NotFoundf(r.entity, id)
	}
	r.invalidate(ctx)
	r.logger.Debug("record updated", zap.Uint64("id", id))
	return &rec, nil
}

func (r recordSet[T]) remove(ctx context.Context, id uint64) error {
	prev, err := r.store.Remove(ctx, id)
	if err != nil {
		r.logger.Error("delete failed", zap.Uint64("id", id), zap.Error(err))
		return storageError(err, "failed to delete "+strings.ToLower(r.entity))
	}
	if prev == nil {
		return appErrors.NotFoundf(r.entity, id)
	}
	r.invalidate(ctx)
	r.logger.Debug("record deleted", zap.Uint64("id", id))
	return nil
}

// list returns every record in ascending id order and whether the result was
// served from cache.
func (r recordSet[T]) list(ctx context.Context) ([]T, bool, error) {
	key := ListKey(r.collection)
	if r.cache.Enabled() {
		var cached []T
		if hit, _ := r.cache.Get(ctx, key, &cached); hit {
			if cached == nil {
				cached = []T{}
			}
			return cached, true, nil
		}
	}

	gen := r.cache.Generation(r.collection)
	records, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, false, storageError(err, "failed to list "+r.collection)
	}
	_, _ = r.cache.SetIfCurrent(ctx, r.collection, gen, key, records, 0)
	return records, false, nil
}

func (r recordSet[T]) invalidate(ctx context.Context) {
	_ = r.cache.InvalidateCollection(ctx, r.collection)
}

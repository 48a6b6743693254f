package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reglet-dev/phasehull/internal/application/dto"
	apperrors "github.com/reglet-dev/phasehull/internal/application/errors"
	"github.com/reglet-dev/phasehull/internal/domain/entities"
	"github.com/reglet-dev/phasehull/internal/domain/services"
	"golang.org/x/sync/errgroup"
)

// Error kinds reported on failed batch items.
const (
	ErrorKindParse      = "parse"
	ErrorKindValidation = "validation"
	ErrorKindAlignment  = "alignment"
	ErrorKindEstimation = "estimation"
	ErrorKindCanceled   = "canceled"
	ErrorKindInternal   = "internal"
)

// BatchReactionsUseCase runs many reaction queries concurrently.
type BatchReactionsUseCase struct {
	reactions *ReactionProductsUseCase
	logger    *slog.Logger
}

// NewBatchReactionsUseCase creates a batch use case on top of a single query use case.
func NewBatchReactionsUseCase(reactions *ReactionProductsUseCase, logger *slog.Logger) *BatchReactionsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchReactionsUseCase{reactions: reactions, logger: logger}
}

// Execute runs every pair and returns items in input order. A failing pair is
// recorded on its item and does not fail the batch. Only an invalid filter or
// context cancellation returns an error.
func (uc *BatchReactionsUseCase) Execute(ctx context.Context, req dto.BatchRequest) (*dto.BatchResponse, error) {
	startTime := time.Now()

	if _, err := services.CompileProductFilter(req.Filter); err != nil {
		return nil, apperrors.NewValidationError("filter", err.Error())
	}

	items := make([]dto.BatchItem, len(req.Pairs))
	g, gCtx := errgroup.WithContext(ctx)
	if req.MaxConcurrent > 0 {
		g.SetLimit(req.MaxConcurrent)
	}

	for i, pair := range req.Pairs {
		items[i].Pair = pair
		if gCtx.Err() != nil {
			items[i].Error = gCtx.Err().Error()
			items[i].ErrorKind = ErrorKindCanceled
			continue
		}

		g.Go(func() error {
			resp, err := uc.reactions.Execute(gCtx, dto.ReactionRequest{
				ElementA: pair.ElementA,
				ElementB: pair.ElementB,
				Filter:   req.Filter,
				Metadata: req.Metadata,
			})
			if err != nil {
				items[i].Error = err.Error()
				items[i].ErrorKind = ErrorKind(err)
				uc.logger.Debug("batch item failed", "index", i, "error", err)
				return nil
			}
			items[i].Result = resp.Result
			return nil
		})
	}

	// Workers never return errors, so Wait only blocks.
	_ = g.Wait()

	resp := &dto.BatchResponse{
		Items: items,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}

	uc.logger.Info("batch completed",
		"pairs", len(items),
		"failed", resp.Failures(),
		"duration", resp.Metadata.Duration)

	if err := ctx.Err(); err != nil {
		return resp, err
	}
	return resp, nil
}

// ErrorKind classifies an error returned by a reaction query.
func ErrorKind(err error) string {
	var (
		parseErr *entities.ParseError
		valErr   *apperrors.ValidationError
		alignErr *apperrors.AlignmentError
		estErr   *apperrors.EstimationError
	)
	switch {
	case errors.As(err, &parseErr):
		return ErrorKindParse
	case errors.As(err, &valErr):
		return ErrorKindValidation
	case errors.As(err, &alignErr):
		return ErrorKindAlignment
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	case errors.As(err, &estErr):
		return ErrorKindEstimation
	default:
		return ErrorKindInternal
	}
}

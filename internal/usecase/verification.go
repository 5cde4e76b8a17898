package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
)

// Invoker runs one provider operation with a validated payload.
type Invoker func(ctx context.Context, payload model.Payload) (model.Result, error)

// Recorder receives orchestration outcomes.
type Recorder interface {
	ObserveVerification(check, outcome string)
	ObserveCommit(checkType string, committed bool)
}

const (
	OutcomeSuccess          = "success"
	OutcomeValidationFailed = "validation_failed"
	OutcomeQuotaExhausted   = "quota_exhausted"
	OutcomeProviderFailed   = "provider_failed"
	OutcomeCommitRace       = "commit_race"
	OutcomePrepared         = "prepared"
	OutcomeNotConfirmed     = "not_confirmed"
	OutcomeError            = "error"
)

const consentField = "consent"

// VerificationUseCase drives a check through validation, quota resolution,
// the provider call and the conditional quota commit.
type VerificationUseCase struct {
	quota   *QuotaUseCase
	metrics Recorder
	logger  *slog.Logger
}

// NewVerificationUseCase constructs VerificationUseCase.
func NewVerificationUseCase(quota *QuotaUseCase, metrics Recorder, logger *slog.Logger) *VerificationUseCase {
	return &VerificationUseCase{quota: quota, metrics: metrics, logger: logger}
}

// Execute runs a single-step check. A credit is spent only when invoke succeeds.
func (u *VerificationUseCase) Execute(ctx context.Context, userID int64, spec model.CheckSpec, payload model.Payload, invoke Invoker) (model.Result, error) {
	order, err := u.admit(ctx, userID, spec, payload)
	if err != nil {
		return nil, err
	}

	result, err := invoke(ctx, payload)
	if err != nil {
		u.providerFailed(spec, err)
		return nil, err
	}

	if err := u.commit(ctx, spec, order); err != nil {
		return nil, err
	}
	u.metrics.ObserveVerification(spec.Name, OutcomeSuccess)
	return result, nil
}

// Prepare runs the start step of a deferred check. Quota must be available but is not spent.
func (u *VerificationUseCase) Prepare(ctx context.Context, userID int64, spec model.CheckSpec, payload model.Payload, start Invoker) (model.Result, error) {
	if _, err := u.admit(ctx, userID, spec, payload); err != nil {
		return nil, err
	}

	result, err := start(ctx, payload)
	if err != nil {
		u.providerFailed(spec, err)
		return nil, err
	}
	u.metrics.ObserveVerification(spec.Name, OutcomePrepared)
	return result, nil
}

// Confirm runs the finish step of a deferred check. Quota is resolved afresh and
// spent only when succeeded accepts the finish result. The boolean reports whether
// a credit was spent.
func (u *VerificationUseCase) Confirm(ctx context.Context, userID int64, spec model.CheckSpec, payload model.Payload, finish Invoker, succeeded model.SuccessPredicate) (model.Result, bool, error) {
	order, err := u.admit(ctx, userID, spec, payload)
	if err != nil {
		return nil, false, err
	}

	result, err := finish(ctx, payload)
	if err != nil {
		u.providerFailed(spec, err)
		return nil, false, err
	}

	if !succeeded(result) {
		u.logger.Info("verification not confirmed, quota untouched",
			slog.String("check", spec.Name),
			slog.Int64("order_id", order.ID),
		)
		u.metrics.ObserveVerification(spec.Name, OutcomeNotConfirmed)
		return result, false, nil
	}

	if err := u.commit(ctx, spec, order); err != nil {
		return nil, false, err
	}
	u.metrics.ObserveVerification(spec.Name, OutcomeSuccess)
	return result, true, nil
}

func (u *VerificationUseCase) admit(ctx context.Context, userID int64, spec model.CheckSpec, payload model.Payload) (*model.Order, error) {
	if missing := payload.Missing(spec.RequiredFields); len(missing) > 0 {
		u.logger.Warn("verification request rejected",
			slog.String("check", spec.Name),
			slog.Any("missing", missing),
		)
		u.metrics.ObserveVerification(spec.Name, OutcomeValidationFailed)
		return nil, domainErrors.MissingFields(missing...)
	}

	if spec.RequireConsent && !payload.Present(consentField) {
		u.logger.Warn("verification request without consent", slog.String("check", spec.Name))
		u.metrics.ObserveVerification(spec.Name, OutcomeValidationFailed)
		return nil, domainErrors.MissingConsent()
	}

	order, err := u.quota.ResolveChain(ctx, userID, spec.Types())
	if err != nil {
		if errors.Is(err, domainErrors.ErrQuotaExhausted) {
			u.logger.Warn("no eligible quota",
				slog.String("check", spec.Name),
				slog.Int64("user_id", userID),
				slog.Any("types", spec.Types()),
			)
			u.metrics.ObserveVerification(spec.Name, OutcomeQuotaExhausted)
			return nil, err
		}
		u.logger.Error("quota resolution failed", slog.String("check", spec.Name), slog.String("error", err.Error()))
		u.metrics.ObserveVerification(spec.Name, OutcomeError)
		return nil, err
	}

	u.logger.Debug("quota resolved",
		slog.String("check", spec.Name),
		slog.Int64("order_id", order.ID),
		slog.String("check_type", order.CheckType),
		slog.Int("remaining", order.Quota.Remaining),
	)
	return order, nil
}

// commit discards the provider result when the chosen order was drained in the meantime.
func (u *VerificationUseCase) commit(ctx context.Context, spec model.CheckSpec, order *model.Order) error {
	updated, err := u.quota.Commit(ctx, order)
	if err != nil {
		if errors.Is(err, domainErrors.ErrQuotaExhausted) {
			u.logger.Warn("quota commit lost race",
				slog.String("check", spec.Name),
				slog.Int64("order_id", order.ID),
			)
			u.metrics.ObserveCommit(order.CheckType, false)
			u.metrics.ObserveVerification(spec.Name, OutcomeCommitRace)
			return &domainErrors.QuotaError{Types: spec.Types()}
		}
		u.logger.Error("quota commit failed",
			slog.String("check", spec.Name),
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		u.metrics.ObserveVerification(spec.Name, OutcomeError)
		return err
	}

	u.metrics.ObserveCommit(updated.CheckType, true)
	u.logger.Info("quota committed",
		slog.String("check", spec.Name),
		slog.Int64("order_id", updated.ID),
		slog.Int("used", updated.Quota.Used),
		slog.Int("remaining", updated.Quota.Remaining),
	)
	return nil
}

func (u *VerificationUseCase) providerFailed(spec model.CheckSpec, err error) {
	u.logger.Warn("provider call failed", slog.String("check", spec.Name), slog.String("error", err.Error()))
	u.metrics.ObserveVerification(spec.Name, OutcomeProviderFailed)
}

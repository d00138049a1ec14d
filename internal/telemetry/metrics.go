// Package telemetry defines the recovery-flow metric instruments.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// RecoveryMetrics holds the counters emitted by the recovery flow. A nil
// *RecoveryMetrics is a valid no-op receiver so tests can skip metrics wiring.
type RecoveryMetrics struct {
	otpRequests    metric.Int64Counter
	verifySuccess  metric.Int64Counter
	verifyFailure  metric.Int64Counter
	passwordResets metric.Int64Counter
}

// NewRecoveryMetrics creates the recovery counters on the given meter.
func NewRecoveryMetrics(meter metric.Meter) (*RecoveryMetrics, error) {
	m := &RecoveryMetrics{}
	var err error
	if m.otpRequests, err = meter.Int64Counter("recovery.otp_requests_total",
		metric.WithDescription("Recovery codes issued (existing and unknown identifiers alike)")); err != nil {
		return nil, err
	}
	if m.verifySuccess, err = meter.Int64Counter("recovery.otp_verify_success_total",
		metric.WithDescription("Successful code verifications")); err != nil {
		return nil, err
	}
	if m.verifyFailure, err = meter.Int64Counter("recovery.otp_verify_failure_total",
		metric.WithDescription("Failed code verifications, all causes collapsed")); err != nil {
		return nil, err
	}
	if m.passwordResets, err = meter.Int64Counter("recovery.password_resets_total",
		metric.WithDescription("Passwords changed through recovery")); err != nil {
		return nil, err
	}
	return m, nil
}

// IncOTPRequest counts one issued challenge.
func (m *RecoveryMetrics) IncOTPRequest(ctx context.Context) {
	if m != nil && m.otpRequests != nil {
		m.otpRequests.Add(ctx, 1)
	}
}

// IncVerifySuccess counts one successful verification.
func (m *RecoveryMetrics) IncVerifySuccess(ctx context.Context) {
	if m != nil && m.verifySuccess != nil {
		m.verifySuccess.Add(ctx, 1)
	}
}

// IncVerifyFailure counts one failed verification.
func (m *RecoveryMetrics) IncVerifyFailure(ctx context.Context) {
	if m != nil && m.verifyFailure != nil {
		m.verifyFailure.Add(ctx, 1)
	}
}

// IncPasswordReset counts one completed reset.
func (m *RecoveryMetrics) IncPasswordReset(ctx context.Context) {
	if m != nil && m.passwordResets != nil {
		m.passwordResets.Add(ctx, 1)
	}
}

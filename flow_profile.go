package goSession

import (
	"context"
	"net/http"
)

// Profile fetches the signed-in user's profile. The request is authenticated,
// so a rejected session surfaces as [ErrUnauthorized] after the interceptor
// has already torn the session down.
func (c *Client) Profile(ctx context.Context) (ProfileResult, error) {
	env, err := c.Request(ctx, http.MethodGet, endpointProfile, nil, true)
	if err != nil {
		return ProfileResult{}, err
	}
	if !env.Success {
		return ProfileResult{
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	var data profileData
	if err := env.DecodeData(&data); err != nil {
		return ProfileResult{}, err
	}

	c.metricInc(MetricProfileFetch)
	return ProfileResult{OK: true, User: data.User, Message: env.Message}, nil
}

// UpdateProfile writes profile fields after local validation.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (ProfileResult, error) {
	if fieldErrs := c.validatePayload(update); fieldErrs != nil {
		return ProfileResult{FieldErrors: fieldErrs}, nil
	}

	env, err := c.Request(ctx, http.MethodPut, endpointProfile, update, true)
	if err != nil {
		return ProfileResult{}, err
	}
	if !env.Success {
		return ProfileResult{
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	var data profileData
	if err := env.DecodeData(&data); err != nil {
		return ProfileResult{}, err
	}

	c.metricInc(MetricProfileUpdate)
	return ProfileResult{OK: true, User: data.User, Message: env.Message}, nil
}

// ChangePassword rotates the password of the signed-in user. Unlike the
// forgot-password journey this requires the current password and an
// authenticated session; the stored tokens are left untouched on success.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (PasswordChangeResult, error) {
	if fieldErrs := c.validatePayload(req); fieldErrs != nil {
		return PasswordChangeResult{FieldErrors: fieldErrs}, nil
	}

	env, err := c.Request(ctx, http.MethodPost, endpointChangePassword, req, true)
	if err != nil {
		c.metricInc(MetricPasswordChangeFailure)
		return PasswordChangeResult{}, err
	}
	if !env.Success {
		c.metricInc(MetricPasswordChangeFailure)
		return PasswordChangeResult{
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	c.metricInc(MetricPasswordChangeSuccess)
	return PasswordChangeResult{OK: true, Message: env.Message}, nil
}

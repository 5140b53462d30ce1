package uc

import (
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/mailer"
)

var (
	_ core.Usecase[*RegisterOutput]             = (*Register)(nil)
	_ core.Usecase[*AuthOutput]                 = (*VerifySignupOTP)(nil)
	_ core.Usecase[*AuthOutput]                 = (*Login)(nil)
	_ core.Usecase[*RequestPasswordResetOutput] = (*RequestPasswordReset)(nil)
	_ core.Usecase[*VerifyResetOTPOutput]       = (*VerifyResetOTP)(nil)
	_ core.Usecase[*ResetPasswordOutput]        = (*ResetPassword)(nil)
	_ core.Usecase[*ResendOTPOutput]            = (*ResendOTP)(nil)
	_ core.Usecase[*model.User]                 = (*GetUser)(nil)
)

// Config carries the auth policy knobs shared across use cases.
type Config struct {
	OTPLength      int
	OTPTTL         time.Duration
	BcryptCost     int
	MinPasswordLen int
}

// DefaultConfig returns the default auth policy.
func DefaultConfig() *Config {
	return &Config{
		OTPLength:      6,
		OTPTTL:         10 * time.Minute,
		BcryptCost:     10,
		MinPasswordLen: 8,
	}
}

// Factory builds auth use cases with shared dependencies.
type Factory struct {
	repo   Repository
	mail   mailer.Mailer
	tokens *token.Manager
	cfg    *Config
}

// NewFactory creates a use case factory.
func NewFactory(repo Repository, mail mailer.Mailer, tokens *token.Manager, cfg *Config) *Factory {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Factory{repo: repo, mail: mail, tokens: tokens, cfg: cfg}
}

func (f *Factory) Register(input *RegisterInput) *Register {
	return &Register{factory: f, input: input}
}

func (f *Factory) VerifySignupOTP(input *VerifyOTPInput) *VerifySignupOTP {
	return &VerifySignupOTP{factory: f, input: input}
}

func (f *Factory) Login(input *LoginInput) *Login {
	return &Login{factory: f, input: input}
}

func (f *Factory) RequestPasswordReset(input *RequestPasswordResetInput) *RequestPasswordReset {
	return &RequestPasswordReset{factory: f, input: input}
}

func (f *Factory) VerifyResetOTP(input *VerifyOTPInput) *VerifyResetOTP {
	return &VerifyResetOTP{factory: f, input: input}
}

func (f *Factory) ResetPassword(input *ResetPasswordInput) *ResetPassword {
	return &ResetPassword{factory: f, input: input}
}

func (f *Factory) ResendOTP(input *ResendOTPInput) *ResendOTP {
	return &ResendOTP{factory: f, input: input}
}

func (f *Factory) GetUser(input *GetUserInput) *GetUser {
	return &GetUser{factory: f, input: input}
}

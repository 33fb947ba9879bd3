package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/anniv/internal/common"
	"github.com/dmitrijs2005/anniv/internal/server/services"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const maxBodyBytes = 64 << 10

type registerRequest struct {
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	Email           string  `json:"email"`
	Nickname        string  `json:"nickname"`
	Avatar          string  `json:"avatar"`
	TwoFactorSecret *string `json:"2fa_secret,omitempty"`
	InviteCode      *string `json:"invite_code,omitempty"`
}

func (r registerRequest) toService() services.RegisterRequest {
	return services.RegisterRequest{
		Username:        r.Username,
		Password:        r.Password,
		Email:           r.Email,
		Nickname:        r.Nickname,
		Avatar:          r.Avatar,
		TwoFactorSecret: r.TwoFactorSecret,
		InviteCode:      r.InviteCode,
	}
}

type checkRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
}

func (r checkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Username, validation.NilOrNotEmpty),
	)
}

type loginRequest struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	TwoFactorCode *string `json:"2fa_code,omitempty"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type idOnly struct {
	ID string `json:"id"`
}

func (r idOnly) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}

// decode reads a JSON body into v and, when v knows how, validates it. Any
// failure is reported as InvalidParameters. Registration fields are checked
// by the service after its feature gates.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return common.Wrap(common.ErrInvalidParameters, fmt.Errorf("malformed body: %w", err))
	}
	if vv, ok := v.(validation.Validatable); ok {
		if err := vv.Validate(); err != nil {
			return common.Wrap(common.ErrInvalidParameters, err)
		}
	}
	return nil
}
